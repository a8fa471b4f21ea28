// Package python provides a Python-dialect interpreter backed by Starlark.
//
// Programs run as complete files with top-level statements, while loops,
// sets and global reassignment enabled. Recursion stays disabled so that a
// runaway recursive program fails with an error instead of exhausting the
// host's goroutine stack.
//
// Every Run gets fresh module globals: nothing a program defines is visible
// to the next program or to the host.
package python

import (
	"context"
	"errors"
	"fmt"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/jonwraymond/codeplay/runtime"
	"github.com/jonwraymond/codeplay/runtime/backend/shared"
)

// Language is the language name served by this backend.
const Language = "python"

// DefaultFilename is the synthetic file name programs are compiled under.
const DefaultFilename = "main.py"

// Options configures the interpreter.
type Options struct {
	// Filename is the synthetic file name used in positions.
	// Default: main.py
	Filename string

	// MaxSteps bounds the number of interpreter steps per run.
	// Zero means unlimited.
	MaxSteps uint64

	// Predeclared adds names to the builtins visible to every program.
	// Values are frozen when the interpreter loads.
	Predeclared starlark.StringDict
}

func (o *Options) applyDefaults() {
	if o.Filename == "" {
		o.Filename = DefaultFilename
	}
}

// Interpreter runs Python-dialect programs.
type Interpreter struct {
	console     *runtime.Console
	filename    string
	marker      *shared.Marker
	maxSteps    uint64
	predeclared starlark.StringDict
	fileOptions *syntax.FileOptions
}

// Load returns a runtime.LoadFunc that builds the interpreter around the
// loader's console.
func Load(opts Options) runtime.LoadFunc {
	opts.applyDefaults()
	return func(ctx context.Context, console *runtime.Console) (runtime.Interpreter, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if console == nil {
			return nil, errors.New("python: console is required")
		}

		predeclared := make(starlark.StringDict, len(opts.Predeclared))
		for name, v := range opts.Predeclared {
			v.Freeze()
			predeclared[name] = v
		}

		return &Interpreter{
			console:     console,
			filename:    opts.Filename,
			marker:      shared.NewMarker(opts.Filename),
			maxSteps:    opts.MaxSteps,
			predeclared: predeclared,
			fileOptions: &syntax.FileOptions{
				Set:             true,
				While:           true,
				TopLevelControl: true,
				GlobalReassign:  true,
			},
		}, nil
	}
}

// Language returns "python".
func (i *Interpreter) Language() string {
	return Language
}

// Run executes source as a module with fresh globals.
func (i *Interpreter) Run(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return shared.InterruptCause(ctx)
	}

	thread := &starlark.Thread{
		Name: "main",
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(i.console.Stdout(), msg)
		},
	}
	if i.maxSteps > 0 {
		thread.SetMaxExecutionSteps(i.maxSteps)
	}

	stop := shared.InterruptOnDone(ctx, thread.Cancel)
	defer stop()

	_, err := starlark.ExecFileOptions(i.fileOptions, thread, i.filename, source, i.predeclared)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return shared.InterruptCause(ctx)
	}
	return i.exception(err)
}

// exception converts a Starlark error into a *runtime.Exception.
func (i *Interpreter) exception(err error) error {
	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return &runtime.Exception{
			Kind:    "SyntaxError",
			Message: syntaxErr.Msg,
			Line:    int(syntaxErr.Pos.Line),
			Column:  int(syntaxErr.Pos.Col),
			Err:     err,
		}
	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		first := resolveErrs[0]
		return &runtime.Exception{
			Kind:    "ResolveError",
			Message: first.Msg,
			Line:    int(first.Pos.Line),
			Column:  int(first.Pos.Col),
			Err:     err,
		}
	}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		ex := &runtime.Exception{
			Kind:      "EvalError",
			Message:   evalErr.Msg,
			Traceback: evalErr.Backtrace(),
			Err:       err,
		}
		// The innermost frame in the submitted file is where the program failed;
		// builtin frames carry no position.
		for j := len(evalErr.CallStack) - 1; j >= 0; j-- {
			pos := evalErr.CallStack[j].Pos
			if pos.Filename() == i.filename && pos.Line > 0 {
				ex.Line, ex.Column = int(pos.Line), int(pos.Col)
				break
			}
		}
		return ex
	}

	line, col := i.marker.LineCol(err.Error())
	return &runtime.Exception{Kind: "Error", Message: err.Error(), Line: line, Column: col, Err: err}
}

// Compile-time interface check
var _ runtime.Interpreter = (*Interpreter)(nil)
