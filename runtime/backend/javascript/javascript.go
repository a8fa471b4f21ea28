// Package javascript provides an ECMAScript interpreter backed by goja.
//
// Every run gets a fresh goja runtime, so nothing a program declares is
// visible to the next one. Options.Persistent keeps one runtime for the whole
// session instead, the way a REPL does. Output functions print(),
// console.log/info/debug (stdout) and console.warn/error (stderr) write
// through the runtime.Console installed at load time.
package javascript

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/jonwraymond/codeplay/runtime"
	"github.com/jonwraymond/codeplay/runtime/backend/shared"
)

// Language is the language name served by this backend.
const Language = "javascript"

// DefaultFilename is the synthetic script name used in positions.
const DefaultFilename = "main.js"

// DefaultMaxCallStackSize bounds call depth so runaway recursion raises a
// RangeError instead of exhausting the goroutine stack.
const DefaultMaxCallStackSize = 1024

// Options configures the interpreter.
type Options struct {
	// Filename is the synthetic script name.
	// Default: main.js
	Filename string

	// MaxCallStackSize is the maximum call depth.
	// Default: 1024
	MaxCallStackSize int

	// Persistent reuses one runtime for every run, so top-level
	// declarations survive between runs.
	Persistent bool
}

func (o *Options) applyDefaults() {
	if o.Filename == "" {
		o.Filename = DefaultFilename
	}
	if o.MaxCallStackSize <= 0 {
		o.MaxCallStackSize = DefaultMaxCallStackSize
	}
}

// Interpreter runs JavaScript programs.
type Interpreter struct {
	console    *runtime.Console
	filename   string
	marker     *shared.Marker
	stackSize  int
	persistent bool

	// vm is the session runtime when persistent, nil otherwise.
	vm *goja.Runtime
}

// Load returns a runtime.LoadFunc that binds the output functions to the
// loader's console. Loading builds one runtime to check that they install.
func Load(opts Options) runtime.LoadFunc {
	opts.applyDefaults()
	return func(ctx context.Context, console *runtime.Console) (runtime.Interpreter, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if console == nil {
			return nil, errors.New("javascript: console is required")
		}

		i := &Interpreter{
			console:    console,
			filename:   opts.Filename,
			marker:     shared.NewMarker(opts.Filename),
			stackSize:  opts.MaxCallStackSize,
			persistent: opts.Persistent,
		}
		vm, err := i.newVM()
		if err != nil {
			return nil, err
		}
		if i.persistent {
			i.vm = vm
		}
		return i, nil
	}
}

// newVM creates a runtime with the output functions installed.
func (i *Interpreter) newVM() (*goja.Runtime, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	vm.SetMaxCallStackSize(i.stackSize)
	if err := i.install(vm); err != nil {
		return nil, err
	}
	return vm, nil
}

// install registers the output functions on vm.
func (i *Interpreter) install(vm *goja.Runtime) error {
	if err := vm.Set("print", i.printer(false)); err != nil {
		return fmt.Errorf("failed to register print: %w", err)
	}

	console := vm.NewObject()
	for _, name := range []string{"log", "info", "debug"} {
		if err := console.Set(name, i.printer(false)); err != nil {
			return fmt.Errorf("failed to register console.%s: %w", name, err)
		}
	}
	for _, name := range []string{"warn", "error"} {
		if err := console.Set(name, i.printer(true)); err != nil {
			return fmt.Errorf("failed to register console.%s: %w", name, err)
		}
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("failed to register console: %w", err)
	}
	return nil
}

func (i *Interpreter) printer(stderr bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for j, arg := range call.Arguments {
			parts[j] = arg.String()
		}
		w := i.console.Stdout()
		if stderr {
			w = i.console.Stderr()
		}
		fmt.Fprintln(w, shared.FormatArgs(parts, " "))
		return goja.Undefined()
	}
}

// Language returns "javascript".
func (i *Interpreter) Language() string {
	return Language
}

// Run executes source as a script.
func (i *Interpreter) Run(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return shared.InterruptCause(ctx)
	}

	vm := i.vm
	if vm == nil {
		var err error
		if vm, err = i.newVM(); err != nil {
			return err
		}
	}

	// An interrupt that fires after the script finished must not leak into
	// the next run.
	var mu sync.Mutex
	armed := true
	stop := shared.InterruptOnDone(ctx, func(reason string) {
		mu.Lock()
		defer mu.Unlock()
		if armed {
			vm.Interrupt(reason)
		}
	})
	defer func() {
		stop()
		mu.Lock()
		armed = false
		mu.Unlock()
		vm.ClearInterrupt()
	}()

	_, err := vm.RunScript(i.filename, source)
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if ctx.Err() != nil {
			return shared.InterruptCause(ctx)
		}
		return runtime.Interrupted(context.Canceled)
	}
	return i.exception(err)
}

// exception converts a goja error into a *runtime.Exception.
func (i *Interpreter) exception(err error) error {
	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		line, col := i.marker.LineCol(err.Error())
		return &runtime.Exception{
			Kind:    "RangeError",
			Message: "Maximum call stack size exceeded",
			Line:    line,
			Column:  col,
			Err:     err,
		}
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		kind, msg := "Error", ex.Error()
		if v := ex.Value(); v != nil {
			msg = v.String()
			if obj, ok := v.(*goja.Object); ok {
				if name := obj.Get("name"); name != nil && !goja.IsUndefined(name) {
					kind = name.String()
				}
				if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) {
					msg = m.String()
				}
			}
		}
		line, col := i.marker.LineCol(msg)
		if line == 0 {
			line, col = i.marker.LineCol(ex.Error())
		}
		return &runtime.Exception{
			Kind:      kind,
			Message:   msg,
			Line:      line,
			Column:    col,
			Traceback: ex.String(),
			Err:       err,
		}
	}

	var syntaxErr *goja.CompilerSyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := i.marker.LineCol(syntaxErr.Error())
		return &runtime.Exception{Kind: "SyntaxError", Message: syntaxErr.Error(), Line: line, Column: col, Err: err}
	}

	line, col := i.marker.LineCol(err.Error())
	return &runtime.Exception{Kind: "Error", Message: err.Error(), Line: line, Column: col, Err: err}
}

// Compile-time interface check
var _ runtime.Interpreter = (*Interpreter)(nil)
