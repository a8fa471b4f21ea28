package python

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.starlark.net/starlark"

	"github.com/jonwraymond/codeplay/runtime"
)

func newTestInterpreter(t *testing.T, opts Options) (runtime.Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	console := runtime.NewConsole(&out, &out)
	interp, err := Load(opts)(context.Background(), console)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return interp, &out
}

func asException(t *testing.T, err error) *runtime.Exception {
	t.Helper()
	var ex *runtime.Exception
	if !errors.As(err, &ex) {
		t.Fatalf("error %v (%T) is not a *runtime.Exception", err, err)
	}
	return ex
}

func TestInterpreter_Language(t *testing.T) {
	interp, _ := newTestInterpreter(t, Options{})
	if interp.Language() != "python" {
		t.Errorf("Language() = %q, want python", interp.Language())
	}
}

func TestInterpreter_Print(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"hello world", `print("Hello, World!")`, "Hello, World!\n"},
		{"multiple args", `print("a", 1, True)`, "a 1 True\n"},
		{"multiple calls", "print(1)\nprint(2)", "1\n2\n"},
		{"no output", "x = 1 + 2", ""},
		{
			name:   "top-level while with reassignment",
			source: "i = 0\nwhile i < 3:\n    i += 1\nprint(i)",
			want:   "3\n",
		},
		{
			name:   "functions and loops",
			source: "def sq(n):\n    return n * n\nfor k in range(3):\n    print(sq(k))",
			want:   "0\n1\n4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interp, out := newTestInterpreter(t, Options{})
			if err := interp.Run(context.Background(), tt.source); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestInterpreter_SyntaxError(t *testing.T) {
	interp, out := newTestInterpreter(t, Options{})
	err := interp.Run(context.Background(), `print("Hello"`)
	ex := asException(t, err)
	if ex.Kind != "SyntaxError" {
		t.Errorf("Kind = %q, want SyntaxError", ex.Kind)
	}
	if ex.Line < 1 {
		t.Errorf("Line = %d, want a position in the source", ex.Line)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestInterpreter_DivisionByZero(t *testing.T) {
	interp, out := newTestInterpreter(t, Options{})
	err := interp.Run(context.Background(), "x=1\nprint(x/0)")
	ex := asException(t, err)
	if ex.Kind != "EvalError" {
		t.Errorf("Kind = %q, want EvalError", ex.Kind)
	}
	if !strings.Contains(ex.Message, "division by zero") {
		t.Errorf("Message = %q, want division by zero", ex.Message)
	}
	if ex.Line != 2 {
		t.Errorf("Line = %d, want 2", ex.Line)
	}
	if ex.Traceback == "" {
		t.Error("expected a traceback")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestInterpreter_PartialOutputBeforeFailure(t *testing.T) {
	interp, out := newTestInterpreter(t, Options{})
	err := interp.Run(context.Background(), "print(\"before\")\n1 // 0\nprint(\"after\")")
	if err == nil {
		t.Fatal("expected an error")
	}
	if out.String() != "before\n" {
		t.Errorf("output = %q, want %q", out.String(), "before\n")
	}
}

func TestInterpreter_UndefinedName(t *testing.T) {
	interp, _ := newTestInterpreter(t, Options{})
	err := interp.Run(context.Background(), "print(y)")
	ex := asException(t, err)
	if ex.Kind != "ResolveError" {
		t.Errorf("Kind = %q, want ResolveError", ex.Kind)
	}
	if !strings.Contains(ex.Message, "undefined: y") {
		t.Errorf("Message = %q, want undefined: y", ex.Message)
	}
}

func TestInterpreter_FreshGlobalsPerRun(t *testing.T) {
	interp, _ := newTestInterpreter(t, Options{})
	if err := interp.Run(context.Background(), "a = 1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	err := interp.Run(context.Background(), "print(a)")
	ex := asException(t, err)
	if !strings.Contains(ex.Message, "undefined: a") {
		t.Errorf("Message = %q, want undefined: a", ex.Message)
	}
}

func TestInterpreter_RecursionIsAnError(t *testing.T) {
	interp, _ := newTestInterpreter(t, Options{})
	err := interp.Run(context.Background(), "def f(n):\n    return f(n)\nf(1)")
	ex := asException(t, err)
	if !strings.Contains(ex.Message, "called recursively") {
		t.Errorf("Message = %q, want called recursively", ex.Message)
	}
}

func TestInterpreter_ContextInterruptsLoop(t *testing.T) {
	interp, _ := newTestInterpreter(t, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := interp.Run(ctx, "while True:\n    pass")
	if !errors.Is(err, runtime.ErrInterrupted) {
		t.Fatalf("Run() error = %v, want ErrInterrupted", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want DeadlineExceeded", err)
	}
}

func TestInterpreter_MaxSteps(t *testing.T) {
	interp, _ := newTestInterpreter(t, Options{MaxSteps: 1000})
	err := interp.Run(context.Background(), "while True:\n    pass")
	ex := asException(t, err)
	if !strings.Contains(ex.Message, "too many steps") {
		t.Errorf("Message = %q, want too many steps", ex.Message)
	}
}

func TestInterpreter_Predeclared(t *testing.T) {
	interp, out := newTestInterpreter(t, Options{
		Predeclared: starlark.StringDict{"greeting": starlark.String("hi")},
	})
	if err := interp.Run(context.Background(), "print(greeting)"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "hi\n" {
		t.Errorf("output = %q, want %q", out.String(), "hi\n")
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(Options{})(ctx, runtime.NewConsole(nil, nil)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
}
