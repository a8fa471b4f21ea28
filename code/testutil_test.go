package code

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/codeplay/runtime"
)

// fakeInterpreter runs a configurable function against the console it was
// loaded with.
type fakeInterpreter struct {
	console *runtime.Console
	run     func(ctx context.Context, console *runtime.Console, source string) error
	calls   atomic.Int64
}

func (f *fakeInterpreter) Language() string { return "fake" }

func (f *fakeInterpreter) Run(ctx context.Context, source string) error {
	f.calls.Add(1)
	if f.run == nil {
		return nil
	}
	return f.run(ctx, f.console, source)
}

// echoRun prints the source as the program's output.
func echoRun(_ context.Context, console *runtime.Console, source string) error {
	fmt.Fprintln(console.Stdout(), source)
	return nil
}

func newFakeLoader(interp *fakeInterpreter) *runtime.Loader {
	return runtime.NewLoader("fake", func(_ context.Context, console *runtime.Console) (runtime.Interpreter, error) {
		interp.console = console
		return interp, nil
	})
}

// newReadyLoader returns a loader that has already loaded interp.
func newReadyLoader(t *testing.T, interp *fakeInterpreter) *runtime.Loader {
	t.Helper()
	loader := newFakeLoader(interp)
	if _, err := loader.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady() error = %v", err)
	}
	return loader
}

// stubClassifier maps runtime exception kinds directly onto categories.
type stubClassifier struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubClassifier) Classify(err error, output string) ExecuteResult {
	s.mu.Lock()
	s.calls = append(s.calls, output)
	s.mu.Unlock()

	category := CategoryUnknown
	var ex *runtime.Exception
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		category = CategoryTimeout
	case errors.Is(err, context.Canceled):
		category = CategoryCancelled
	case errors.As(err, &ex) && Category(ex.Kind).Valid():
		category = Category(ex.Kind)
	}
	return ExecuteResult{
		Output: output,
		Error:  &ErrorInfo{Category: category, Message: err.Error()},
	}
}

func newTestCoordinator(t *testing.T, loader *runtime.Loader, mutate ...func(*Config)) *Coordinator {
	t.Helper()
	cfg := Config{Loader: loader, Classifier: &stubClassifier{}}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewCoordinator(cfg)
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}
	return c
}

// stepClock returns successive times, advancing by the given steps.
func stepClock(steps ...time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current := now
		if i < len(steps) {
			now = now.Add(steps[i])
			i++
		}
		return current
	}
}

// recordingLogger records messages for assertions.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, level+": "+msg)
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record("error", msg) }

func (l *recordingLogger) has(entry string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.msgs {
		if m == entry {
			return true
		}
	}
	return false
}
