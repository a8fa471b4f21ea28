package exec

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonwraymond/codeplay/history"
	"github.com/jonwraymond/codeplay/runtime"
)

// echoInterpreter prints its source; "fail" raises a NameError-like exception.
type echoInterpreter struct {
	console *runtime.Console
}

func (e *echoInterpreter) Language() string { return "echo" }

func (e *echoInterpreter) Run(_ context.Context, source string) error {
	if source == "fail" {
		return &runtime.Exception{Kind: "ReferenceError", Message: "fail is not defined", Line: 1}
	}
	fmt.Fprintln(e.console.Stdout(), source)
	return nil
}

// countingLoad loads an echoInterpreter and counts invocations.
type countingLoad struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingLoad) load(_ context.Context, console *runtime.Console) (runtime.Interpreter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &echoInterpreter{console: console}, nil
}

func (c *countingLoad) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *countingLoad) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// memoryRecorder collects records in memory.
type memoryRecorder struct {
	mu      sync.Mutex
	records []history.Record
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, rec history.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.records = append(m.records, rec)
	return fmt.Sprintf("rec-%d", len(m.records)), nil
}

// warnLogger records Warn calls.
type warnLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *warnLogger) Debug(string, ...any) {}
func (l *warnLogger) Info(string, ...any)  {}
func (l *warnLogger) Error(string, ...any) {}
func (l *warnLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

var errDownload = errors.New("download failed")
