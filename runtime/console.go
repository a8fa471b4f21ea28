package runtime

import (
	"io"
	"sync"
)

// Console is the capture-control object installed into an interpreter when
// it loads. Interpreters write program output to Stdout and Stderr; whoever
// owns the console decides where that output currently goes.
//
// Contract:
// - Concurrency: safe for concurrent use; Redirect is atomic with respect to writes.
// - Ownership: the writers returned by Stdout/Stderr stay valid for the console's lifetime.
type Console struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

// NewConsole creates a console with the given default sinks.
// Nil sinks discard output.
func NewConsole(stdout, stderr io.Writer) *Console {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Console{stdout: stdout, stderr: stderr}
}

// Stdout returns a writer that forwards to the current stdout sink.
func (c *Console) Stdout() io.Writer {
	return consoleWriter{console: c}
}

// Stderr returns a writer that forwards to the current stderr sink.
func (c *Console) Stderr() io.Writer {
	return consoleWriter{console: c, stderr: true}
}

// Redirect swaps both sinks and returns the ones that were active before.
// Nil sinks discard output.
func (c *Console) Redirect(stdout, stderr io.Writer) (prevOut, prevErr io.Writer) {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	prevOut, prevErr = c.stdout, c.stderr
	c.stdout, c.stderr = stdout, stderr
	return prevOut, prevErr
}

// Sinks returns the currently active sinks.
func (c *Console) Sinks() (stdout, stderr io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stdout, c.stderr
}

type consoleWriter struct {
	console *Console
	stderr  bool
}

func (w consoleWriter) Write(p []byte) (int, error) {
	w.console.mu.Lock()
	dst := w.console.stdout
	if w.stderr {
		dst = w.console.stderr
	}
	w.console.mu.Unlock()
	return dst.Write(p)
}
