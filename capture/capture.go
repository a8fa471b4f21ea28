// Package capture redirects an interpreter's output into memory for the
// duration of one execution.
//
// The only way to start a capture is Acquire, which returns a Guard. Releasing
// the guard restores the sinks that were active before and hands back what
// the program printed. Callers are expected to write
//
//	guard := interceptor.Acquire()
//	defer guard.Release()
//
// so the sinks are restored on every exit path.
package capture

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/codeplay/runtime"
)

// Interceptor drives a runtime.Console. At most one capture may be active.
//
// Contract:
// - Concurrency: safe for concurrent use, but a second Acquire before the
//   matching Release panics.
// - Ownership: the interceptor never closes the sinks it replaces.
type Interceptor struct {
	console *runtime.Console
	active  atomic.Bool
	starts  atomic.Int64
	stops   atomic.Int64
}

// New returns an interceptor for console.
func New(console *runtime.Console) *Interceptor {
	if console == nil {
		panic("capture: nil console")
	}
	return &Interceptor{console: console}
}

// Acquire swaps the console's stdout and stderr for a single in-memory buffer.
// Output from both streams is kept in emission order.
//
// Calling Acquire while a capture is active is a programming error and panics.
func (i *Interceptor) Acquire() *Guard {
	if !i.active.CompareAndSwap(false, true) {
		panic("capture: Acquire called while a capture is active")
	}
	i.starts.Add(1)

	buf := &lockedBuffer{}
	prevOut, prevErr := i.console.Redirect(buf, buf)
	return &Guard{
		interceptor: i,
		buf:         buf,
		prevOut:     prevOut,
		prevErr:     prevErr,
	}
}

// Active reports whether a capture is in progress.
func (i *Interceptor) Active() bool {
	return i.active.Load()
}

// Counts returns how many captures were started and stopped.
func (i *Interceptor) Counts() (starts, stops int64) {
	return i.starts.Load(), i.stops.Load()
}

// Guard is one active capture.
type Guard struct {
	interceptor *Interceptor
	buf         *lockedBuffer
	prevOut     io.Writer
	prevErr     io.Writer
	once        sync.Once
}

// Release restores the sinks that were active before Acquire and returns the
// captured text. Only the first call has an effect; later calls return "".
func (g *Guard) Release() string {
	var out string
	g.once.Do(func() {
		g.interceptor.console.Redirect(g.prevOut, g.prevErr)
		out = g.buf.drain()
		g.interceptor.stops.Add(1)
		g.interceptor.active.Store(false)
	})
	return out
}

// Output returns what has been captured so far without releasing.
func (g *Guard) Output() string {
	return g.buf.String()
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) drain() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.buf.String()
	b.buf.Reset()
	return s
}
