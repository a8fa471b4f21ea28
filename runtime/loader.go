package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger is the logging interface used by the runtime.
// *slog.Logger satisfies it.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithConsoleSinks sets where program output goes when nothing is capturing it.
// The default is to discard it.
func WithConsoleSinks(stdout, stderr io.Writer) LoaderOption {
	return func(l *Loader) {
		l.console = NewConsole(stdout, stderr)
	}
}

// WithLoadTimeout bounds a single load attempt. Zero means no bound.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.loadTimeout = d
	}
}

// WithClock overrides the time source used to stamp handles.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// attempt is one in-flight load shared by all of its waiters.
type attempt struct {
	done   chan struct{}
	handle *Handle
	err    error
}

// Loader acquires and initializes one interpreter, exactly once.
//
// Contract:
// - Concurrency: safe for concurrent use; the load runs at most once per attempt.
// - Context: EnsureReady honors ctx while waiting; a waiter giving up does not
//   cancel the shared load.
// - Errors: load failures wrap ErrRuntimeUnavailable and the cause.
type Loader struct {
	language    string
	load        LoadFunc
	console     *Console
	logger      Logger
	now         func() time.Time
	loadTimeout time.Duration

	mu      sync.Mutex
	state   State
	current *attempt
	loads   int
}

// NewLoader creates a Loader for language that uses load to initialize the
// interpreter. Nothing is loaded until EnsureReady is called.
func NewLoader(language string, load LoadFunc, opts ...LoaderOption) *Loader {
	l := &Loader{
		language: language,
		load:     load,
		console:  NewConsole(nil, nil),
		logger:   nopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Language returns the language this loader serves.
func (l *Loader) Language() string {
	return l.language
}

// Console returns the console that is installed into the interpreter.
func (l *Loader) Console() *Console {
	return l.console
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Handle returns the interpreter handle if the loader is ready.
func (l *Loader) Handle() (*Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateReady {
		return nil, false
	}
	return l.current.handle, true
}

// Err returns the load error when the loader is in StateLoadFailed.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateLoadFailed {
		return nil
	}
	return l.current.err
}

// Loads reports how many times the underlying LoadFunc has been invoked.
func (l *Loader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// EnsureReady returns the interpreter handle, loading the interpreter on
// first use. Concurrent callers share one load and receive the same handle.
func (l *Loader) EnsureReady(ctx context.Context) (*Handle, error) {
	l.mu.Lock()
	switch l.state {
	case StateReady:
		h := l.current.handle
		l.mu.Unlock()
		return h, nil
	case StateLoadFailed:
		err := l.current.err
		l.mu.Unlock()
		return nil, err
	case StateUninitialized:
		l.startLocked()
	}
	a := l.current
	l.mu.Unlock()

	select {
	case <-a.done:
		return a.handle, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Retry starts a new load after a failed one. In any other state it behaves
// like EnsureReady.
func (l *Loader) Retry(ctx context.Context) (*Handle, error) {
	l.mu.Lock()
	if l.state == StateLoadFailed {
		l.logger.Info("retrying runtime load", "language", l.language)
		l.state = StateUninitialized
	}
	l.mu.Unlock()
	return l.EnsureReady(ctx)
}

// startLocked begins a load attempt. l.mu must be held.
func (l *Loader) startLocked() {
	a := &attempt{done: make(chan struct{})}
	l.current = a
	l.state = StateLoading
	l.loads++
	go l.run(a)
}

func (l *Loader) run(a *attempt) {
	start := l.now()
	l.logger.Info("loading runtime", "language", l.language)

	interp, err := l.invoke()

	l.mu.Lock()
	if err != nil {
		a.err = fmt.Errorf("%w: %s: %w", ErrRuntimeUnavailable, l.language, err)
		l.state = StateLoadFailed
	} else {
		a.handle = &Handle{interp: interp, console: l.console, loadedAt: l.now()}
		l.state = StateReady
	}
	l.mu.Unlock()
	close(a.done)

	if err != nil {
		l.logger.Error("runtime load failed", "language", l.language, "error", err)
		return
	}
	l.logger.Info("runtime ready", "language", l.language, "duration", l.now().Sub(start))
}

func (l *Loader) invoke() (interp Interpreter, err error) {
	defer func() {
		if r := recover(); r != nil {
			interp, err = nil, fmt.Errorf("load panicked: %v", r)
		}
	}()

	if l.load == nil {
		return nil, errors.New("no load function configured")
	}

	ctx := context.Background()
	if l.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.loadTimeout)
		defer cancel()
	}

	interp, err = l.load(ctx, l.console)
	if err == nil && interp == nil {
		err = errors.New("load returned no interpreter")
	}
	return interp, err
}
