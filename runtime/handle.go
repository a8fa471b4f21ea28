package runtime

import (
	"context"
	"time"
)

// Interpreter is an embedded language runtime able to run source text.
//
// Contract:
// - Concurrency: Run is called by one goroutine at a time; callers serialize.
// - Context: Run must interrupt the program and return an error matching
//   ErrInterrupted when ctx ends.
// - Errors: compile and runtime failures of the program are returned as *Exception.
// - Output: everything the program prints goes through the Console the
//   interpreter was loaded with.
type Interpreter interface {
	// Language returns the language name, e.g. "python".
	Language() string

	// Run executes source as a complete program.
	Run(ctx context.Context, source string) error
}

// LoadFunc acquires and initializes an interpreter. The console must be
// installed into the interpreter as part of loading.
type LoadFunc func(ctx context.Context, console *Console) (Interpreter, error)

// Handle is the reference to a loaded interpreter. A Loader creates exactly
// one and never destroys it.
type Handle struct {
	interp   Interpreter
	console  *Console
	loadedAt time.Time
}

// Language returns the interpreter's language.
func (h *Handle) Language() string {
	return h.interp.Language()
}

// Console returns the console installed into the interpreter.
func (h *Handle) Console() *Console {
	return h.console
}

// LoadedAt reports when the interpreter finished loading.
func (h *Handle) LoadedAt() time.Time {
	return h.loadedAt
}

// Run executes source on the interpreter. Callers are responsible for
// serializing calls and for capturing output.
func (h *Handle) Run(ctx context.Context, source string) error {
	return h.interp.Run(ctx, source)
}
