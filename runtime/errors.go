package runtime

import (
	"errors"
	"fmt"
)

// Sentinel errors for runtime conditions.
var (
	// ErrRuntimeUnavailable indicates that the one-time interpreter load
	// failed. It is terminal until Loader.Retry is called.
	ErrRuntimeUnavailable = errors.New("runtime unavailable")

	// ErrInterrupted indicates that a running program was stopped because
	// its context ended. Errors carrying it also wrap the context error.
	ErrInterrupted = errors.New("execution interrupted")
)

// Exception is a failure raised by the interpreter while compiling or running
// a program. Kind is the interpreter's own name for the failure
// (SyntaxError, EvalError, TypeError, ...) as text.
type Exception struct {
	// Kind is the runtime's exception type name.
	Kind string

	// Message is the raw message reported by the runtime. It may still
	// contain the runtime's own location markers.
	Message string

	// Line is the 1-based line in the submitted source, or zero if unknown.
	Line int

	// Column is the 1-based column in the submitted source, or zero if unknown.
	Column int

	// Traceback is the runtime's rendering of the call stack, if any.
	Traceback string

	// Err is the underlying interpreter error.
	Err error
}

// Error returns "Kind: Message".
func (e *Exception) Error() string {
	if e.Kind == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying interpreter error.
func (e *Exception) Unwrap() error {
	return e.Err
}

// interrupted wraps cause so that it matches both ErrInterrupted and cause.
type interrupted struct {
	cause error
}

func (e *interrupted) Error() string {
	return fmt.Sprintf("%s: %v", ErrInterrupted, e.cause)
}

func (e *interrupted) Is(target error) bool {
	return target == ErrInterrupted
}

func (e *interrupted) Unwrap() error {
	return e.cause
}

// Interrupted returns an error that matches ErrInterrupted and wraps cause,
// typically context.Canceled or context.DeadlineExceeded.
func Interrupted(cause error) error {
	return &interrupted{cause: cause}
}
