package code

import "errors"

// Sentinel errors for error classification.
var (
	// ErrCodeExecution indicates that the submitted program failed, such as
	// a syntax error or a runtime exception in the program.
	ErrCodeExecution = errors.New("code execution error")

	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrLimitExceeded indicates that the program hit the execution timeout.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrEngineBusy indicates that another execution was in flight.
	ErrEngineBusy = errors.New("engine busy")

	// ErrEngineNotReady indicates that the runtime had not finished loading.
	ErrEngineNotReady = errors.New("engine not ready")

	// ErrRuntimeUnavailable indicates that the runtime failed to load.
	ErrRuntimeUnavailable = errors.New("runtime unavailable")
)

// ErrorInfo describes why an execution did not succeed. Message is
// user-facing: internal file names and stack frames have been removed.
type ErrorInfo struct {
	// Category is the classified outcome.
	Category Category `json:"category"`

	// Message is the localized, user-facing description.
	Message string `json:"message"`

	// Line is the 1-based line in the submitted source.
	// Zero indicates the line is unknown.
	Line int `json:"line,omitempty"`
}

// Error returns the message, or the category when there is no message.
func (e *ErrorInfo) Error() string {
	if e.Message == "" {
		return string(e.Category)
	}
	return e.Message
}

// Is reports whether this error matches the target.
// Engine categories match their sentinels; program failures match
// ErrCodeExecution, and Timeout also matches ErrLimitExceeded.
func (e *ErrorInfo) Is(target error) bool {
	switch e.Category {
	case CategoryEngineBusy:
		return target == ErrEngineBusy
	case CategoryEngineNotReady:
		return target == ErrEngineNotReady
	case CategoryRuntimeUnavailable:
		return target == ErrRuntimeUnavailable
	case CategoryTimeout:
		return target == ErrLimitExceeded || target == ErrCodeExecution
	default:
		return target == ErrCodeExecution
	}
}
