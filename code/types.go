package code

import (
	"strings"
	"time"
)

// Category is the closed set of outcomes a failed execution is reported as.
type Category string

// User-code categories.
const (
	CategorySyntaxError       Category = "SyntaxError"
	CategoryIndentationError  Category = "IndentationError"
	CategoryNameError         Category = "NameError"
	CategoryTypeError         Category = "TypeError"
	CategoryValueError        Category = "ValueError"
	CategoryZeroDivisionError Category = "ZeroDivisionError"
	CategoryAttributeError    Category = "AttributeError"
	CategoryIndexError        Category = "IndexError"
	CategoryKeyError          Category = "KeyError"
	CategoryRecursionError    Category = "RecursionError"
	CategoryTimeout           Category = "Timeout"
	CategoryCancelled         Category = "Cancelled"
	CategoryUnknown           Category = "Unknown"
)

// Engine categories. These describe the engine, not the submitted program.
const (
	CategoryEngineNotReady     Category = "EngineNotReady"
	CategoryEngineBusy         Category = "EngineBusy"
	CategoryRuntimeUnavailable Category = "RuntimeUnavailable"
)

var allCategories = []Category{
	CategorySyntaxError,
	CategoryIndentationError,
	CategoryNameError,
	CategoryTypeError,
	CategoryValueError,
	CategoryZeroDivisionError,
	CategoryAttributeError,
	CategoryIndexError,
	CategoryKeyError,
	CategoryRecursionError,
	CategoryTimeout,
	CategoryCancelled,
	CategoryUnknown,
	CategoryEngineNotReady,
	CategoryEngineBusy,
	CategoryRuntimeUnavailable,
}

// Categories returns every category, user-code categories first.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// IsEngine reports whether c describes an engine condition rather than a
// failure of the submitted program.
func (c Category) IsEngine() bool {
	switch c {
	case CategoryEngineNotReady, CategoryEngineBusy, CategoryRuntimeUnavailable:
		return true
	default:
		return false
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ExecuteRequest is one submitted program. It is immutable once created.
type ExecuteRequest struct {
	// Source is the program text.
	Source string `json:"source"`

	// CreatedAt is when the request was created.
	CreatedAt time.Time `json:"createdAt"`
}

// NewRequest creates a request stamped with now.
func NewRequest(source string, now time.Time) ExecuteRequest {
	return ExecuteRequest{Source: source, CreatedAt: now}
}

// Blank reports whether the source is empty or whitespace only.
func (r ExecuteRequest) Blank() bool {
	return IsBlank(r.Source)
}

// IsBlank reports whether source is empty or whitespace only.
func IsBlank(source string) bool {
	return strings.TrimSpace(source) == ""
}

// ExecuteResult is the outcome of one request.
//
// Output and Error are not mutually exclusive: a program that prints and
// then fails keeps what it printed.
type ExecuteResult struct {
	// Output is everything the program printed, in emission order.
	Output string `json:"output"`

	// Error is nil on success.
	Error *ErrorInfo `json:"error"`

	// ExecutionTimeMillis is the elapsed run time, rounded to the nearest
	// millisecond. It is never negative.
	ExecutionTimeMillis int64 `json:"executionTimeMillis"`
}

// OK reports whether the execution succeeded.
func (r ExecuteResult) OK() bool {
	return r.Error == nil
}

// Err returns the result's error, or nil on success.
func (r ExecuteResult) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// NewEngineResult returns the result variant for an engine condition.
func NewEngineResult(category Category, message string) ExecuteResult {
	return ExecuteResult{
		Error: &ErrorInfo{Category: category, Message: message},
	}
}

// EngineResult renders an engine condition through c so the message is
// localized, pinning the category whatever c decides.
func EngineResult(c Classifier, category Category, err error) ExecuteResult {
	result := c.Classify(err, "")
	if result.Error == nil {
		result.Error = &ErrorInfo{}
	}
	result.Error.Category = category
	result.Error.Line = 0
	if result.Error.Message == "" {
		result.Error.Message = err.Error()
	}
	result.Output = ""
	result.ExecutionTimeMillis = 0
	return result
}

// Stats are cumulative coordinator counters.
type Stats struct {
	// Executions counts programs that reached the runtime.
	Executions int64 `json:"executions"`

	// Failures counts executions that ended with an error.
	Failures int64 `json:"failures"`

	// RejectedBusy counts requests refused with EngineBusy.
	RejectedBusy int64 `json:"rejectedBusy"`

	// RejectedNotReady counts requests refused with EngineNotReady.
	RejectedNotReady int64 `json:"rejectedNotReady"`
}
