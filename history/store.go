// Package history keeps an audit trail of executions in SQLite.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/codeplay/code"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("history: record not found")

// Record is one stored execution.
type Record struct {
	ID                  string    `json:"id"`
	Language            string    `json:"language"`
	Source              string    `json:"source"`
	Output              string    `json:"output"`
	ErrorCategory       string    `json:"errorCategory,omitempty"`
	ErrorMessage        string    `json:"errorMessage,omitempty"`
	ExecutionTimeMillis int64     `json:"executionTimeMillis"`
	CreatedAt           time.Time `json:"createdAt"`
}

// OK reports whether the recorded execution succeeded.
func (r Record) OK() bool {
	return r.ErrorCategory == ""
}

// FromResult builds a record for one request and its result. The ID is left
// empty for the store to assign.
func FromResult(language string, req code.ExecuteRequest, result code.ExecuteResult) Record {
	rec := Record{
		Language:            language,
		Source:              req.Source,
		Output:              result.Output,
		ExecutionTimeMillis: result.ExecutionTimeMillis,
		CreatedAt:           req.CreatedAt,
	}
	if result.Error != nil {
		rec.ErrorCategory = string(result.Error.Category)
		rec.ErrorMessage = result.Error.Message
	}
	return rec
}

// ListOptions filters and pages List.
type ListOptions struct {
	// Language restricts results to one language. Empty means all.
	Language string

	// Limit caps the number of records. Zero uses DefaultListLimit.
	Limit int

	// Offset skips records, newest first.
	Offset int
}

// DefaultListLimit is the page size when ListOptions.Limit is zero.
const DefaultListLimit = 50

// Store persists execution records.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: all methods honor ctx cancellation.
// - Errors: Get returns ErrNotFound for unknown IDs.
type Store interface {
	// Record saves rec. An empty ID is replaced by a new one, which is returned.
	Record(ctx context.Context, rec Record) (string, error)

	// Get returns the record with the given ID.
	Get(ctx context.Context, id string) (Record, error)

	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]Record, error)

	// Close releases the store.
	Close() error
}
