package backend

import (
	"context"
	"errors"

	"github.com/jonwraymond/toolfoundation/model"
)

// Common errors for backend operations.
var (
	ErrBackendNotFound    = errors.New("backend not found")
	ErrBackendDisabled    = errors.New("backend disabled")
	ErrToolNotFound       = errors.New("tool not found in backend")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidArguments   = errors.New("invalid tool arguments")
)

// Backend defines a source of playground tools. The playground registers one
// backend per language; each exposes the tools that run programs in it.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines.
// - Errors: use ErrBackendNotFound/ErrBackendDisabled/ErrToolNotFound/ErrInvalidArguments where applicable.
//   Program failures are results, not errors.
type Backend interface {
	// Kind returns the backend type (e.g., "local").
	Kind() string

	// Name returns the unique instance name for this backend.
	// For language backends this is the language name.
	Name() string

	// Enabled returns whether this backend is currently enabled.
	Enabled() bool

	// ListTools returns all tools available from this backend.
	ListTools(ctx context.Context) ([]model.Tool, error)

	// Execute invokes a tool on this backend.
	Execute(ctx context.Context, tool string, args map[string]any) (any, error)

	// Start prepares the backend (for language backends, loads the runtime).
	Start(ctx context.Context) error

	// Stop shuts the backend down.
	Stop() error
}

// Describer is implemented by backends that can report their status.
type Describer interface {
	Backend

	Info() Info
}

// Info contains metadata about a backend.
type Info struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	State   string `json:"state,omitempty"`
	Busy    bool   `json:"busy"`
	Error   string `json:"error,omitempty"`
}

// Describe returns b's Info, falling back to the Backend methods when b does
// not implement Describer.
func Describe(b Backend) Info {
	if d, ok := b.(Describer); ok {
		return d.Info()
	}
	return Info{Kind: b.Kind(), Name: b.Name(), Enabled: b.Enabled()}
}
