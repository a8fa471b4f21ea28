package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/toolfoundation/model"
)

// ErrInvalidToolID is returned for malformed tool IDs.
var ErrInvalidToolID = errors.New("invalid tool ID format")

// Aggregator combines tools from multiple backends.
type Aggregator struct {
	registry *Registry
}

// NewAggregator creates a new tool aggregator.
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// Registry returns the underlying registry.
func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// ListAllTools returns tools from all enabled backends.
func (a *Aggregator) ListAllTools(ctx context.Context) ([]model.Tool, error) {
	backends := a.registry.ListEnabled()
	all := make([]model.Tool, 0)

	for _, b := range backends {
		tools, err := b.ListTools(ctx)
		if err != nil {
			return nil, err
		}
		for i := range tools {
			if tools[i].Namespace == "" {
				tools[i].Namespace = b.Name()
			}
			all = append(all, tools[i])
		}
	}

	return all, nil
}

// Execute invokes a tool through the backend registry. toolID has the form
// "backend:tool", e.g. "python:execute".
func (a *Aggregator) Execute(ctx context.Context, toolID string, args map[string]any) (any, error) {
	backendName, tool, err := ParseToolID(toolID)
	if err != nil {
		return nil, err
	}
	if backendName == "" {
		return nil, ErrInvalidToolID
	}

	b, ok := a.registry.Get(backendName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotFound, backendName)
	}
	if !b.Enabled() {
		return nil, fmt.Errorf("%w: %s", ErrBackendDisabled, backendName)
	}
	return b.Execute(ctx, tool, args)
}

// Describe returns the Info of every registered backend, sorted by name.
func (a *Aggregator) Describe() []Info {
	all := a.registry.List()
	out := make([]Info, 0, len(all))
	for _, b := range all {
		out = append(out, Describe(b))
	}
	return out
}

// BuildIndex registers every tool of every enabled backend into a fresh
// in-memory tool index, keyed by tool ID.
func (a *Aggregator) BuildIndex(ctx context.Context) (index.Index, error) {
	tools, err := a.ListAllTools(ctx)
	if err != nil {
		return nil, err
	}

	idx := index.NewInMemoryIndex()
	for _, tool := range tools {
		if err := idx.RegisterTool(tool, model.NewLocalBackend(tool.Namespace)); err != nil {
			return nil, fmt.Errorf("index %s: %w", FormatToolID(tool.Namespace, tool.Name), err)
		}
	}
	return idx, nil
}

// ParseToolID splits a tool ID into backend and tool name.
func ParseToolID(id string) (backendName, tool string, err error) {
	backendName, tool, err = model.ParseToolID(id)
	if err != nil {
		return "", "", ErrInvalidToolID
	}
	return backendName, tool, nil
}

// FormatToolID builds a tool ID from backend and tool name.
func FormatToolID(backendName, tool string) string {
	if backendName == "" {
		return tool
	}
	return fmt.Sprintf("%s:%s", backendName, tool)
}
