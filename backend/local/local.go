package local

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/codeplay/backend"
	"github.com/jonwraymond/codeplay/code"
	"github.com/jonwraymond/codeplay/runtime"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names registered by NewLanguage.
const (
	ToolExecute = "execute"
	ToolStatus  = "status"
)

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// ToolDef defines a local tool with its handler.
type ToolDef struct {
	Name         string
	Title        string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
	Annotations  *mcp.ToolAnnotations
	Tags         []string
	Handler      HandlerFunc
}

// Runner runs programs in one language. *exec.Client implements it.
type Runner interface {
	Language() string
	Execute(ctx context.Context, source string) code.ExecuteResult
	Warmup(ctx context.Context) error
	State() runtime.State
	Err() error
	Busy() bool
	Stats() code.Stats
}

// Status is the result of the status tool.
type Status struct {
	backend.Info
	Stats code.Stats `json:"stats"`
}

// Backend implements backend.Backend for in-process tool handlers.
type Backend struct {
	name     string
	enabled  bool
	runner   Runner
	handlers map[string]ToolDef
	mu       sync.RWMutex
}

// Compile-time interface check
var _ backend.Describer = (*Backend)(nil)

// New creates an empty local backend.
func New(name string) *Backend {
	return &Backend{
		name:     name,
		enabled:  true,
		handlers: make(map[string]ToolDef),
	}
}

// NewLanguage creates a backend named after r's language that exposes the
// execute and status tools.
func NewLanguage(r Runner) *Backend {
	b := New(r.Language())
	b.runner = r
	lang := r.Language()

	b.RegisterHandler(ToolExecute, ToolDef{
		Title:       "Run " + lang,
		Description: fmt.Sprintf("Runs a %s program and returns its output, error and execution time.", lang),
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Program source.",
				},
			},
			"required": []any{"code"},
		},
		Tags:    []string{"code", "execute", lang},
		Handler: b.execute,
	})
	b.RegisterHandler(ToolStatus, ToolDef{
		Title:       lang + " runtime status",
		Description: fmt.Sprintf("Reports the %s runtime state and execution counters.", lang),
		InputSchema: map[string]any{"type": "object"},
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
		Tags:        []string{"status", lang},
		Handler:     b.status,
	})
	return b
}

func (b *Backend) execute(ctx context.Context, args map[string]any) (any, error) {
	raw, ok := args["code"]
	if !ok {
		return nil, fmt.Errorf("%w: code is required", backend.ErrInvalidArguments)
	}
	source, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: code must be a string, got %T", backend.ErrInvalidArguments, raw)
	}
	return b.runner.Execute(ctx, source), nil
}

func (b *Backend) status(_ context.Context, _ map[string]any) (any, error) {
	return Status{Info: b.Info(), Stats: b.runner.Stats()}, nil
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return "local"
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.name
}

// Enabled returns whether the backend is enabled.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the backend.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Runner returns the language runner, or nil for a plain handler backend.
func (b *Backend) Runner() Runner {
	return b.runner
}

// RegisterHandler registers a tool handler.
func (b *Backend) RegisterHandler(name string, def ToolDef) {
	if def.Name == "" {
		def.Name = name
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = def
}

// UnregisterHandler removes a tool handler.
func (b *Backend) UnregisterHandler(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, name)
}

// ListTools returns tools available from this backend, sorted by name.
func (b *Backend) ListTools(_ context.Context) ([]model.Tool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Tool, 0, len(b.handlers))
	for _, def := range b.handlers {
		tool := model.Tool{
			Tool: mcp.Tool{
				Name:         def.Name,
				Title:        def.Title,
				Description:  def.Description,
				InputSchema:  def.InputSchema,
				OutputSchema: def.OutputSchema,
				Annotations:  def.Annotations,
			},
			Namespace: b.name,
			Tags:      model.NormalizeTags(def.Tags),
		}
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Execute invokes a tool handler.
func (b *Backend) Execute(ctx context.Context, tool string, args map[string]any) (any, error) {
	b.mu.RLock()
	enabled := b.enabled
	def, ok := b.handlers[tool]
	b.mu.RUnlock()

	if !enabled {
		return nil, backend.ErrBackendDisabled
	}
	if !ok || def.Handler == nil {
		return nil, fmt.Errorf("%w: %s", backend.ErrToolNotFound, tool)
	}
	return def.Handler(ctx, args)
}

// Start loads the language runtime. It is a no-op for handler backends.
func (b *Backend) Start(ctx context.Context) error {
	if b.runner == nil {
		return nil
	}
	return b.runner.Warmup(ctx)
}

// Stop is a no-op; embedded runtimes live as long as the process.
func (b *Backend) Stop() error {
	return nil
}

// Info reports the backend and, for language backends, runtime status.
func (b *Backend) Info() backend.Info {
	info := backend.Info{
		Kind:    b.Kind(),
		Name:    b.name,
		Enabled: b.Enabled(),
	}
	if b.runner == nil {
		return info
	}
	info.State = b.runner.State().String()
	info.Busy = b.runner.Busy()
	if err := b.runner.Err(); err != nil {
		info.Error = err.Error()
	}
	return info
}
