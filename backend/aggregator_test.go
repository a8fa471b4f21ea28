package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestAggregator_ListAllTools(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "local1",
		enabled: true,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "tool_a"}, Namespace: "local1"},
			{Tool: mcp.Tool{Name: "tool_b"}, Namespace: "local1"},
		},
	})

	_ = registry.Register(&mockBackend{
		kind:    "mcp",
		name:    "github",
		enabled: true,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "create_issue"}, Namespace: "github"},
		},
	})

	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "disabled",
		enabled: false,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "should_not_appear"}, Namespace: "disabled"},
		},
	})

	agg := NewAggregator(registry)

	tools, err := agg.ListAllTools(context.Background())
	if err != nil {
		t.Fatalf("ListAllTools() error = %v", err)
	}

	if len(tools) != 3 {
		t.Errorf("ListAllTools() returned %d tools, want 3", len(tools))
	}
}

func TestAggregator_Execute(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "local",
		enabled: true,
		execFn: func(_ context.Context, tool string, args map[string]any) (any, error) {
			if tool == "echo" {
				return args["msg"], nil
			}
			return nil, ErrToolNotFound
		},
	})

	agg := NewAggregator(registry)

	result, err := agg.Execute(context.Background(), "local:echo", map[string]any{
		"msg": "hello",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "hello" {
		t.Errorf("Execute() = %v, want %v", result, "hello")
	}
}

func TestAggregator_ExecuteNotFound(t *testing.T) {
	registry := NewRegistry()
	agg := NewAggregator(registry)

	_, err := agg.Execute(context.Background(), "nonexistent:tool", nil)
	if !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("Execute() error = %v, want ErrBackendNotFound", err)
	}
}

func TestAggregator_ExecuteDisabled(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(&mockBackend{kind: "local", name: "python", enabled: false})
	agg := NewAggregator(registry)

	_, err := agg.Execute(context.Background(), "python:execute", nil)
	if !errors.Is(err, ErrBackendDisabled) {
		t.Errorf("Execute() error = %v, want ErrBackendDisabled", err)
	}
}

func TestAggregator_ExecuteInvalidID(t *testing.T) {
	agg := NewAggregator(NewRegistry())

	for _, id := range []string{"", "execute", "a:b:c"} {
		if _, err := agg.Execute(context.Background(), id, nil); !errors.Is(err, ErrInvalidToolID) {
			t.Errorf("Execute(%q) error = %v, want ErrInvalidToolID", id, err)
		}
	}
}

func TestAggregator_ListAllToolsFillsNamespace(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "python",
		enabled: true,
		tools:   []model.Tool{{Tool: mcp.Tool{Name: "execute"}}},
	})

	tools, err := NewAggregator(registry).ListAllTools(context.Background())
	if err != nil {
		t.Fatalf("ListAllTools() error = %v", err)
	}
	if tools[0].Namespace != "python" {
		t.Errorf("Namespace = %q, want python", tools[0].Namespace)
	}
}

func TestAggregator_Describe(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(&describedBackend{
		mockBackend: mockBackend{kind: "local", name: "python", enabled: true},
		state:       "ready",
	})
	_ = registry.Register(&mockBackend{kind: "local", name: "javascript", enabled: false})

	infos := NewAggregator(registry).Describe()
	if len(infos) != 2 {
		t.Fatalf("Describe() returned %d entries, want 2", len(infos))
	}
	if infos[0].Name != "javascript" || infos[0].Enabled {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[1].Name != "python" || infos[1].State != "ready" {
		t.Errorf("infos[1] = %+v", infos[1])
	}
}

func TestAggregator_BuildIndex(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "python",
		enabled: true,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "execute", Description: "Runs a python program", InputSchema: map[string]any{"type": "object"}}},
			{Tool: mcp.Tool{Name: "status", Description: "Reports the python runtime state", InputSchema: map[string]any{"type": "object"}}},
		},
	})
	_ = registry.Register(&mockBackend{
		kind:    "local",
		name:    "javascript",
		enabled: true,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "execute", Description: "Runs a javascript program", InputSchema: map[string]any{"type": "object"}}},
		},
	})

	idx, err := NewAggregator(registry).BuildIndex(context.Background())
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	namespaces, err := idx.ListNamespaces()
	if err != nil {
		t.Fatalf("ListNamespaces() error = %v", err)
	}
	seen := map[string]bool{}
	for _, ns := range namespaces {
		seen[ns] = true
	}
	if !seen["python"] || !seen["javascript"] {
		t.Errorf("ListNamespaces() = %v, want python and javascript", namespaces)
	}
}

func TestAggregator_ParseToolID(t *testing.T) {
	tests := []struct {
		id          string
		wantBackend string
		wantTool    string
		wantErr     bool
	}{
		{"local:echo", "local", "echo", false},
		{"github:create_issue", "github", "create_issue", false},
		{"my-backend:my_tool", "my-backend", "my_tool", false},
		{"no_namespace", "", "no_namespace", false},
		{"", "", "", true},
		{"bad:format:tool", "", "", true},
	}

	for _, tt := range tests {
		backend, tool, err := ParseToolID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseToolID(%q) error = %v, wantErr = %v", tt.id, err, tt.wantErr)
			continue
		}
		if backend != tt.wantBackend {
			t.Errorf("ParseToolID(%q) backend = %q, want %q", tt.id, backend, tt.wantBackend)
		}
		if tool != tt.wantTool {
			t.Errorf("ParseToolID(%q) tool = %q, want %q", tt.id, tool, tt.wantTool)
		}
	}
}
