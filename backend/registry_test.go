package backend

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	b := &mockBackend{kind: "local", name: "test", enabled: true}

	if err := registry.Register(b); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := registry.Register(b); err == nil {
		t.Error("Register() should fail on duplicate")
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()

	b := &mockBackend{kind: "local", name: "test", enabled: true}
	_ = registry.Register(b)

	got, ok := registry.Get("test")
	if !ok {
		t.Fatal("Get() returned false")
	}
	if got.Name() != "test" {
		t.Errorf("Get().Name() = %q, want %q", got.Name(), "test")
	}

	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Get() should return false for nonexistent backend")
	}
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{kind: "local", name: "a", enabled: true})
	_ = registry.Register(&mockBackend{kind: "mcp", name: "b", enabled: true})
	_ = registry.Register(&mockBackend{kind: "http", name: "c", enabled: false})

	all := registry.List()
	if len(all) != 3 {
		t.Errorf("List() returned %d backends, want 3", len(all))
	}

	enabled := registry.ListEnabled()
	if len(enabled) != 2 {
		t.Errorf("ListEnabled() returned %d backends, want 2", len(enabled))
	}
}

func TestRegistry_ListByKind(t *testing.T) {
	registry := NewRegistry()

	_ = registry.Register(&mockBackend{kind: "local", name: "local1", enabled: true})
	_ = registry.Register(&mockBackend{kind: "local", name: "local2", enabled: true})
	_ = registry.Register(&mockBackend{kind: "mcp", name: "mcp1", enabled: true})

	locals := registry.ListByKind("local")
	if len(locals) != 2 {
		t.Errorf("ListByKind(local) returned %d backends, want 2", len(locals))
	}

	mcps := registry.ListByKind("mcp")
	if len(mcps) != 1 {
		t.Errorf("ListByKind(mcp) returned %d backends, want 1", len(mcps))
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()

	b := &mockBackend{kind: "local", name: "test", enabled: true}
	_ = registry.Register(b)

	registry.Unregister("test")

	if _, ok := registry.Get("test"); ok {
		t.Error("Get() should return false after Unregister()")
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(nil); err == nil {
		t.Error("Register(nil) should fail")
	}
	if err := registry.Register(&mockBackend{kind: "local"}); err == nil {
		t.Error("Register() should fail without a name")
	}

	_ = registry.Register(&mockBackend{kind: "local", name: "python"})
	err := registry.Register(&mockBackend{kind: "local", name: "python"})
	if !errors.Is(err, ErrBackendExists) {
		t.Errorf("Register() duplicate error = %v, want ErrBackendExists", err)
	}
}

func TestRegistry_UnregisterStops(t *testing.T) {
	registry := NewRegistry()
	b := &mockBackend{kind: "local", name: "python", enabled: true}
	_ = registry.Register(b)

	registry.Unregister("python")
	registry.Unregister("python")

	if b.stopped != 1 {
		t.Errorf("Stop() called %d times, want 1", b.stopped)
	}
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"python", "javascript", "lua"} {
		_ = registry.Register(&mockBackend{kind: "local", name: name, enabled: true})
	}

	got := strings.Join(registry.Names(), ",")
	if got != "javascript,lua,python" {
		t.Errorf("Names() = %s, want javascript,lua,python", got)
	}

	list := registry.List()
	if list[0].Name() != "javascript" || list[2].Name() != "python" {
		t.Errorf("List() is not sorted by name")
	}
}

func TestRegistry_StartAll(t *testing.T) {
	registry := NewRegistry()
	loadErr := errors.New("interpreter failed to load")

	broken := &mockBackend{
		kind:    "local",
		name:    "javascript",
		enabled: true,
		startFn: func(context.Context) error { return loadErr },
	}
	healthy := &mockBackend{kind: "local", name: "python", enabled: true}
	disabled := &mockBackend{kind: "local", name: "lua", enabled: false}
	_ = registry.Register(broken)
	_ = registry.Register(healthy)
	_ = registry.Register(disabled)

	err := registry.StartAll(context.Background())
	if !errors.Is(err, loadErr) {
		t.Fatalf("StartAll() error = %v, want %v", err, loadErr)
	}
	if !strings.Contains(err.Error(), "javascript") {
		t.Errorf("StartAll() error %q should name the backend", err)
	}
	if healthy.started != 1 {
		t.Errorf("healthy backend started %d times, want 1", healthy.started)
	}
	if disabled.started != 0 {
		t.Errorf("disabled backend started %d times, want 0", disabled.started)
	}
}

func TestRegistry_StopAll(t *testing.T) {
	registry := NewRegistry()
	a := &mockBackend{kind: "local", name: "a", enabled: true}
	b := &mockBackend{kind: "local", name: "b", enabled: false}
	_ = registry.Register(a)
	_ = registry.Register(b)

	if err := registry.StopAll(); err != nil {
		t.Fatalf("StopAll() error = %v", err)
	}
	if a.stopped != 1 || b.stopped != 1 {
		t.Errorf("stopped = %d/%d, want 1/1", a.stopped, b.stopped)
	}
}
