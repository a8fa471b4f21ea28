package local

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonwraymond/codeplay/backend"
	"github.com/jonwraymond/codeplay/code"
	"github.com/jonwraymond/codeplay/runtime"
)

// fakeRunner implements Runner for testing.
type fakeRunner struct {
	mu       sync.Mutex
	lang     string
	state    runtime.State
	loadErr  error
	busy     bool
	sources  []string
	warmups  int
	warmErr  error
	result   code.ExecuteResult
	executed int64
}

func (f *fakeRunner) Language() string { return f.lang }

func (f *fakeRunner) Execute(_ context.Context, source string) code.ExecuteResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	f.executed++
	r := f.result
	if r.Output == "" && r.Error == nil {
		r.Output = source
	}
	return r
}

func (f *fakeRunner) Warmup(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warmups++
	if f.warmErr != nil {
		f.state = runtime.StateLoadFailed
		f.loadErr = f.warmErr
		return f.warmErr
	}
	f.state = runtime.StateReady
	return nil
}

func (f *fakeRunner) State() runtime.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeRunner) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadErr
}

func (f *fakeRunner) Busy() bool { return f.busy }

func (f *fakeRunner) Stats() code.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return code.Stats{Executions: f.executed}
}

func TestLocalBackend_Interface(t *testing.T) {
	t.Helper()
	var _ backend.Backend = (*Backend)(nil)
	var _ backend.Describer = (*Backend)(nil)
}

func TestLocalBackend_Kind(t *testing.T) {
	b := New("test")
	if b.Kind() != "local" {
		t.Errorf("Kind() = %q, want %q", b.Kind(), "local")
	}
}

func TestLocalBackend_Name(t *testing.T) {
	b := New("my-local")
	if b.Name() != "my-local" {
		t.Errorf("Name() = %q, want %q", b.Name(), "my-local")
	}
}

func TestLocalBackend_RegisterHandler(t *testing.T) {
	b := New("test")

	handler := func(_ context.Context, _ map[string]any) (any, error) {
		return "handled", nil
	}

	b.RegisterHandler("my_tool", ToolDef{
		Description: "A test tool",
		Handler:     handler,
	})

	tools, err := b.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("ListTools() returned %d tools, want 1", len(tools))
	}
	if tools[0].Name != "my_tool" {
		t.Errorf("Tool.Name = %q, want %q", tools[0].Name, "my_tool")
	}
	if tools[0].Namespace != "test" {
		t.Errorf("Tool.Namespace = %q, want %q", tools[0].Namespace, "test")
	}

	b.UnregisterHandler("my_tool")
	tools, _ = b.ListTools(context.Background())
	if len(tools) != 0 {
		t.Errorf("ListTools() after Unregister returned %d tools, want 0", len(tools))
	}
}

func TestLocalBackend_ExecuteNotFound(t *testing.T) {
	b := New("test")

	_, err := b.Execute(context.Background(), "nonexistent", nil)
	if !errors.Is(err, backend.ErrToolNotFound) {
		t.Errorf("Execute() error = %v, want ErrToolNotFound", err)
	}
}

func TestLocalBackend_Disabled(t *testing.T) {
	b := NewLanguage(&fakeRunner{lang: "python"})
	b.SetEnabled(false)

	if b.Enabled() {
		t.Fatal("Enabled() = true after SetEnabled(false)")
	}
	_, err := b.Execute(context.Background(), ToolExecute, map[string]any{"code": "x"})
	if !errors.Is(err, backend.ErrBackendDisabled) {
		t.Errorf("Execute() error = %v, want ErrBackendDisabled", err)
	}
}

func TestNewLanguage_Tools(t *testing.T) {
	b := NewLanguage(&fakeRunner{lang: "python"})

	if b.Name() != "python" {
		t.Errorf("Name() = %q, want python", b.Name())
	}

	tools, err := b.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("ListTools() returned %d tools, want 2", len(tools))
	}
	if tools[0].Name != ToolExecute || tools[1].Name != ToolStatus {
		t.Errorf("tools = [%s %s], want [execute status]", tools[0].Name, tools[1].Name)
	}
	if tools[0].InputSchema == nil {
		t.Error("execute tool has no input schema")
	}
	for _, tool := range tools {
		if tool.Namespace != "python" {
			t.Errorf("%s namespace = %q, want python", tool.Name, tool.Namespace)
		}
	}
}

func TestNewLanguage_Execute(t *testing.T) {
	r := &fakeRunner{lang: "python"}
	b := NewLanguage(r)

	got, err := b.Execute(context.Background(), ToolExecute, map[string]any{"code": "print(1)"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	result, ok := got.(code.ExecuteResult)
	if !ok {
		t.Fatalf("Execute() returned %T, want code.ExecuteResult", got)
	}
	if result.Output != "print(1)" {
		t.Errorf("Output = %q, want %q", result.Output, "print(1)")
	}
	if len(r.sources) != 1 {
		t.Errorf("runner saw %d executions, want 1", len(r.sources))
	}
}

func TestNewLanguage_ExecuteProgramError(t *testing.T) {
	r := &fakeRunner{
		lang: "python",
		result: code.ExecuteResult{
			Error: &code.ErrorInfo{Category: code.CategoryNameError, Message: "Name error: x"},
		},
	}
	b := NewLanguage(r)

	got, err := b.Execute(context.Background(), ToolExecute, map[string]any{"code": "x"})
	if err != nil {
		t.Fatalf("program failures must be results, got error %v", err)
	}
	result := got.(code.ExecuteResult)
	if result.Error == nil || result.Error.Category != code.CategoryNameError {
		t.Errorf("Error = %+v, want NameError", result.Error)
	}
}

func TestNewLanguage_ExecuteInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"nil", nil},
		{"missing", map[string]any{"source": "x"}},
		{"wrong type", map[string]any{"code": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{lang: "python"}
			b := NewLanguage(r)

			_, err := b.Execute(context.Background(), ToolExecute, tt.args)
			if !errors.Is(err, backend.ErrInvalidArguments) {
				t.Errorf("Execute() error = %v, want ErrInvalidArguments", err)
			}
			if len(r.sources) != 0 {
				t.Error("runner should not be called with invalid arguments")
			}
		})
	}
}

func TestNewLanguage_Status(t *testing.T) {
	r := &fakeRunner{lang: "javascript"}
	b := NewLanguage(r)
	ctx := context.Background()

	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	_, _ = b.Execute(ctx, ToolExecute, map[string]any{"code": "1"})

	got, err := b.Execute(ctx, ToolStatus, nil)
	if err != nil {
		t.Fatalf("Execute(status) error = %v", err)
	}
	status, ok := got.(Status)
	if !ok {
		t.Fatalf("status returned %T, want Status", got)
	}
	if status.State != "ready" {
		t.Errorf("State = %q, want ready", status.State)
	}
	if status.Stats.Executions != 1 {
		t.Errorf("Stats.Executions = %d, want 1", status.Stats.Executions)
	}
	if status.Name != "javascript" || status.Kind != "local" {
		t.Errorf("Info = %+v", status.Info)
	}
}

func TestLocalBackend_Start(t *testing.T) {
	t.Run("handler backend", func(t *testing.T) {
		if err := New("plain").Start(context.Background()); err != nil {
			t.Errorf("Start() error = %v", err)
		}
	})

	t.Run("load failure", func(t *testing.T) {
		loadErr := errors.New("boom")
		r := &fakeRunner{lang: "python", warmErr: loadErr}
		b := NewLanguage(r)

		if err := b.Start(context.Background()); !errors.Is(err, loadErr) {
			t.Fatalf("Start() error = %v, want %v", err, loadErr)
		}
		info := b.Info()
		if info.State != "load_failed" {
			t.Errorf("Info().State = %q, want load_failed", info.State)
		}
		if info.Error != "boom" {
			t.Errorf("Info().Error = %q, want boom", info.Error)
		}
	})
}

func TestLocalBackend_InfoWithoutRunner(t *testing.T) {
	info := New("plain").Info()
	if info.State != "" || info.Error != "" || info.Busy {
		t.Errorf("Info() = %+v, want no runtime fields", info)
	}
	if !info.Enabled {
		t.Error("Info().Enabled = false, want true")
	}
}
