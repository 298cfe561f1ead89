package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"courserag/internal/domain"
)

type stubTool struct {
	name   string
	result Result
	err    error
	calls  int
}

func (t *stubTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        t.name,
		Description: "stub",
		Parameters: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"query": {Type: "string"},
			},
			Required: []string{"query"},
		},
	}
}

func (t *stubTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	t.calls++
	return t.result, t.err
}

func TestRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "beta"})
	reg.Register(&stubTool{name: "alpha"})
	reg.Register(&stubTool{name: "gamma"})

	schemas := reg.Schemas()
	if len(schemas) != 3 {
		t.Fatalf("schemas = %d", len(schemas))
	}
	want := []string{"beta", "alpha", "gamma"}
	for i, schema := range schemas {
		if schema.Name != want[i] {
			t.Errorf("schema %d = %q, want %q", i, schema.Name, want[i])
		}
	}
}

func TestReRegisterOverwritesInPlace(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "alpha"})
	reg.Register(&stubTool{name: "beta"})
	replacement := &stubTool{name: "alpha", result: Result{Text: "v2"}}
	reg.Register(replacement)

	if reg.Len() != 2 {
		t.Fatalf("len = %d", reg.Len())
	}
	if reg.Schemas()[0].Name != "alpha" {
		t.Errorf("order disturbed: %v", reg.Schemas())
	}
	outcome := reg.Execute(context.Background(), "alpha", map[string]any{"query": "x"})
	if outcome.Text != "v2" {
		t.Errorf("text = %q", outcome.Text)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()
	outcome := reg.Execute(context.Background(), "missing", nil)
	if outcome.Text != "Tool 'missing' not found" {
		t.Errorf("text = %q", outcome.Text)
	}
	if outcome.Faulted {
		t.Error("unknown tool must not fault")
	}
}

func TestExecuteToolError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "alpha", err: errors.New("backend down")})
	outcome := reg.Execute(context.Background(), "alpha", map[string]any{"query": "x"})
	if outcome.Text != "Tool execution error: backend down" {
		t.Errorf("text = %q", outcome.Text)
	}
	if !outcome.Faulted {
		t.Error("tool error must fault")
	}
}

func TestExecuteMissingRequiredArg(t *testing.T) {
	reg := NewRegistry()
	tool := &stubTool{name: "alpha"}
	reg.Register(tool)
	outcome := reg.Execute(context.Background(), "alpha", map[string]any{})
	if !outcome.Faulted {
		t.Error("missing required arg must fault")
	}
	if !strings.Contains(outcome.Text, "missing required argument: query") {
		t.Errorf("text = %q", outcome.Text)
	}
	if tool.calls != 0 {
		t.Error("tool must not run with invalid args")
	}
}

func TestExecutePassesSources(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "alpha", result: Result{
		Text:    "found",
		Sources: []domain.Source{{Text: "Course A - Lesson 1", Link: "https://a/1"}},
	}})
	outcome := reg.Execute(context.Background(), "alpha", map[string]any{"query": "x"})
	if len(outcome.Sources) != 1 || outcome.Sources[0].Link != "https://a/1" {
		t.Errorf("sources = %+v", outcome.Sources)
	}
}
