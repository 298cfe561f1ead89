package tools

import (
	"context"
	"fmt"

	"courserag/internal/domain"
	"courserag/internal/llm"
)

// Outcome is what tool execution hands back to the orchestration loop.
// Failures are carried as text the model can read; Faulted marks outcomes
// that should stop the round loop.
type Outcome struct {
	Text    string
	Sources []domain.Source
	Faulted bool
}

// Registry maintains the mapping from tool name to executable capability.
// Registration happens once at startup; re-registering a name overwrites it
// in place without disturbing the original registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its declared name.
func (r *Registry) Register(tool Tool) {
	name := tool.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// Schemas returns all registered tools' schemas in registration order.
func (r *Registry) Schemas() []llm.ToolSchema {
	schemas := make([]llm.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].Definition().Schema())
	}
	return schemas
}

// Len reports the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Execute looks up name and runs the tool. A missing tool or a failing tool
// never propagates an error: both are converted to descriptive text so one
// bad call cannot abort the whole orchestration at this layer.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) Outcome {
	tool, ok := r.tools[name]
	if !ok {
		return Outcome{Text: fmt.Sprintf("Tool '%s' not found", name)}
	}
	if err := validateArgs(tool.Definition(), args); err != nil {
		return Outcome{Text: fmt.Sprintf("Tool execution error: %v", err), Faulted: true}
	}
	result, err := tool.Execute(ctx, args)
	if err != nil {
		return Outcome{Text: fmt.Sprintf("Tool execution error: %v", err), Faulted: true}
	}
	return Outcome{Text: result.Text, Sources: result.Sources}
}

func validateArgs(def ToolDefinition, args map[string]any) error {
	if def.Parameters == nil {
		return nil
	}
	for _, required := range def.Parameters.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("missing required argument: %s", required)
		}
	}
	return nil
}
