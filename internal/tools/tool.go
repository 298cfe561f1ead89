package tools

import (
	"context"

	"courserag/internal/domain"
)

// Tool is the interface all capabilities exposed to the model implement.
type Tool interface {
	// Definition returns the structured tool definition.
	Definition() ToolDefinition

	// Execute runs the tool with the given arguments. Sources gathered while
	// producing the result are returned alongside the text, never stored on
	// the tool itself, so concurrent runs cannot cross-talk.
	Execute(ctx context.Context, args map[string]any) (Result, error)
}

// Result is the output of one successful tool execution.
type Result struct {
	Text    string
	Sources []domain.Source
}

// stringArg extracts an optional string argument.
func stringArg(args map[string]any, key string) string {
	v, ok := args[key].(string)
	if !ok {
		return ""
	}
	return v
}

// intArg extracts an optional integer argument. JSON decoding yields float64
// for numbers, so both forms are accepted.
func intArg(args map[string]any, key string) *int {
	switch v := args[key].(type) {
	case int:
		return &v
	case float64:
		n := int(v)
		return &n
	default:
		return nil
	}
}
