package tools

import "courserag/internal/llm"

// JSONSchema declares a tool's parameters in JSON Schema form.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
}

// ToolDefinition is the machine-readable description of one capability.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *JSONSchema
}

// Schema converts the definition into the wire form offered to the model.
func (d ToolDefinition) Schema() llm.ToolSchema {
	return llm.ToolSchema{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: schemaToMap(d.Parameters),
	}
}

func schemaToMap(schema *JSONSchema) map[string]any {
	if schema == nil {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}
	result := map[string]any{"type": schema.Type}
	if schema.Description != "" {
		result["description"] = schema.Description
	}
	if len(schema.Properties) > 0 {
		props := make(map[string]any, len(schema.Properties))
		for name, prop := range schema.Properties {
			props[name] = schemaToMap(prop)
		}
		result["properties"] = props
	}
	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}
	if len(schema.Enum) > 0 {
		result["enum"] = schema.Enum
	}
	return result
}
