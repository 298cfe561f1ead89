package llm

import "context"

// Message roles used in the conversation threaded through a run.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types as they appear on the wire.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Stop reasons distinguishing "stopped because of tool request" from
// "stopped with final text".
const (
	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// ContentBlock is one element of a message's content. Text blocks carry Text;
// tool_use blocks carry ID/Name/Input; tool_result blocks carry
// ToolUseID/Content.
type ContentBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
}

// TextBlock builds a plain text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ToolResultBlock builds a tool_result block echoing the originating call id.
func ToolResultBlock(toolUseID, content string) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolUseID: toolUseID, Content: content}
}

// Message is one turn in the conversation. Content is a sequence of blocks;
// plain text turns hold a single text block.
type Message struct {
	Role    string
	Content []ContentBlock
}

// UserText builds a user message with a single text block.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// ToolSchema describes one capability offered to the model.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Request is one completion call. Tools are offered only when AllowToolUse is
// set; the final synthesis call clears it to force a plain-text answer.
type Request struct {
	System       string
	Messages     []Message
	Tools        []ToolSchema
	AllowToolUse bool
}

// Response is the model's reply: content blocks plus the stop reason.
type Response struct {
	Blocks     []ContentBlock
	StopReason string
}

// ToolUses returns the tool invocation requests in emission order.
func (r *Response) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, b := range r.Blocks {
		if b.Type == BlockToolUse {
			uses = append(uses, b)
		}
	}
	return uses
}

// Text concatenates the text blocks of the response.
func (r *Response) Text() string {
	var out string
	for _, b := range r.Blocks {
		if b.Type == BlockText {
			out += b.Text
		}
	}
	return out
}

// Provider is the interface for LLM completion backends.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
