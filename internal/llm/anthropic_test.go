package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *Anthropic {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewAnthropic(AnthropicConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewAnthropic: %v", err)
	}
	return client
}

func TestNewAnthropicRequiresKey(t *testing.T) {
	if _, err := NewAnthropic(AnthropicConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestGenerateSendsHeadersAndBody(t *testing.T) {
	var gotReq map[string]any
	var gotHeaders http.Header
	client := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "hello"}},
			"stop_reason": "end_turn",
		})
	})

	resp, err := client.Generate(context.Background(), Request{
		System:   "be brief",
		Messages: []Message{UserText("hi")},
		Tools: []ToolSchema{{
			Name:        "search_course_content",
			InputSchema: map[string]any{"type": "object"},
		}},
		AllowToolUse: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text() != "hello" || resp.StopReason != StopEndTurn {
		t.Errorf("resp = %q, %q", resp.Text(), resp.StopReason)
	}

	if gotHeaders.Get("x-api-key") != "test-key" {
		t.Errorf("x-api-key = %q", gotHeaders.Get("x-api-key"))
	}
	if gotHeaders.Get("anthropic-version") != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotHeaders.Get("anthropic-version"))
	}
	if gotReq["system"] != "be brief" {
		t.Errorf("system = %v", gotReq["system"])
	}
	if gotReq["max_tokens"] != float64(800) {
		t.Errorf("max_tokens = %v", gotReq["max_tokens"])
	}
	tools, _ := gotReq["tools"].([]any)
	if len(tools) != 1 {
		t.Errorf("tools = %v", gotReq["tools"])
	}
	choice, _ := gotReq["tool_choice"].(map[string]any)
	if choice["type"] != "auto" {
		t.Errorf("tool_choice = %v", gotReq["tool_choice"])
	}
}

func TestGenerateOmitsToolsWhenDisallowed(t *testing.T) {
	var gotReq map[string]any
	client := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "done"}},
			"stop_reason": "end_turn",
		})
	})

	_, err := client.Generate(context.Background(), Request{
		Messages:     []Message{UserText("hi")},
		Tools:        []ToolSchema{{Name: "search_course_content"}},
		AllowToolUse: false,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, present := gotReq["tools"]; present {
		t.Error("tools sent on a synthesis call")
	}
	if _, present := gotReq["tool_choice"]; present {
		t.Error("tool_choice sent on a synthesis call")
	}
}

func TestGenerateParsesToolUse(t *testing.T) {
	client := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "tool_use", "id": "tu_1", "name": "search_course_content",
					"input": map[string]any{"query": "mcp"}},
			},
			"stop_reason": "tool_use",
		})
	})

	resp, err := client.Generate(context.Background(), Request{Messages: []Message{UserText("hi")}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	uses := resp.ToolUses()
	if len(uses) != 1 || uses[0].Name != "search_course_content" || uses[0].ID != "tu_1" {
		t.Errorf("tool uses = %+v", uses)
	}
	if uses[0].Input["query"] != "mcp" {
		t.Errorf("input = %v", uses[0].Input)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	client := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	})

	_, err := client.Generate(context.Background(), Request{Messages: []Message{UserText("hi")}})
	if err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestGenerateAPIError(t *testing.T) {
	client := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "bad model"},
		})
	})

	_, err := client.Generate(context.Background(), Request{Messages: []Message{UserText("hi")}})
	if err == nil {
		t.Fatal("expected error from error payload")
	}
}
