package summary

import (
	"encoding/json"
	"testing"
)

func TestBuildAnthropicBody(t *testing.T) {
	body, err := buildAnthropicBody("be brief", "microphone: hello\n", 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("body is not valid json: %v", err)
	}
	if decoded["anthropic_version"] != "bedrock-2023-05-31" {
		t.Fatalf("unexpected anthropic_version: %v", decoded["anthropic_version"])
	}
	if decoded["max_tokens"] != float64(2000) {
		t.Fatalf("unexpected max_tokens: %v", decoded["max_tokens"])
	}
	if decoded["system"] != "be brief" {
		t.Fatalf("unexpected system prompt: %v", decoded["system"])
	}
	msgs, ok := decoded["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", decoded["messages"])
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "microphone: hello\n" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestParseAnthropicResponse(t *testing.T) {
	text, err := parseAnthropicResponse([]byte(`{"content":[{"type":"text","text":"- decided to ship"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "- decided to ship" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestParseAnthropicResponseRejectsEmpty(t *testing.T) {
	if _, err := parseAnthropicResponse([]byte(`{"content":[]}`)); err == nil {
		t.Fatal("expected error for empty content")
	}
	if _, err := parseAnthropicResponse([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
