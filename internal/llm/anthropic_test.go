package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newAnthropicTestServer(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAnthropicClient(Config{APIKey: "test-key", Model: "claude-test", BaseURL: server.URL})
}

func writeAnthropicMessage(w http.ResponseWriter, texts ...string) {
	content := make([]map[string]string, 0, len(texts))
	for _, text := range texts {
		content = append(content, map[string]string{"type": "text", "text": text})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":            "msg_1",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-test",
		"content":       content,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]int{"input_tokens": 10, "output_tokens": 5},
	})
}

func TestAnthropicClient_Complete(t *testing.T) {
	var got map[string]any

	client := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("expected /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("X-Api-Key = %q, want test-key", r.Header.Get("X-Api-Key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		writeAnthropicMessage(w, `{"translation":`, `"你好"}`)
	})

	reply, err := client.Complete(context.Background(), CompletionRequest{
		System:      "You are a tutor.",
		Messages:    []Message{{Role: RoleUser, Content: "hola"}},
		MaxTokens:   800,
		Temperature: 0.7,
		JSONObject:  true,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != `{"translation":"你好"}` {
		t.Errorf("Complete() = %q", reply)
	}

	if got["model"] != "claude-test" {
		t.Errorf("model = %v, want claude-test", got["model"])
	}
	if got["max_tokens"] != float64(800) {
		t.Errorf("max_tokens = %v, want 800", got["max_tokens"])
	}
	system, _ := got["system"].([]any)
	if len(system) != 1 {
		t.Fatalf("system = %v, want one block", got["system"])
	}
	block, _ := system[0].(map[string]any)
	text, _ := block["text"].(string)
	if !strings.HasPrefix(text, "You are a tutor.") || !strings.Contains(text, jsonInstruction) {
		t.Errorf("system text = %q, want prompt plus JSON instruction", text)
	}
}

func TestAnthropicClient_DefaultMaxTokens(t *testing.T) {
	client := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var got map[string]any
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["max_tokens"] != float64(defaultAnthropicMaxTokens) {
			t.Errorf("max_tokens = %v, want %d", got["max_tokens"], defaultAnthropicMaxTokens)
		}
		if _, ok := got["system"]; ok {
			t.Errorf("system should be omitted, got %v", got["system"])
		}
		writeAnthropicMessage(w, "hola")
	})

	if _, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
}

func TestAnthropicClient_CompleteErrors(t *testing.T) {
	t.Run("api error is not retried", func(t *testing.T) {
		calls := 0
		client := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
		})

		_, err := client.Complete(context.Background(), CompletionRequest{
			Messages: []Message{{Role: RoleUser, Content: "hola"}},
		})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("Complete() error = %v, want *APIError", err)
		}
		if apiErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
		}
		if calls != 1 {
			t.Errorf("server called %d times, want 1", calls)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		client := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeAnthropicMessage(w)
		})

		_, err := client.Complete(context.Background(), CompletionRequest{
			Messages: []Message{{Role: RoleUser, Content: "hola"}},
		})
		if !errors.Is(err, ErrNoChoices) {
			t.Errorf("Complete() error = %v, want ErrNoChoices", err)
		}
	})
}
