package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionServer(t *testing.T, content string, choices int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("llm:client_test - unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("llm:client_test - bad request body: %v", err)
		}
		if req["temperature"] != 0.7 {
			t.Errorf("llm:client_test - temperature = %v, want 0.7", req["temperature"])
		}
		if req["max_tokens"] != float64(2000) {
			t.Errorf("llm:client_test - max_tokens = %v, want 2000", req["max_tokens"])
		}

		body := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   req["model"],
			"choices": []map[string]any{},
		}
		for i := 0; i < choices; i++ {
			body["choices"] = append(body["choices"].([]map[string]any), map[string]any{
				"index":         i,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
}

func TestComplete(t *testing.T) {
	srv := completionServer(t, "  Hallo Welt \n", 1)
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4"})
	got, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are a translator."},
		{Role: RoleUser, Content: "Translate: Hello world"},
	})
	if err != nil {
		t.Fatalf("llm:client_test - unexpected error: %v", err)
	}
	if got != "Hallo Welt" {
		t.Errorf("llm:client_test - Complete = %q, want trimmed %q", got, "Hallo Welt")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := completionServer(t, "", 0)
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("llm:client_test - expected error for empty choices")
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("llm:client_test - expected error from upstream failure")
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key"})
	if c.model != "gpt-4" {
		t.Errorf("llm:client_test - default model = %q, want gpt-4", c.model)
	}
}
