package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "gpt-4.1" {
			t.Errorf("expected model gpt-4.1, got %q", body.Model)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Error("expected system + user messages")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "hello"}},
			},
		})
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "gpt-4.1", APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	got, err := p.Generate(context.Background(), "hi", 256)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
}

func TestOpenAIGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "gpt-4.1", APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	if _, err := p.Generate(context.Background(), "hi", 256); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestOpenAIGenerateMissingKey(t *testing.T) {
	p := NewOpenAIProvider("gpt-4.1", "POSTPILOT_TEST_UNSET_KEY")
	if p.IsConfigured() {
		t.Error("expected unconfigured provider")
	}
	if _, err := p.Generate(context.Background(), "hi", 256); err == nil {
		t.Error("expected error without API key")
	}
}
