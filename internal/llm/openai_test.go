package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestNormalizeOpenAIRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"system", openai.ChatMessageRoleSystem},
		{"user", openai.ChatMessageRoleUser},
		{"assistant", openai.ChatMessageRoleAssistant},
		{"  USER ", openai.ChatMessageRoleUser},
		{"unknown", openai.ChatMessageRoleUser},
		{"", openai.ChatMessageRoleUser},
	}
	for _, tt := range tests {
		if got := normalizeOpenAIRole(tt.in); got != tt.want {
			t.Fatalf("normalizeOpenAIRole(%q): got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampMaxTokens(t *testing.T) {
	t.Parallel()

	if got := clampMaxTokens(-1); got != 0 {
		t.Fatalf("clampMaxTokens(-1): got %d want 0", got)
	}
	if got := clampMaxTokens(512); got != 512 {
		t.Fatalf("clampMaxTokens(512): got %d want 512", got)
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("auth header: got %q", got)
		}

		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "The answer is B."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 7}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", srv.URL+"/v1", "test-model")
	resp, err := p.Complete(context.Background(), &Request{
		Messages:  []Message{{Role: "user", Content: "1+1=?"}},
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Text != "The answer is B." {
		t.Fatalf("text: got %q", resp.Text)
	}
	if resp.StopReason != "stop" {
		t.Fatalf("stop reason: got %q", resp.StopReason)
	}
	if resp.Usage.InputTokens != 42 || resp.Usage.OutputTokens != 7 {
		t.Fatalf("usage: got %#v", resp.Usage)
	}
	if gotBody["model"] != "test-model" {
		t.Fatalf("request model: got %v", gotBody["model"])
	}
}

func TestOpenAIProvider_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", srv.URL+"/v1", "m")
	if _, err := p.Complete(context.Background(), &Request{
		Messages: []Message{{Role: "user", Content: "q"}},
	}); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestOpenAIProvider_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", srv.URL+"/v1", "m")
	if _, err := p.Complete(context.Background(), &Request{
		Messages: []Message{{Role: "user", Content: "q"}},
	}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestOpenAIProvider_NilGuards(t *testing.T) {
	t.Parallel()

	p := NewOpenAIProvider("k", "", "")
	if p.Model() != "gpt-4o" {
		t.Fatalf("default model: got %q", p.Model())
	}
	if _, err := p.Complete(nil, &Request{}); err == nil { //nolint:staticcheck
		t.Fatalf("expected error for nil context")
	}
	if _, err := p.Complete(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil request")
	}

	var nilP *OpenAIProvider
	if _, err := nilP.Complete(context.Background(), &Request{}); err == nil {
		t.Fatalf("expected error for nil provider")
	}
}
