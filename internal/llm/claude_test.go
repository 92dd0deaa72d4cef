package llm

import (
	"context"
	"testing"
)

func TestClaudeProvider_Defaults(t *testing.T) {
	t.Parallel()

	p := NewClaudeProvider("k", "", "")
	if p.Name() != "claude" {
		t.Fatalf("name: got %q", p.Name())
	}
	if p.Model() != defaultClaudeModel {
		t.Fatalf("default model: got %q", p.Model())
	}

	p = NewClaudeProvider("k", "https://example.invalid/", "my-model")
	if p.Model() != "my-model" {
		t.Fatalf("model: got %q", p.Model())
	}
}

func TestClaudeProvider_NilGuards(t *testing.T) {
	t.Parallel()

	p := NewClaudeProvider("k", "", "")
	if _, err := p.Complete(nil, &Request{}); err == nil { //nolint:staticcheck
		t.Fatalf("expected error for nil context")
	}
	if _, err := p.Complete(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil request")
	}

	var nilP *ClaudeProvider
	if _, err := nilP.Complete(context.Background(), &Request{}); err == nil {
		t.Fatalf("expected error for nil provider")
	}
}
