package llm

import (
	"strings"
	"testing"

	"github.com/stellarlinkco/mmlu-eval/internal/config"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(NewOpenAIProvider("k", "", "m"))

	if _, ok := r.Get("openai"); !ok {
		t.Fatalf("Get(openai): not found")
	}
	if _, ok := r.Get(" OPENAI "); !ok {
		t.Fatalf("Get should normalize names")
	}
	if _, ok := r.Get("claude"); ok {
		t.Fatalf("Get(claude): unexpected hit")
	}
	if _, ok := r.Get(""); ok {
		t.Fatalf("Get(\"\"): unexpected hit")
	}

	var nilR *Registry
	nilR.Register(NewOpenAIProvider("k", "", "m"))
	if _, ok := nilR.Get("openai"); ok {
		t.Fatalf("nil registry Get: unexpected hit")
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "k", BaseURL: "http://localhost:1234/v1", Model: "m"},
		"claude": {APIKey: "k", Model: "c"},
	}

	r, err := NewRegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewRegistryFromConfig: %v", err)
	}
	if _, ok := r.Get("openai"); !ok {
		t.Fatalf("openai provider not registered")
	}
	if _, ok := r.Get("claude"); !ok {
		t.Fatalf("claude provider not registered")
	}
}

func TestNewRegistryFromConfig_UnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"gemini": {APIKey: "k"},
	}

	if _, err := NewRegistryFromConfig(cfg); err == nil || !strings.Contains(err.Error(), "gemini") {
		t.Fatalf("NewRegistryFromConfig: got %v, want unknown provider error", err)
	}
}

func TestDefaultProviderFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "openai"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "k", Model: "m"},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("provider name: got %q", p.Name())
	}
}

func TestDefaultProviderFromConfig_FallsBackToOnlyProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "openai"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"claude": {APIKey: "k"},
	}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "claude" {
		t.Fatalf("provider name: got %q", p.Name())
	}
}

func TestDefaultProviderFromConfig_Missing(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "openai"
	cfg.LLM.Providers = map[string]config.ProviderConfig{}

	if _, err := DefaultProviderFromConfig(cfg); err == nil {
		t.Fatalf("expected error when default provider is not configured")
	}
	if _, err := DefaultProviderFromConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
