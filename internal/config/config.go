package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type EvaluationConfig struct {
	DatasetDir string `yaml:"dataset_dir,omitempty"`
	OutputDir  string `yaml:"output_dir,omitempty"`
	// Datasets, when set, names the exact dataset files to evaluate and
	// overrides the dataset_dir scan.
	Datasets    []string      `yaml:"datasets,omitempty"`
	SampleSize  int           `yaml:"sample_size,omitempty"`
	MaxTokens   int           `yaml:"max_tokens,omitempty"`
	Temperature float64       `yaml:"temperature,omitempty"`
	// RequestTimeout bounds each model call; CallDelay is the fixed pause
	// between calls used to stay under endpoint rate limits.
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	CallDelay      time.Duration `yaml:"call_delay,omitempty"`
	// Seed fixes dataset sampling for reproducible subsets (0 = random).
	Seed int64 `yaml:"seed,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "openai"
	}
	if strings.TrimSpace(cfg.Evaluation.DatasetDir) == "" {
		cfg.Evaluation.DatasetDir = "datasets/mmlu"
	}
	if strings.TrimSpace(cfg.Evaluation.OutputDir) == "" {
		cfg.Evaluation.OutputDir = "results"
	}
	if cfg.Evaluation.MaxTokens <= 0 {
		cfg.Evaluation.MaxTokens = 512
	}
	if cfg.Evaluation.RequestTimeout <= 0 {
		cfg.Evaluation.RequestTimeout = 30 * time.Second
	}
	if cfg.Evaluation.CallDelay <= 0 {
		cfg.Evaluation.CallDelay = 100 * time.Millisecond
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = ":8080"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}
}
