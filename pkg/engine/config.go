package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	ScribeDir       string           `yaml:"-"` // Set by CLI, not from YAML.
	Providers       []ProviderConfig `yaml:"providers"`
	DefaultProvider string           `yaml:"default_provider"`
	Search          SearchConfig     `yaml:"search"`
	Research        ResearchConfig   `yaml:"research"`
	Server          ServerConfig     `yaml:"server"`
}

// ProviderConfig describes an LLM provider instance.
type ProviderConfig struct {
	Name        string  `yaml:"name"`
	Kind        string  `yaml:"kind"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SearchConfig selects and tunes the web search backend.
type SearchConfig struct {
	// Backend is "tavily", "duckduckgo", or "multi" (both at once).
	// Empty picks tavily when an API key is set, duckduckgo otherwise.
	Backend    string  `yaml:"backend"`
	APIKey     string  `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Depth      string  `yaml:"depth"`
	MaxResults int     `yaml:"max_results"`
	QPS        float64 `yaml:"qps"`
}

// ResearchConfig tunes the assistant.
type ResearchConfig struct {
	// Mode is "standard" or "deep".
	Mode          string `yaml:"mode"`
	MaxIterations int    `yaml:"max_iterations"`
}

// ServerConfig holds the HTTP frontend settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultAddr is where the HTTP frontend listens unless configured otherwise.
const DefaultAddr = "127.0.0.1:8501"

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing. This allows API keys and other secrets to be kept in
// environment variables (e.g. loaded from a .env file) rather than committed
// in the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("engine: config: at least one provider is required")
	}

	providerNames := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("engine: config: provider name is required")
		}
		if p.Kind == "" {
			return fmt.Errorf("engine: config: provider %q: kind is required", p.Name)
		}
		if _, dup := providerNames[p.Name]; dup {
			return fmt.Errorf("engine: config: duplicate provider name %q", p.Name)
		}
		providerNames[p.Name] = struct{}{}
	}

	if c.DefaultProvider != "" {
		if _, ok := providerNames[c.DefaultProvider]; !ok {
			return fmt.Errorf("engine: config: default_provider %q not found in providers", c.DefaultProvider)
		}
	}

	switch c.Search.Backend {
	case "", "tavily", "duckduckgo", "multi":
	default:
		return fmt.Errorf("engine: config: unknown search backend %q", c.Search.Backend)
	}

	switch c.Research.Mode {
	case "", "standard", "deep":
	default:
		return fmt.Errorf("engine: config: unknown research mode %q", c.Research.Mode)
	}

	return nil
}
