package engine

import (
	"fmt"
	"sync"

	"github.com/scribehq/scribe/pkg/providers/groq"
	"github.com/scribehq/scribe/pkg/providers/ollama"
	"github.com/scribehq/scribe/pkg/providers/openai"
	"github.com/scribehq/scribe/pkg/research"
)

// ProviderFactory creates a research.Model from a ProviderConfig.
type ProviderFactory func(cfg ProviderConfig) (research.Model, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["groq"] = newGroq
		factories["openai"] = newOpenAI
		factories["ollama"] = newOllama
	})
}

// RegisterProvider registers a custom provider factory under the given kind.
// It can be called before New to extend the engine with additional providers.
func RegisterProvider(kind string, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

// getFactory returns the factory for the given kind.
func getFactory(kind string) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[kind]
	return f, ok
}

func newGroq(cfg ProviderConfig) (research.Model, error) {
	a := groq.New(cfg.APIKey, nil)
	applyCommon(&a.BaseURL, &a.Name, &a.Temperature, &a.MaxTokens, cfg)

	return a, nil
}

func newOpenAI(cfg ProviderConfig) (research.Model, error) {
	a := openai.New(cfg.APIKey, nil)
	applyCommon(&a.BaseURL, &a.Name, &a.Temperature, &a.MaxTokens, cfg)

	return a, nil
}

func newOllama(cfg ProviderConfig) (research.Model, error) {
	a := ollama.New(cfg.BaseURL, nil)
	applyCommon(&a.BaseURL, &a.Name, &a.Temperature, &a.MaxTokens, cfg)

	return a, nil
}

func applyCommon(baseURL, name *string, temperature *float64, maxTokens *int, cfg ProviderConfig) {
	if cfg.BaseURL != "" {
		*baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		*name = cfg.Model
	}
	if cfg.Temperature != 0 {
		*temperature = cfg.Temperature
	}
	if cfg.MaxTokens != 0 {
		*maxTokens = cfg.MaxTokens
	}
}

// buildModel creates a research.Model from a ProviderConfig using the
// registered factory for its Kind.
func buildModel(cfg ProviderConfig) (research.Model, error) {
	factory, ok := getFactory(cfg.Kind)
	if !ok {
		return nil, fmt.Errorf("engine: unknown provider kind %q", cfg.Kind)
	}

	return factory(cfg)
}
