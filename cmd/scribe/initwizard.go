package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/scribehq/scribe/pkg/engine"
	"github.com/scribehq/scribe/pkg/scribedir"
)

type providerDefault struct {
	APIKey  string //nolint:gosec // env var reference template, not a secret
	Model   string
	BaseURL string
}

//nolint:gosec // env var reference templates, not hardcoded secrets
var providerDefaults = map[string]providerDefault{
	"groq":   {APIKey: "${GROQ_API_KEY}", Model: "llama-3.3-70b-versatile"},
	"openai": {APIKey: "${OPENAI_API_KEY}", Model: "gpt-4o-mini"},
	"ollama": {Model: "llama3.1", BaseURL: "http://localhost:11434/v1"},
}

func runInit(dirPath string) error {
	configYAML, err := runWizard()
	if err != nil {
		return err
	}

	d := scribedir.New(dirPath)
	if err := scribedir.BootstrapWithConfig(d, configYAML); err != nil {
		return err
	}

	fmt.Printf("Initialized %s\n", d.Root())

	return nil
}

func runWizard() ([]byte, error) {
	var cfg engine.Config

	if err := wizardProviders(&cfg); err != nil {
		return nil, err
	}

	if err := wizardSearch(&cfg); err != nil {
		return nil, err
	}

	if err := wizardResearch(&cfg); err != nil {
		return nil, err
	}

	cfg.Server.Addr = engine.DefaultAddr

	return yaml.Marshal(cfg)
}

func wizardProviders(cfg *engine.Config) error {
	for {
		p, err := wizardPromptProvider()
		if err != nil {
			return err
		}

		cfg.Providers = append(cfg.Providers, p)

		var more bool
		if err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title("Add another provider?").Value(&more),
		)).Run(); err != nil {
			return err
		}

		if !more {
			cfg.DefaultProvider = cfg.Providers[0].Name
			return nil
		}
	}
}

func wizardPromptProvider() (engine.ProviderConfig, error) {
	var p engine.ProviderConfig

	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Provider kind").
			Options(
				huh.NewOption("Groq", "groq"),
				huh.NewOption("OpenAI", "openai"),
				huh.NewOption("Ollama (local)", "ollama"),
			).
			Value(&p.Kind),
	)).Run(); err != nil {
		return p, err
	}

	defaults := providerDefaults[p.Kind]
	p.Name = p.Kind
	p.APIKey = defaults.APIKey
	p.Model = defaults.Model
	p.BaseURL = defaults.BaseURL

	fields := []huh.Field{
		huh.NewInput().Title("Provider name").Value(&p.Name),
		huh.NewInput().Title("Model").Value(&p.Model),
	}
	if p.Kind == "ollama" {
		fields = append(fields, huh.NewInput().Title("Base URL").Value(&p.BaseURL))
	} else {
		fields = append(fields, huh.NewInput().Title("API key env var").Value(&p.APIKey))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return p, err
	}

	return p, nil
}

func wizardSearch(cfg *engine.Config) error {
	var useTavily bool
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Use Tavily for web search? (No = keyless DuckDuckGo)").
			Value(&useTavily),
	)).Run(); err != nil {
		return err
	}

	if !useTavily {
		cfg.Search.Backend = "duckduckgo"
		return nil
	}

	cfg.Search.Backend = "tavily"
	cfg.Search.APIKey = "${TAVILY_API_KEY}"
	cfg.Search.Depth = "basic"

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Tavily API key env var").Value(&cfg.Search.APIKey),
		huh.NewSelect[string]().
			Title("Search depth").
			Options(
				huh.NewOption("Basic (faster, cheaper)", "basic"),
				huh.NewOption("Advanced (more thorough)", "advanced"),
			).
			Value(&cfg.Search.Depth),
	)).Run()
}

func wizardResearch(cfg *engine.Config) error {
	cfg.Research.Mode = "standard"

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Research mode").
			Options(
				huh.NewOption("Standard (one search, streamed report)", "standard"),
				huh.NewOption("Deep (model drives search and page fetches)", "deep"),
			).
			Value(&cfg.Research.Mode),
	)).Run()
}
