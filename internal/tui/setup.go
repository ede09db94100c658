package tui

import (
	"context"

	"github.com/charmbracelet/huh"

	"github.com/julianshen/autodocs/internal/config"
	"github.com/julianshen/autodocs/internal/docgen"
	"github.com/julianshen/autodocs/internal/provider/ollama"
)

// SetupForm is the interactive `config init` wizard.
type SetupForm struct {
	form     *huh.Form
	cfg      *config.Config
	savePath string
	apiKey   string
}

// NewSetupForm creates a multi-step setup wizard seeded from cfg. A nil cfg
// starts from the defaults.
func NewSetupForm(savePath string, cfg *config.Config) *SetupForm {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sf := &SetupForm{cfg: cfg, savePath: savePath}

	providerGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Choose your AI provider").
			Options(
				huh.NewOption("OpenAI", "openai"),
				huh.NewOption("OpenAI-compatible gateway (FuelIX, OpenRouter, ...)", "gateway"),
				huh.NewOption("Ollama (Local)", "ollama"),
			).
			Value(&cfg.Provider.Name),
	).Title("Welcome to autodocs")

	endpointGroup := huh.NewGroup(
		huh.NewInput().
			Title("API base URL").
			Placeholder("https://api.example.com/v1").
			Value(&cfg.Provider.BaseURL),
	).Title("Endpoint").
		WithHideFunc(func() bool { return cfg.Provider.Name != "gateway" })

	keyGroup := huh.NewGroup(
		huh.NewInput().
			Title("API Key").
			Description("Leave empty to read it from $" + cfg.Provider.APIKeyEnv + " at run time").
			Placeholder("sk-...").
			Value(&sf.apiKey).
			EchoMode(huh.EchoModePassword),
	).Title("Authentication").
		WithHideFunc(func() bool { return cfg.Provider.Name == "ollama" })

	modelGroup := huh.NewGroup(
		huh.NewInput().
			Title("Model").
			Placeholder("gpt-4o-mini").
			Value(&cfg.Provider.Model),
		huh.NewSelect[string]().
			Title("Output format").
			Options(
				huh.NewOption("Plain Markdown", docgen.FormatRawMarkdown),
				huh.NewOption("Hugo site", docgen.FormatHugo),
				huh.NewOption("Docusaurus site", docgen.FormatDocusaurus),
			).
			Value(&cfg.Output.Format),
	).Title("Generation")

	sf.form = huh.NewForm(providerGroup, endpointGroup, keyGroup, modelGroup)
	return sf
}

// Form returns the underlying huh.Form.
func (s *SetupForm) Form() *huh.Form { return s.form }

// Config returns the config populated by the wizard.
func (s *SetupForm) Config() *config.Config { return s.cfg }

// SetAPIKey sets the key that Save stores in the config file.
func (s *SetupForm) SetAPIKey(key string) { s.apiKey = key }

// Run shows the form on the terminal.
func (s *SetupForm) Run(ctx context.Context) error {
	return s.form.RunWithContext(ctx)
}

// Save persists the config. A key typed into the wizard is stored in the
// file; otherwise the key keeps coming from the environment.
func (s *SetupForm) Save() error {
	pc := &s.cfg.Provider
	if s.apiKey != "" {
		pc.APIKeySource = "config"
		pc.APIKey = s.apiKey
	}
	if pc.Name == "ollama" {
		pc.BaseURL = ollama.BaseURL(pc.BaseURL)
	}
	return config.Save(s.savePath, s.cfg)
}
