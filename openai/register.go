package openai

import "github.com/randalmurphal/sculpt/provider"

// Registered provider names.
const (
	OpenAIName = "openai"
	OllamaName = "ollama"
)

// DefaultOllamaURL is the OpenAI-compatible endpoint of a local Ollama.
const DefaultOllamaURL = "http://localhost:11434/v1"

func init() {
	provider.Register(OpenAIName, newOpenAI)
	provider.Register(OllamaName, newOllama)
}

func newOpenAI(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewClient(
		WithName(OpenAIName),
		WithModel(cfg.ResolvedModel()),
		WithAPIKey(cfg.APIKey),
		WithBaseURL(cfg.BaseURL),
		WithRequireKey(cfg.BaseURL == ""),
	), nil
}

func newOllama(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return NewClient(
		WithName(OllamaName),
		WithModel(cfg.ResolvedModel()),
		WithAPIKey(cfg.APIKey),
		WithBaseURL(baseURL),
	), nil
}
