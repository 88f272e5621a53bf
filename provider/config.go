package provider

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/randalmurphal/sculpt/model"
)

// Config selects and authenticates a backend for one sculpt call.
// It is copied by value at the start of every call, so edits made while a
// call is in flight never reach that call.
type Config struct {
	// Provider is the registered backend name.
	// Required. Values: "gemini", "openai", "ollama", "mock"
	Provider string `json:"provider" yaml:"provider" toml:"provider" mapstructure:"provider" jsonschema:"required,minLength=1"`

	// Model is the backend-specific model identifier.
	// Empty means the provider default from the model catalog.
	Model string `json:"model" yaml:"model" toml:"model" mapstructure:"model"`

	// APIKey authenticates the request. May be empty for local backends.
	APIKey string `json:"apiKey" yaml:"apiKey" toml:"apiKey" mapstructure:"api_key"`

	// BaseURL overrides the backend endpoint (OpenAI-compatible servers).
	// Optional.
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty" toml:"baseURL,omitempty" mapstructure:"base_url"`
}

// DefaultConfig returns the settings used when nothing has been saved yet.
func DefaultConfig() Config {
	return Config{
		Provider: model.DefaultProvider,
		Model:    model.Default(model.DefaultProvider),
		APIKey:   "",
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the SCULPT_ prefix and take precedence over
// existing values. If APIKey is still empty afterwards, the provider's native
// key variable (GEMINI_API_KEY, OPENAI_API_KEY) is consulted.
//
// Supported variables:
//   - SCULPT_PROVIDER: Provider name
//   - SCULPT_MODEL: Model name
//   - SCULPT_API_KEY: API key
//   - SCULPT_BASE_URL: Endpoint override
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("SCULPT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("SCULPT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("SCULPT_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("SCULPT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if c.APIKey == "" {
		for _, name := range nativeKeyVars[c.Provider] {
			if v := os.Getenv(name); v != "" {
				c.APIKey = v
				break
			}
		}
	}
}

var nativeKeyVars = map[string][]string{
	"gemini": {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"openai": {"OPENAI_API_KEY"},
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("%w: provider is required", ErrInvalidRequest)
	}
	return nil
}

// ResolvedModel returns Model, or the catalog default for Provider when
// Model is empty.
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return model.Default(c.Provider)
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(m string) Config {
	c.Model = m
	return c
}

// WithAPIKey returns a copy of the config with the specified API key.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}

// LogValue implements slog.LogValuer. The API key is never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", c.Provider),
		slog.String("model", c.ResolvedModel()),
		slog.Bool("api_key_set", c.APIKey != ""),
	)
}
