package gemini

import (
	"google.golang.org/api/option"

	"github.com/randalmurphal/sculpt/provider"
)

func init() {
	provider.Register(Name, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
// This is the factory function registered with the provider registry.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []Option{WithAPIKey(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithClientOptions(option.WithEndpoint(cfg.BaseURL)))
	}
	return NewClient(opts...), nil
}
