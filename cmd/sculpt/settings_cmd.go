package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/sculpt/model"
	"github.com/randalmurphal/sculpt/provider"
	"github.com/randalmurphal/sculpt/settings"
)

func newSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved provider settings",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(nil)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.shutdown()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the saved settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				printConfig(cmd, a.store.Get())
				return nil
			},
		},
		newSettingsSetCommand(a),
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.store.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "schema",
			Short: "Print the JSON Schema of the settings document",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := settings.Schema()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
	)
	return cmd
}

func newSettingsSetCommand(a *app) *cobra.Command {
	var next provider.Config

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the saved settings",
		Long: `set updates the saved settings. Only the fields given as flags change.
Switching provider without --model selects the new provider's default
model, and an empty --model does the same.`,
		Example: `  sculpt settings set --provider openai --model gpt-4o-mini --api-key sk-...
  sculpt settings set --provider ollama --base-url http://localhost:11434/v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.store.Get()
			f := cmd.Flags()
			if f.Changed(keyProvider) && next.Provider != cfg.Provider {
				cfg.Provider = next.Provider
				cfg.Model = model.Default(next.Provider)
			}
			if f.Changed(keyModel) {
				cfg.Model = next.Model
			}
			if f.Changed(keyAPIKey) {
				cfg.APIKey = next.APIKey
			}
			if f.Changed(keyBaseURL) {
				cfg.BaseURL = next.BaseURL
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if !provider.IsRegistered(cfg.Provider) {
				return fmt.Errorf("%w: %s (available: %v)", provider.ErrUnknownProvider, cfg.Provider, provider.Available())
			}
			if err := a.store.Set(cfg); err != nil {
				return err
			}
			printConfig(cmd, cfg)
			return nil
		},
	}

	// These shadow the root's session-override flags of the same name.
	f := cmd.Flags()
	f.StringVar(&next.Provider, keyProvider, "", "provider name")
	f.StringVar(&next.Model, keyModel, "", "model name")
	f.StringVar(&next.APIKey, keyAPIKey, "", "API key")
	f.StringVar(&next.BaseURL, keyBaseURL, "", "endpoint for OpenAI-compatible servers")
	return cmd
}

func printConfig(cmd *cobra.Command, cfg provider.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "provider: %s\n", cfg.Provider)
	fmt.Fprintf(out, "model:    %s\n", cfg.ResolvedModel())
	fmt.Fprintf(out, "api key:  %s\n", redact(cfg.APIKey))
	if cfg.BaseURL != "" {
		fmt.Fprintf(out, "base url: %s\n", cfg.BaseURL)
	}
}

// redact keeps the last four characters of long keys.
func redact(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
