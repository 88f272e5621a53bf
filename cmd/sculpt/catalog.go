package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/sculpt/model"
	"github.com/randalmurphal/sculpt/provider"
)

func newProvidersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the available providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(nil); err != nil {
				return err
			}
			defer a.shutdown()

			current := a.overrides(a.store.Get()).Provider
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tDEFAULT MODEL\t")
			for _, name := range provider.Available() {
				mark := ""
				if name == current {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, model.Default(name), mark)
			}
			return w.Flush()
		},
	}
}

func newModelsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models [provider]",
		Short: "List the known models for a provider",
		Long: `models lists the catalogued models for a provider (the configured one
by default). Any other model name the backend accepts can still be set.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return provider.Available(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(nil); err != nil {
				return err
			}
			defer a.shutdown()

			cfg := a.overrides(a.store.Get())
			name := cfg.Provider
			if len(args) == 1 {
				name = args[0]
			}
			if !provider.IsRegistered(name) {
				return fmt.Errorf("%w: %s", provider.ErrUnknownProvider, name)
			}

			out := cmd.OutOrStdout()
			for _, m := range model.Known(name) {
				if m == model.Default(name) {
					fmt.Fprintf(out, "%s (default)\n", m)
					continue
				}
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}
}
