package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/sculpt/buffer"
	"github.com/randalmurphal/sculpt/engine"
	"github.com/randalmurphal/sculpt/provider"
	"github.com/randalmurphal/sculpt/settings"
	"github.com/randalmurphal/sculpt/tui"
)

func newRootCommand() *cobra.Command {
	a := newApp()

	root := &cobra.Command{
		Use:   "sculpt",
		Short: "Sculpt a text buffer with natural-language instructions",
		Long: `sculpt keeps a text buffer (the state) and rewrites it one instruction at a
time. The state and the instruction go to the configured model, and the
reply streams back over the buffer as it arrives.

Without a subcommand sculpt opens the terminal editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(nil); err != nil {
				return err
			}
			defer a.shutdown()
			if err := a.startMetrics(); err != nil {
				return err
			}
			return a.runTUI(cmd)
		},
	}
	a.bindFlags(root)

	root.AddCommand(newRunCommand(a))
	root.AddCommand(newSettingsCommand(a))
	root.AddCommand(newProvidersCommand(a))
	root.AddCommand(newModelsCommand(a))
	return root
}

func (a *app) runTUI(cmd *cobra.Command) error {
	ctx := cmd.Context()
	state := buffer.NewText(tui.InitialState)
	instr := buffer.NewText("")
	store := settings.Layered{Base: a.store, Apply: a.overrides}

	eng := engine.New(state, instr, store,
		engine.WithLogger(a.logger),
		engine.WithMetrics(a.metrics),
		engine.WithTimeout(a.v.GetDuration(keyTimeout)),
	)

	return tui.Run(ctx, eng, state, instr, store, tui.Options{
		Logger: a.logger,
		Ready: func(s tui.Sender) {
			go func() {
				err := a.store.Watch(ctx, func(provider.Config) { s.Send(tui.SettingsChangedMsg{}) })
				if err != nil && ctx.Err() == nil {
					a.logger.Warn("settings watch stopped", slog.Any("error", err))
				}
			}()
		},
	})
}
