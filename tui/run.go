package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randalmurphal/sculpt/buffer"
	"github.com/randalmurphal/sculpt/engine"
	"github.com/randalmurphal/sculpt/settings"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Attach forwards engine writes and snapshots to p. The returned function
// detaches every listener.
func Attach(p Sender, eng *engine.Engine, state, instr buffer.View) (detach func()) {
	removeState := state.OnChange(func(v string) { p.Send(stateChangedMsg(v)) })
	removeInstr := instr.OnChange(func(v string) { p.Send(instructionChangedMsg(v)) })
	unsubscribe := eng.Subscribe(func(s engine.Snapshot) { p.Send(snapshotMsg(s)) })

	return func() {
		removeState()
		removeInstr()
		unsubscribe()
	}
}

// Options configures Run.
type Options struct {
	Logger *slog.Logger

	// Ready, if set, is called with the program before it starts so the
	// caller can deliver SettingsChangedMsg.
	Ready func(Sender)

	ProgramOptions []tea.ProgramOption
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, eng *engine.Engine, state, instr *buffer.Text, store settings.Store, opts Options) error {
	m := New(ctx, eng, state, instr, store, opts.Logger)

	progOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	p := tea.NewProgram(m, progOpts...)

	detach := Attach(p, eng, state, instr)
	defer detach()
	if opts.Ready != nil {
		opts.Ready(p)
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
