// Package tui is the terminal front end: a state panel, an instruction
// panel, a settings dialog and a status bar, hosted by Bubble Tea.
//
// The panels are mirrored into buffer.Text surfaces that the engine reads
// and writes. Keystrokes update the surfaces silently; writes made by the
// engine while streaming come back to the program as messages through the
// surfaces' change listeners (see Attach).
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/randalmurphal/sculpt/buffer"
	"github.com/randalmurphal/sculpt/engine"
	"github.com/randalmurphal/sculpt/settings"
)

// InitialState is the state panel content of a fresh session.
const InitialState = "// state_0\n// sculpt the vibe here"

type focusTarget int

const (
	focusInstruction focusTarget = iota
	focusState
)

// Messages delivered from outside the update loop.
type (
	stateChangedMsg       string
	instructionChangedMsg string
	snapshotMsg           engine.Snapshot
	sculptDoneMsg         struct {
		res engine.Result
		ok  bool
	}

	// SettingsChangedMsg tells the model the store changed outside the
	// dialog, for example through an edit to the settings file.
	SettingsChangedMsg struct{}
)

// Model is the Bubble Tea model.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	store  settings.Store
	state  *buffer.Text
	instr  *buffer.Text
	logger *slog.Logger

	stateArea textarea.Model
	instrArea textarea.Model
	focus     focusTarget
	dialog    *settingsDialog
	spinner   spinner.Model
	snap      engine.Snapshot
	keys      keyMap

	width  int
	height int
}

// New creates the model. state and instr must be the surfaces eng was
// built with. The status bar shows store.Get(); the settings dialog edits
// settings.Saved(store), so session overrides in a settings.Layered store
// are never written back.
func New(ctx context.Context, eng *engine.Engine, state, instr *buffer.Text, store settings.Store, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	sa := textarea.New()
	sa.ShowLineNumbers = true
	sa.Prompt = ""
	sa.CharLimit = 0
	sa.SetValue(state.Value())

	ia := textarea.New()
	ia.ShowLineNumbers = false
	ia.Prompt = "┃ "
	ia.Placeholder = "describe the change..."
	ia.CharLimit = 0
	ia.SetValue(instr.Value())
	ia.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		engine:    eng,
		store:     store,
		state:     state,
		instr:     instr,
		logger:    logger,
		stateArea: sa,
		instrArea: ia,
		focus:     focusInstruction,
		spinner:   sp,
		snap:      eng.Snapshot(),
		keys:      defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case stateChangedMsg:
		m.stateArea.SetValue(string(msg))
		return m, nil

	case instructionChangedMsg:
		m.instrArea.SetValue(string(msg))
		return m, nil

	case snapshotMsg:
		m.snap = engine.Snapshot(msg)
		if m.snap.Status == engine.StatusSculpting {
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if m.snap.Status != engine.StatusSculpting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sculptDoneMsg:
		if msg.ok && msg.res.Err != nil {
			m.logger.Debug("sculpt reported failure to ui", slog.String("sculpt_id", msg.res.ID))
		}
		return m, nil

	case SettingsChangedMsg:
		// The status bar reads the store on render.
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.dialog != nil {
		result, cmd := m.dialog.Update(msg)
		switch result {
		case dialogSaved:
			cfg := m.dialog.config()
			if err := m.store.Set(cfg); err != nil {
				m.dialog.err = err.Error()
				return m, nil
			}
			m.logger.Info("settings saved", slog.Any("config", cfg))
			m.dialog = nil
			return m, m.focusCurrent()
		case dialogCancelled:
			m.dialog = nil
			return m, m.focusCurrent()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m, m.sculpt()
	case key.Matches(msg, m.keys.Settings):
		m.stateArea.Blur()
		m.instrArea.Blur()
		m.dialog = newSettingsDialog(settings.Saved(m.store))
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusInstruction {
			m.focus = focusState
		} else {
			m.focus = focusInstruction
		}
		return m, m.focusCurrent()
	}

	return m.forward(msg)
}

// forward passes msg to the focused panel and mirrors its content into the
// matching surface without notifying listeners.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.dialog != nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusState:
		m.stateArea, cmd = m.stateArea.Update(msg)
		m.state.Set(m.stateArea.Value())
	default:
		m.instrArea, cmd = m.instrArea.Update(msg)
		m.instr.Set(m.instrArea.Value())
	}
	return m, cmd
}

func (m *Model) focusCurrent() tea.Cmd {
	if m.focus == focusState {
		m.instrArea.Blur()
		return m.stateArea.Focus()
	}
	m.stateArea.Blur()
	return m.instrArea.Focus()
}

// sculpt flushes both panels into their surfaces and runs the engine off the
// update loop. While a sculpt is streaming the surfaces belong to the engine,
// so a repeated trigger does nothing.
func (m Model) sculpt() tea.Cmd {
	if m.engine.Status() == engine.StatusSculpting {
		return nil
	}
	m.state.Set(m.stateArea.Value())
	m.instr.Set(m.instrArea.Value())

	eng, ctx := m.engine, m.ctx
	return func() tea.Msg {
		res, ok := eng.Sculpt(ctx)
		return sculptDoneMsg{res: res, ok: ok}
	}
}

func (m *Model) layout() {
	const chrome = 4 // panel header, help line, status line, spacing
	h := max(3, m.height-chrome-2)

	stateW := max(20, (m.width-4)*2/3)
	instrW := max(16, m.width-4-stateW)

	m.stateArea.SetWidth(stateW)
	m.stateArea.SetHeight(h)
	m.instrArea.SetWidth(instrW)
	m.instrArea.SetHeight(h)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.dialog != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dialog.View(m.width))
	}

	statePanel := lipgloss.JoinVertical(lipgloss.Left,
		panelHeader("state_history", m.stateArea.Width()),
		m.panelStyle(focusState).Render(m.stateArea.View()),
	)
	instrPanel := lipgloss.JoinVertical(lipgloss.Left,
		panelHeader("instruction_log", m.instrArea.Width()),
		m.panelStyle(focusInstruction).Render(m.instrArea.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, statePanel, " ", instrPanel),
		helpLine(m.keys),
		statusLine(m.store.Get(), m.snap, m.spinner.View(), m.width),
	)
}

func (m Model) panelStyle(target focusTarget) lipgloss.Style {
	color := lipgloss.Color("238")
	if m.focus == target {
		color = lipgloss.Color("12")
	}
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(color)
}
