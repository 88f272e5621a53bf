package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/randalmurphal/sculpt/model"
	"github.com/randalmurphal/sculpt/provider"
)

const (
	fieldProvider = iota
	fieldModel
	fieldAPIKey
	fieldCount
)

// dialogResult is what closing the dialog produced.
type dialogResult int

const (
	dialogOpen dialogResult = iota
	dialogSaved
	dialogCancelled
)

// settingsDialog edits a provider.Config. BaseURL is carried through
// unchanged.
type settingsDialog struct {
	inputs  [fieldCount]textinput.Model
	focused int
	base    provider.Config
	err     string
	keys    dialogKeyMap
}

func newSettingsDialog(cfg provider.Config) *settingsDialog {
	d := &settingsDialog{base: cfg, keys: defaultDialogKeyMap()}

	labels := [fieldCount]string{"provider", "model", "api key"}
	values := [fieldCount]string{cfg.Provider, cfg.Model, cfg.APIKey}
	for i := range d.inputs {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-9s ", labels[i])
		in.CharLimit = 256
		in.SetValue(values[i])
		d.inputs[i] = in
	}
	d.inputs[fieldProvider].Placeholder = strings.Join(provider.Available(), ", ")
	d.inputs[fieldModel].Placeholder = model.Default(cfg.Provider)
	d.inputs[fieldAPIKey].EchoMode = textinput.EchoPassword
	d.inputs[fieldAPIKey].EchoCharacter = '*'
	d.inputs[fieldProvider].Focus()
	return d
}

// config returns the config described by the inputs.
func (d *settingsDialog) config() provider.Config {
	cfg := d.base
	cfg.Provider = strings.TrimSpace(d.inputs[fieldProvider].Value())
	cfg.Model = strings.TrimSpace(d.inputs[fieldModel].Value())
	cfg.APIKey = strings.TrimSpace(d.inputs[fieldAPIKey].Value())
	return cfg
}

func (d *settingsDialog) validate() error {
	cfg := d.config()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !provider.IsRegistered(cfg.Provider) {
		return fmt.Errorf("%w: %s", provider.ErrUnknownProvider, cfg.Provider)
	}
	return nil
}

func (d *settingsDialog) setFocus(i int) {
	d.inputs[d.focused].Blur()
	d.focused = (i + fieldCount) % fieldCount
	d.inputs[d.focused].Focus()
}

func (d *settingsDialog) Update(msg tea.KeyMsg) (dialogResult, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Cancel):
		return dialogCancelled, nil
	case key.Matches(msg, d.keys.Save):
		if err := d.validate(); err != nil {
			d.err = err.Error()
			return dialogOpen, nil
		}
		return dialogSaved, nil
	case key.Matches(msg, d.keys.Next):
		d.setFocus(d.focused + 1)
		return dialogOpen, nil
	case key.Matches(msg, d.keys.Prev):
		d.setFocus(d.focused - 1)
		return dialogOpen, nil
	}

	var cmd tea.Cmd
	d.inputs[d.focused], cmd = d.inputs[d.focused].Update(msg)
	if d.focused == fieldProvider {
		d.inputs[fieldModel].Placeholder = model.Default(strings.TrimSpace(d.inputs[fieldProvider].Value()))
	}
	d.err = ""
	return dialogOpen, cmd
}

func (d *settingsDialog) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("settings"))
	b.WriteString("\n\n")
	for i := range d.inputs {
		b.WriteString(d.inputs[i].View())
		b.WriteString("\n")
	}
	if d.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(d.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter save and close • esc cancel • tab next field"))

	return dialogStyle.Width(max(40, width/2)).Render(b.String())
}

var dialogStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#874BFD")).
	Padding(1, 2)
