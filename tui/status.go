package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/randalmurphal/sculpt/engine"
	"github.com/randalmurphal/sculpt/provider"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	readyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	brandStyle  = lipgloss.NewStyle().Bold(true)
	navStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	footerStyle = lipgloss.NewStyle().Padding(0, 1)
)

// formatElapsed renders a duration for the status bar, or "-" when unknown.
func formatElapsed(d time.Duration, known bool) string {
	if !known {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func formatTokens(n *int) string {
	if n == nil {
		return "- tok"
	}
	return fmt.Sprintf("%d tok", *n)
}

func formatRate(r *float64) string {
	if r == nil {
		return "- tok/s"
	}
	return fmt.Sprintf("%.1f tok/s", *r)
}

// statusLine renders the footer: branding, active model, metrics of the
// last sculpt, and the ready/sculpting indicator.
func statusLine(cfg provider.Config, snap engine.Snapshot, spin string, width int) string {
	left := strings.Join([]string{
		brandStyle.Render("VIBE-SCULPTOR"),
		mutedStyle.Render("MODEL:") + " " + strings.ToUpper(cfg.Provider) + mutedStyle.Render(" / ") + strings.ToUpper(cfg.ResolvedModel()),
	}, mutedStyle.Render(" │ "))

	finished := snap.Status == engine.StatusIdle && snap.ID != "" && snap.Err == nil
	metrics := mutedStyle.Render(strings.Join([]string{
		formatElapsed(snap.Elapsed, finished),
		formatTokens(snap.OutputTokens),
		formatRate(snap.TokensPerSecond),
	}, " · "))

	var indicator string
	if snap.Status == engine.StatusSculpting {
		indicator = busyStyle.Render(spin + " sculpting")
	} else {
		indicator = readyStyle.Render("● ready")
	}
	if snap.Err != nil && snap.Status == engine.StatusIdle {
		indicator = errorStyle.Render("✗ failed") + "  " + indicator
	}

	right := strings.Join([]string{keyStyle.Render("[ settings ]"), metrics, indicator}, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return footerStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func helpLine(k keyMap) string {
	parts := []string{
		keyStyle.Render(k.Send.Help().Key) + mutedStyle.Render(" "+k.Send.Help().Desc),
		keyStyle.Render(k.Focus.Help().Key) + mutedStyle.Render(" "+k.Focus.Help().Desc),
		keyStyle.Render(k.Settings.Help().Key) + mutedStyle.Render(" "+k.Settings.Help().Desc),
		keyStyle.Render(k.Quit.Help().Key) + mutedStyle.Render(" "+k.Quit.Help().Desc),
	}
	return footerStyle.Render(strings.Join(parts, mutedStyle.Render(" • ")))
}

// panelHeader renders a panel title with the inert history arrows.
func panelHeader(title string, width int) string {
	nav := navStyle.Render("[<-] [->]")
	gap := width - lipgloss.Width(title) - lipgloss.Width(nav)
	if gap < 1 {
		gap = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", gap) + nav
}
