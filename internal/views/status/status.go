// Package status provides the top status bar: banked minutes, avatar
// progression, and sync connection state.
package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/zenscreen/zenscreen/internal/theme"
)

// Model holds the status bar state. The parent app refreshes the fields
// from the store snapshot after every update.
type Model struct {
	Bank     int
	Lifetime int
	Level    int
	Stage    int
	ClanName string

	// SyncConfigured is true when a sync service URL was provided.
	SyncConfigured bool
	Connected      bool

	Width int
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	bank := lipgloss.NewStyle().Foreground(theme.BankColor(m.Bank)).Bold(true).
		Render(fmt.Sprintf("⏱ %d min", m.Bank))

	level := lipgloss.NewStyle().Foreground(theme.StageColor(m.Stage)).
		Render(fmt.Sprintf("%s Lv %d · Stage %d", theme.StageGlyph(m.Stage), m.Level, m.Stage))

	lifetime := theme.StyleDimmed.Render(fmt.Sprintf("lifetime %d", m.Lifetime))

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := bank + sep + level + sep + lifetime

	if m.ClanName != "" {
		clan := lipgloss.NewStyle().Foreground(theme.ColorClan).Render("⚑ " + m.ClanName)
		content += sep + clan
	}

	if m.SyncConfigured {
		var connStr string
		if m.Connected {
			connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● synced")
		} else {
			connStr = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("○ offline")
		}
		content += sep + connStr
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
