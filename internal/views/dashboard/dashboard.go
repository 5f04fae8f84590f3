// Package dashboard provides the home view: the time bank balance, the
// avatar card, and the grid of blocked apps.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenscreen/zenscreen/internal/engine"
	"github.com/zenscreen/zenscreen/internal/session"
	"github.com/zenscreen/zenscreen/internal/theme"
)

// AppSelectedMsg asks the parent to open the spend modal for an app.
type AppSelectedMsg struct {
	AppID string
}

// KeyMap holds the dashboard key bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
}

// DefaultKeyMap returns the default dashboard key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev app"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next app"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open app"),
		),
	}
}

// Model is the dashboard view model.
type Model struct {
	keys   KeyMap
	state  *session.State
	appIdx int

	Width int
}

// New creates a dashboard model.
func New() Model {
	return Model{keys: DefaultKeyMap()}
}

// SetState refreshes the snapshot the view renders from.
func (m *Model) SetState(state *session.State) {
	m.state = state
	if m.appIdx >= len(state.Apps) {
		m.appIdx = 0
	}
}

// Update handles dashboard messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.state == nil {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if n := len(m.state.Apps); n > 0 {
			m.appIdx = (m.appIdx + 1) % n
		}

	case key.Matches(keyMsg, m.keys.Up):
		if n := len(m.state.Apps); n > 0 {
			m.appIdx = (m.appIdx - 1 + n) % n
		}

	case key.Matches(keyMsg, m.keys.Enter):
		if m.appIdx < len(m.state.Apps) {
			id := m.state.Apps[m.appIdx].ID
			return m, func() tea.Msg { return AppSelectedMsg{AppID: id} }
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.state == nil {
		return theme.StyleDimmed.Render("  Loading...")
	}

	sections := []string{
		m.renderBank(),
		m.renderAvatarCard(),
		m.renderAppGrid(),
		theme.StyleDimmed.Render("  j/k: app  enter: open app"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBank() string {
	balance := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.BankColor(m.state.TimeBank)).
		Render(fmt.Sprintf("%d", m.state.TimeBank))

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.StyleDimmed.Render("TIME BANK"),
		balance+theme.StyleDimmed.Render(" minutes"),
		theme.StyleDimmed.Render(fmt.Sprintf("lifetime earned: %d", m.state.LifetimeEarned)),
	)

	return theme.StyleBorder.Padding(0, 2).Render(content)
}

func (m Model) renderAvatarCard() string {
	a := m.state.Avatar
	stageStyle := lipgloss.NewStyle().Foreground(theme.StageColor(a.EvolutionStage))

	name := theme.StyleHeader.Render(a.Name)
	stage := stageStyle.Render(fmt.Sprintf("%s Stage %d", theme.StageGlyph(a.EvolutionStage), a.EvolutionStage))
	level := stageStyle.Render(fmt.Sprintf("Level %d", a.Level))
	xpBar := renderXPBar(a.Experience, engine.XPThreshold(a.Level), 24)

	lines := []string{
		name + "  " + stage,
		level + "  " + xpBar,
	}
	if a.FlavorText != "" {
		lines = append(lines, theme.StyleDimmed.Render(a.FlavorText))
	}

	return theme.StyleBorder.Padding(0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderXPBar draws experience progress toward the next level.
func renderXPBar(xp, threshold, barWidth int) string {
	if threshold <= 0 {
		threshold = 1
	}
	filled := xp * barWidth / threshold
	if filled > barWidth {
		filled = barWidth
	}
	bar := lipgloss.NewStyle().Foreground(theme.ColorXP).Render(strings.Repeat("█", filled))
	bar += lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("░", barWidth-filled))
	return bar + theme.StyleDimmed.Render(fmt.Sprintf(" %d/%d xp", xp, threshold))
}

func (m Model) renderAppGrid() string {
	lines := []string{theme.StyleHeader.Render("  Your Apps")}

	for i, app := range m.state.Apps {
		prefix := "  "
		if i == m.appIdx {
			prefix = "> "
		}
		lines = append(lines, prefix+m.renderAppLine(app, i == m.appIdx))
	}
	if len(m.state.Apps) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No apps configured"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderAppLine(app engine.App, selected bool) string {
	active := m.state.ActiveUnlock != nil && m.state.ActiveUnlock.AppID == app.ID
	glyph := theme.AppGlyph(app.Blocked, active)

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.Color)).Bold(selected)
	name := nameStyle.Render(fmt.Sprintf("%-14s", app.Name))

	var stateStr string
	switch {
	case active:
		stateStr = lipgloss.NewStyle().Foreground(theme.ColorCounting).Render("unlocked")
	case app.Blocked:
		stateStr = lipgloss.NewStyle().Foreground(theme.ColorBlocked).Render("blocked")
	default:
		stateStr = lipgloss.NewStyle().Foreground(theme.ColorUnlocked).Render("free")
	}

	return glyph + " " + name + " " + stateStr
}
