// Package activesession provides the full-screen countdown shown while an
// unlock session runs. The progress bar eases toward the elapsed fraction
// with a spring so the once-per-second countdown still moves smoothly.
package activesession

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenscreen/zenscreen/internal/engine"
	"github.com/zenscreen/zenscreen/internal/session"
	"github.com/zenscreen/zenscreen/internal/theme"
)

const animFPS = 10

// EndRequestedMsg asks the parent to end the session early. No refund.
type EndRequestedMsg struct{}

// animTickMsg drives the spring animation.
type animTickMsg time.Time

// KeyMap holds the active session key bindings.
type KeyMap struct {
	End key.Binding
}

// DefaultKeyMap returns the default active session key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		End: key.NewBinding(
			key.WithKeys("e", "esc"),
			key.WithHelp("e", "end session"),
		),
	}
}

// Model is the active session view model.
type Model struct {
	keys KeyMap

	app    engine.App
	unlock session.Unlock

	spring harmonica.Spring
	pos    float64
	vel    float64

	Width  int
	Height int
}

// New creates an active session model for the given unlock.
func New(app engine.App, unlock session.Unlock) Model {
	return Model{
		keys:   DefaultKeyMap(),
		app:    app,
		unlock: unlock,
		spring: harmonica.NewSpring(harmonica.FPS(animFPS), 4.0, 0.9),
	}
}

// Init starts the animation ticker.
func (m Model) Init() tea.Cmd {
	return animTick()
}

func animTick() tea.Cmd {
	return tea.Tick(time.Second/animFPS, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles active session messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case animTickMsg:
		m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.elapsedFraction(time.Now()))
		return m, animTick()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.End) {
			return m, func() tea.Msg { return EndRequestedMsg{} }
		}
	}
	return m, nil
}

// elapsedFraction returns how much of the session has passed, in [0, 1].
func (m Model) elapsedFraction(now time.Time) float64 {
	total := time.Duration(m.unlock.DurationMinutes) * time.Minute
	if total <= 0 {
		return 1
	}
	f := float64(now.Sub(m.unlock.StartTime)) / float64(total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// View renders the countdown screen.
func (m Model) View() string {
	remaining := m.unlock.Remaining(time.Now())

	appName := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.app.Color)).
		Render(m.app.Name)

	clock := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorCounting).
		Render(formatClock(remaining))

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.StyleDimmed.Render("UNLOCKED"),
		appName,
		"",
		clock,
		"",
		m.renderProgress(40),
		"",
		theme.StyleDimmed.Render("e: end session early (no refund)"),
	)

	box := theme.StyleBorder.Padding(1, 4).Render(content)

	if m.Width > 0 && m.Height > 0 {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m Model) renderProgress(barWidth int) string {
	filled := int(m.pos * float64(barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := lipgloss.NewStyle().Foreground(theme.ColorCounting).Render(strings.Repeat("█", filled))
	bar += lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("░", barWidth-filled))
	return bar
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
