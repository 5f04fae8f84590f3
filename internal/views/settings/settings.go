// Package settings provides the settings view: per-app block toggles,
// avatar rename, and the full progress reset behind a confirm step.
package settings

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenscreen/zenscreen/internal/session"
	"github.com/zenscreen/zenscreen/internal/theme"
)

// KeyMap holds the settings key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Rename key.Binding
	Reset  key.Binding
}

// DefaultKeyMap returns the default settings key bindings.
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
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle block"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename avatar"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset progress"),
		),
	}
}

// Model is the settings view model.
type Model struct {
	keys  KeyMap
	store *session.Store

	state      *session.State
	appIdx     int
	confirming bool
	renaming   bool
	nameInput  textinput.Model

	Width int
}

// New creates a settings model.
func New(store *session.Store) Model {
	name := textinput.New()
	name.Placeholder = "Avatar name"
	name.CharLimit = 30
	return Model{
		keys:      DefaultKeyMap(),
		store:     store,
		nameInput: name,
	}
}

// SetState refreshes the snapshot the view renders from.
func (m *Model) SetState(state *session.State) {
	m.state = state
	if m.appIdx >= len(state.Apps) {
		m.appIdx = 0
	}
}

// Capturing reports whether a text field has focus.
func (m Model) Capturing() bool {
	return m.renaming
}

// Update handles settings messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.state == nil {
		return m, nil
	}

	if m.renaming {
		switch {
		case keyMsg.Type == tea.KeyEsc:
			m.renaming = false
		case keyMsg.Type == tea.KeyEnter:
			m.store.RenameAvatar(m.nameInput.Value())
			m.renaming = false
		default:
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(keyMsg)
			return m, cmd
		}
		return m, nil
	}

	if m.confirming {
		switch keyMsg.String() {
		case "y":
			m.store.ResetProgress()
		}
		m.confirming = false
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

	case key.Matches(keyMsg, m.keys.Toggle):
		if m.appIdx < len(m.state.Apps) {
			m.store.ToggleAppBlock(m.state.Apps[m.appIdx].ID)
		}

	case key.Matches(keyMsg, m.keys.Rename):
		m.renaming = true
		m.nameInput.SetValue(m.state.Avatar.Name)
		m.nameInput.Focus()

	case key.Matches(keyMsg, m.keys.Reset):
		m.confirming = true
	}
	return m, nil
}

// View renders the settings screen.
func (m Model) View() string {
	if m.state == nil {
		return theme.StyleDimmed.Render("  Loading...")
	}

	if m.renaming {
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.StyleHeader.Render("  Rename Avatar"),
			"  "+m.nameInput.View(),
			"",
			theme.StyleDimmed.Render("  enter: confirm  esc: back"),
		)
	}

	lines := []string{theme.StyleHeader.Render("  Blocked Apps")}
	for i, app := range m.state.Apps {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.ColorDefault)
		if i == m.appIdx {
			prefix = "> "
			style = style.Bold(true).Foreground(theme.ColorBright)
		}
		var toggle string
		if app.Blocked {
			toggle = lipgloss.NewStyle().Foreground(theme.ColorBlocked).Render("[blocked]")
		} else {
			toggle = lipgloss.NewStyle().Foreground(theme.ColorUnlocked).Render("[free]   ")
		}
		lines = append(lines, prefix+toggle+" "+style.Render(app.Name))
	}

	lines = append(lines, "",
		theme.StyleDimmed.Render(fmt.Sprintf("  Avatar: %s", m.state.Avatar.Name)),
		"",
		theme.StyleDimmed.Render("  enter: toggle  r: rename avatar  R: reset progress"))

	if m.confirming {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(theme.ColorDanger).Bold(true).
				Render("  Reset ALL progress? This cannot be undone. (y/n)"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
