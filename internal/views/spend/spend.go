// Package spend provides the unlock modal shown when the user opens a
// blocked app: pay banked minutes for timed access, or take a quick task
// instead and leave the balance alone.
package spend

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenscreen/zenscreen/internal/engine"
	"github.com/zenscreen/zenscreen/internal/theme"
)

// UnlockOptions are the purchasable session lengths, in minutes.
var UnlockOptions = []int{5, 15, 30, 60}

// UnlockChosenMsg asks the parent to spend minutes on the selected app.
type UnlockChosenMsg struct {
	Minutes int
}

// QuickTaskChosenMsg asks the parent to add the alternative task instead.
type QuickTaskChosenMsg struct {
	Task engine.Task
}

// section identifies which half of the modal has focus.
type section int

const (
	sectionUnlock section = iota
	sectionTasks
)

// KeyMap holds the spend modal key bindings.
type KeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
}

// DefaultKeyMap returns the default spend modal key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev option"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next option"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "section up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "section down"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
	}
}

// Model is the spend modal model.
type Model struct {
	keys KeyMap

	app       engine.App
	bank      int
	quick     []engine.Task
	focus     section
	unlockIdx int
	taskIdx   int
}

// New creates a spend modal for the given app and balance.
func New(app engine.App, bank int) Model {
	return Model{
		keys:  DefaultKeyMap(),
		app:   app,
		bank:  bank,
		quick: engine.QuickTasks(),
	}
}

// Update handles spend modal messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		m.focus = sectionTasks

	case key.Matches(keyMsg, m.keys.Up):
		m.focus = sectionUnlock

	case key.Matches(keyMsg, m.keys.Right):
		if m.focus == sectionUnlock {
			m.unlockIdx = (m.unlockIdx + 1) % len(UnlockOptions)
		} else if n := len(m.quick); n > 0 {
			m.taskIdx = (m.taskIdx + 1) % n
		}

	case key.Matches(keyMsg, m.keys.Left):
		if m.focus == sectionUnlock {
			m.unlockIdx = (m.unlockIdx - 1 + len(UnlockOptions)) % len(UnlockOptions)
		} else if n := len(m.quick); n > 0 {
			m.taskIdx = (m.taskIdx - 1 + n) % n
		}

	case key.Matches(keyMsg, m.keys.Choose):
		if m.focus == sectionUnlock {
			minutes := UnlockOptions[m.unlockIdx]
			if m.bank >= minutes {
				return m, func() tea.Msg { return UnlockChosenMsg{Minutes: minutes} }
			}
		} else if m.taskIdx < len(m.quick) {
			task := m.quick[m.taskIdx]
			return m, func() tea.Msg { return QuickTaskChosenMsg{Task: task} }
		}
	}
	return m, nil
}

// View renders the spend modal.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.app.Color)).
		Render(m.app.Name)

	header := theme.StyleHeader.Render("This app is blocked") + "  " + title
	bank := theme.StyleDimmed.Render(fmt.Sprintf("Balance: %d minutes", m.bank))

	sections := []string{
		header,
		bank,
		"",
		m.renderUnlockRow(),
		"",
		m.renderTaskRows(),
		"",
		theme.StyleDimmed.Render("h/l: option  j/k: section  enter: choose  esc: close"),
	}

	return theme.StyleBorder.Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderUnlockRow() string {
	label := "Unlock for..."
	if m.focus == sectionUnlock {
		label = theme.StyleHeader.Render(label)
	} else {
		label = theme.StyleDimmed.Render(label)
	}

	cells := make([]string, 0, len(UnlockOptions))
	for i, minutes := range UnlockOptions {
		affordable := m.bank >= minutes
		selected := m.focus == sectionUnlock && i == m.unlockIdx

		var color lipgloss.Color
		switch {
		case !affordable:
			color = theme.ColorBorder
		case selected:
			color = theme.ColorBright
		default:
			color = theme.ColorDefault
		}
		cell := lipgloss.NewStyle().
			Bold(selected).
			Foreground(color).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Render(fmt.Sprintf("%dm", minutes))
		cells = append(cells, cell)
	}

	return lipgloss.JoinVertical(lipgloss.Left, label,
		lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

func (m Model) renderTaskRows() string {
	label := "...or earn instead"
	if m.focus == sectionTasks {
		label = theme.StyleHeader.Render(label)
	} else {
		label = theme.StyleDimmed.Render(label)
	}

	lines := []string{label}
	for i, task := range m.quick {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.ColorDefault)
		if m.focus == sectionTasks && i == m.taskIdx {
			prefix = "> "
			style = style.Bold(true).Foreground(theme.ColorBright)
		}
		lines = append(lines, prefix+style.Render(
			fmt.Sprintf("%s  %dm · +%dm reward", task.Title, task.DurationMinutes, task.RewardMinutes)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
