// Package tasks provides the Task Center: the active task list, completion
// history, a custom task form, and suggestion fetching from the content
// bridge. Starting a task runs a countdown that auto-completes at zero.
package tasks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenscreen/zenscreen/internal/client"
	"github.com/zenscreen/zenscreen/internal/engine"
	"github.com/zenscreen/zenscreen/internal/session"
	"github.com/zenscreen/zenscreen/internal/theme"
)

// SuggestionsMsg carries generated task ideas back from the content bridge.
type SuggestionsMsg struct {
	Tasks []engine.Task
}

// mode is the Task Center's sub-screen.
type mode int

const (
	modeList mode = iota
	modeHistory
	modeAdd
	modeSuggest
)

// runningTask is an in-flight countdown for a started task.
type runningTask struct {
	taskID    string
	title     string
	remaining time.Duration
}

// KeyMap holds the Task Center key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Start    key.Binding
	Complete key.Binding
	Cancel   key.Binding
	Add      key.Binding
	Suggest  key.Binding
	History  key.Binding
	Submit   key.Binding
	Next     key.Binding
}

// DefaultKeyMap returns the default Task Center key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev task"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next task"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start task"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete now"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel timer"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add custom task"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "suggest tasks"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
	}
}

// Model is the Task Center view model.
type Model struct {
	keys  KeyMap
	store *session.Store
	gen   *client.Generator

	state   *session.State
	mode    mode
	taskIdx int
	running *runningTask
	loading bool

	// Add form inputs: title, duration, reward.
	inputs   []textinput.Model
	focusIdx int

	// Interests input for suggestions.
	interests textinput.Model

	Width int
}

// New creates a Task Center model.
func New(store *session.Store, gen *client.Generator) Model {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 60

	duration := textinput.New()
	duration.Placeholder = "Duration (min)"
	duration.CharLimit = 5

	reward := textinput.New()
	reward.Placeholder = "Reward (min)"
	reward.CharLimit = 7

	interests := textinput.New()
	interests.Placeholder = "Your interests (e.g. chess, hiking)"
	interests.CharLimit = 80

	return Model{
		keys:      DefaultKeyMap(),
		store:     store,
		gen:       gen,
		inputs:    []textinput.Model{title, duration, reward},
		interests: interests,
	}
}

// SetState refreshes the snapshot the view renders from.
func (m *Model) SetState(state *session.State) {
	m.state = state
	if m.taskIdx >= len(state.ActiveTasks) {
		m.taskIdx = 0
	}
}

// Running reports whether a task countdown is in flight.
func (m Model) Running() bool {
	return m.running != nil
}

// Capturing reports whether a text field has focus, so the parent leaves
// every keystroke to this view.
func (m Model) Capturing() bool {
	return m.mode == modeAdd || m.mode == modeSuggest
}

// Tick advances the task countdown by one second, auto-completing the task
// when it reaches zero. The parent calls this once per second.
func (m Model) Tick() (Model, tea.Cmd) {
	if m.running == nil {
		return m, nil
	}
	m.running.remaining -= time.Second
	if m.running.remaining > 0 {
		return m, nil
	}

	id := m.running.taskID
	m.running = nil
	if err := m.store.CompleteTask(id); err != nil {
		m.store.Notify("Could not complete task.")
	}
	return m, nil
}

// Update handles Task Center messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SuggestionsMsg:
		m.loading = false
		m.store.AddGeneratedTasks(msg.Tasks)
		m.mode = modeList
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddForm(msg)
		case modeSuggest:
			return m.updateSuggestForm(msg)
		case modeHistory:
			if key.Matches(msg, m.keys.History) {
				m.mode = modeList
			}
			return m, nil
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if n := len(m.state.ActiveTasks); n > 0 {
			m.taskIdx = (m.taskIdx + 1) % n
		}

	case key.Matches(msg, m.keys.Up):
		if n := len(m.state.ActiveTasks); n > 0 {
			m.taskIdx = (m.taskIdx - 1 + n) % n
		}

	case key.Matches(msg, m.keys.Start):
		if m.running == nil && m.taskIdx < len(m.state.ActiveTasks) {
			task := m.state.ActiveTasks[m.taskIdx]
			m.running = &runningTask{
				taskID:    task.ID,
				title:     task.Title,
				remaining: time.Duration(task.DurationMinutes) * time.Minute,
			}
		}

	case key.Matches(msg, m.keys.Complete):
		if m.taskIdx < len(m.state.ActiveTasks) {
			id := m.state.ActiveTasks[m.taskIdx].ID
			if err := m.store.CompleteTask(id); err != nil {
				m.store.Notify("Could not complete task.")
			}
		}

	case key.Matches(msg, m.keys.Cancel):
		// No reward for an abandoned countdown.
		m.running = nil

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.focusIdx = 0
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.inputs[i].Blur()
		}
		m.inputs[0].Focus()

	case key.Matches(msg, m.keys.Suggest):
		m.mode = modeSuggest
		m.interests.SetValue("")
		m.interests.Focus()

	case key.Matches(msg, m.keys.History):
		m.mode = modeHistory
	}
	return m, nil
}

func (m Model) updateAddForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.inputs[m.focusIdx].Blur()
		m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
		m.inputs[m.focusIdx].Focus()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		title := m.inputs[0].Value()
		duration, _ := strconv.Atoi(m.inputs[1].Value())
		reward, _ := strconv.Atoi(m.inputs[2].Value())
		if err := m.store.AddTask(title, "", duration, reward); err == nil {
			m.mode = modeList
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m Model) updateSuggestForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		interests := m.interests.Value()
		if interests == "" {
			interests = "general wellness"
		}
		m.loading = true
		return m, fetchSuggestions(m.gen, interests)
	}

	var cmd tea.Cmd
	m.interests, cmd = m.interests.Update(msg)
	return m, cmd
}

// View renders the Task Center.
func (m Model) View() string {
	if m.state == nil {
		return theme.StyleDimmed.Render("  Loading...")
	}

	switch m.mode {
	case modeHistory:
		return m.renderHistory()
	case modeAdd:
		return m.renderAddForm()
	case modeSuggest:
		return m.renderSuggestForm()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	lines := []string{theme.StyleHeader.Render("  Task Center")}

	if m.running != nil {
		timer := lipgloss.NewStyle().Foreground(theme.ColorCounting).Bold(true).
			Render(fmt.Sprintf("  ▶ %s  %s remaining  (x: cancel)",
				m.running.title, formatDuration(m.running.remaining)))
		lines = append(lines, timer)
	}

	for i, task := range m.state.ActiveTasks {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.ColorDefault)
		if i == m.taskIdx {
			prefix = "> "
			style = style.Bold(true).Foreground(theme.ColorBright)
		}
		badge := ""
		if task.Generated {
			badge = lipgloss.NewStyle().Foreground(theme.ColorGenerated).Render(" ✦")
		}
		lines = append(lines, prefix+style.Render(
			fmt.Sprintf("%-28s %3dm  +%dm", truncate(task.Title, 28), task.DurationMinutes, task.RewardMinutes))+badge)
	}
	if len(m.state.ActiveTasks) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No active tasks. Press a to add one."))
	}

	lines = append(lines, "",
		theme.StyleDimmed.Render("  enter: start  c: complete  a: add  s: suggest  H: history"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderHistory() string {
	lines := []string{theme.StyleHeader.Render("  Completion History")}

	// Newest first.
	for i := len(m.state.History) - 1; i >= 0; i-- {
		h := m.state.History[i]
		lines = append(lines, "  "+theme.StyleDimmed.Render(h.CompletedAt.Format("Jan 2 15:04"))+
			fmt.Sprintf("  %-28s ", truncate(h.TaskTitle, 28))+
			theme.StyleMinutes.Render(fmt.Sprintf("+%dm", h.RewardMinutes)))
	}
	if len(m.state.History) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  Nothing completed yet."))
	}

	lines = append(lines, "", theme.StyleDimmed.Render("  H: back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderAddForm() string {
	labels := []string{"Title", "Duration", "Reward"}
	lines := []string{theme.StyleHeader.Render("  New Custom Task")}
	for i, input := range m.inputs {
		label := fmt.Sprintf("  %-10s", labels[i])
		if i == m.focusIdx {
			label = theme.StyleSelected.Render(label)
		} else {
			label = theme.StyleDimmed.Render(label)
		}
		lines = append(lines, label+input.View())
	}
	lines = append(lines, "", theme.StyleDimmed.Render("  tab: field  enter: save  esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSuggestForm() string {
	lines := []string{
		theme.StyleHeader.Render("  Suggest Tasks"),
		"  " + m.interests.View(),
	}
	if m.loading {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGenerated).Render("  Generating..."))
	}
	lines = append(lines, "", theme.StyleDimmed.Render("  enter: generate  esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func fetchSuggestions(gen *client.Generator, interests string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return SuggestionsMsg{Tasks: gen.SuggestTasks(ctx, interests)}
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-1] + "…"
	}
	return s
}
