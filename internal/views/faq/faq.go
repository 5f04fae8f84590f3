// Package faq renders the help screen from markdown.
package faq

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/zenscreen/zenscreen/internal/theme"
)

// faqMarkdown is the help content shown on the FAQ screen.
const faqMarkdown = `# ZenScreen Help

## What is a Journey?

A Journey is a guided path designed to help you build healthier digital
habits through a series of mindful tasks and reflections.

## How to Earn Time?

Complete daily quests, participate in clan challenges, and maintain your
streaks to earn **Minutes**. These minutes can be used to unlock access to
your restricted apps.

## How do I manage my profile?

Visit the Avatar Station to view your progress. As you level up, your
avatar evolves. You can customize its appearance using earned minutes.

## What are Clans?

Clans are groups working together toward shared quests. Join one to
contribute your task rewards to weekly goals and earn bonus minutes when
a quest completes.

## Privacy

Your data is stored locally. Nothing leaves your machine unless you
configure a sync service yourself.
`

// KeyMap holds the FAQ key bindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
}

// DefaultKeyMap returns the default FAQ key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
	}
}

// Model is the FAQ view model. The markdown is rendered lazily on first
// view and re-rendered when the width changes.
type Model struct {
	keys KeyMap

	rendered      []string
	renderedWidth int
	offset        int

	Width  int
	Height int
}

// New creates a FAQ model.
func New() Model {
	return Model{keys: DefaultKeyMap()}
}

// Update handles FAQ messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.offset < len(m.rendered)-1 {
			m.offset++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.offset > 0 {
			m.offset--
		}
	}
	return m, nil
}

// View renders the FAQ screen.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	if m.rendered == nil || m.renderedWidth != width {
		m.rendered = renderMarkdown(width)
		m.renderedWidth = width
		m.offset = 0
	}

	height := m.Height
	if height < 10 {
		height = 10
	}

	start := m.offset
	if start > len(m.rendered) {
		start = len(m.rendered)
	}
	end := start + height
	if end > len(m.rendered) {
		end = len(m.rendered)
	}

	body := strings.Join(m.rendered[start:end], "\n")
	return body + "\n" + theme.StyleDimmed.Render("  j/k: scroll")
}

func renderMarkdown(width int) []string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return strings.Split(faqMarkdown, "\n")
	}
	out, err := r.Render(faqMarkdown)
	if err != nil {
		return strings.Split(faqMarkdown, "\n")
	}
	return strings.Split(out, "\n")
}
