package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keyboard bindings. View-specific bindings live
// with their views.
type KeyMap struct {
	Dashboard key.Binding
	Tasks     key.Binding
	Avatar    key.Binding
	Clan      key.Binding
	Settings  key.Binding
	FAQ       key.Binding
	NextView  key.Binding
	Escape    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default global key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Tasks: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "tasks"),
		),
		Avatar: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "avatar"),
		),
		Clan: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "clan"),
		),
		Settings: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "settings"),
		),
		FAQ: key.NewBinding(
			key.WithKeys("6", "?"),
			key.WithHelp("?", "help"),
		),
		NextView: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
