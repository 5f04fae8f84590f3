// Package avatar provides the Avatar Station: the cosmetic shop laid out as
// one column per equip slot, plus the developer level-up cheat.
package avatar

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

// KeyMap holds the Avatar Station key bindings.
type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Unequip key.Binding
	Cheat   key.Binding
}

// DefaultKeyMap returns the default Avatar Station key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev slot"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next slot"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev item"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next item"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "buy / equip"),
		),
		Unequip: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unequip slot"),
		),
		Cheat: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "force level up"),
		),
	}
}

// Model is the Avatar Station view model.
type Model struct {
	keys  KeyMap
	store *session.Store

	state *session.State

	// slotIdx is the focused column (index into engine.SlotTypes).
	slotIdx int

	// itemIdxPerSlot tracks the focused row within each slot column.
	itemIdxPerSlot [6]int

	Width int
}

// New creates an Avatar Station model.
func New(store *session.Store) Model {
	return Model{
		keys:  DefaultKeyMap(),
		store: store,
	}
}

// SetState refreshes the snapshot the view renders from.
func (m *Model) SetState(state *session.State) {
	m.state = state
}

// Update handles Avatar Station messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.state == nil {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		if m.slotIdx > 0 {
			m.slotIdx--
		}

	case key.Matches(keyMsg, m.keys.Right):
		if m.slotIdx < len(engine.SlotTypes)-1 {
			m.slotIdx++
		}

	case key.Matches(keyMsg, m.keys.Up):
		items := m.store.Catalog().ItemsForSlot(engine.SlotTypes[m.slotIdx])
		if len(items) > 0 {
			m.itemIdxPerSlot[m.slotIdx] = (m.itemIdxPerSlot[m.slotIdx] - 1 + len(items)) % len(items)
		}

	case key.Matches(keyMsg, m.keys.Down):
		items := m.store.Catalog().ItemsForSlot(engine.SlotTypes[m.slotIdx])
		if len(items) > 0 {
			m.itemIdxPerSlot[m.slotIdx] = (m.itemIdxPerSlot[m.slotIdx] + 1) % len(items)
		}

	case key.Matches(keyMsg, m.keys.Select):
		slot := engine.SlotTypes[m.slotIdx]
		items := m.store.Catalog().ItemsForSlot(slot)
		idx := m.itemIdxPerSlot[m.slotIdx]
		if idx >= len(items) {
			break
		}
		item := items[idx]
		if m.state.Avatar.Owns(item.ID) {
			if err := m.store.EquipCosmetic(slot, item.ID); err != nil {
				m.store.Notify("Cannot equip " + item.Name + ".")
			}
		} else {
			// Rejections already queue their own toast.
			_ = m.store.PurchaseCosmetic(item.ID)
		}

	case key.Matches(keyMsg, m.keys.Unequip):
		slot := engine.SlotTypes[m.slotIdx]
		if m.state.Avatar.EquippedCosmetics[slot] != "" {
			_ = m.store.EquipCosmetic(slot, "")
		}

	case key.Matches(keyMsg, m.keys.Cheat):
		m.store.CheatXP()
	}
	return m, nil
}

// View renders the Avatar Station.
func (m Model) View() string {
	if m.state == nil {
		return theme.StyleDimmed.Render("  Loading...")
	}

	sections := []string{
		m.renderHeader(),
		m.renderColumns(),
		theme.StyleDimmed.Render("  h/l: slot  j/k: item  enter: buy/equip  u: unequip  X: force level up"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	a := m.state.Avatar
	stageStyle := lipgloss.NewStyle().Foreground(theme.StageColor(a.EvolutionStage)).Bold(true)

	return theme.StyleBorder.Padding(0, 2).Render(
		stageStyle.Render(fmt.Sprintf("%s %s", theme.StageGlyph(a.EvolutionStage), a.Name)) +
			theme.StyleDimmed.Render(fmt.Sprintf("  Lv %d · Stage %d · ", a.Level, a.EvolutionStage)) +
			theme.StyleMinutes.Render(fmt.Sprintf("%d min", m.state.TimeBank)))
}

func (m Model) renderColumns() string {
	const colWidth = 20
	cols := make([]string, len(engine.SlotTypes))
	for i, slot := range engine.SlotTypes {
		cols[i] = m.renderColumn(i, slot, colWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderColumn(slotIdx int, slot engine.SlotType, colWidth int) string {
	focused := slotIdx == m.slotIdx
	items := m.store.Catalog().ItemsForSlot(slot)
	equippedID := m.state.Avatar.EquippedCosmetics[slot]
	selectedRow := m.itemIdxPerSlot[slotIdx]

	accentColor := theme.ColorBorder
	if focused {
		accentColor = theme.ColorBright
	}

	header := lipgloss.NewStyle().
		Bold(focused).
		Foreground(accentColor).
		Width(colWidth).
		Align(lipgloss.Center).
		Render(strings.ToUpper(string(slot)))

	sep := lipgloss.NewStyle().
		Foreground(accentColor).
		Render(strings.Repeat("─", colWidth))

	var rows []string
	for i, item := range items {
		rows = append(rows, m.renderItemRow(item, focused && i == selectedRow, item.ID == equippedID, colWidth))
	}
	if len(items) == 0 {
		rows = append(rows, theme.StyleDimmed.Width(colWidth).Render("  (nothing here)"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{header, sep}, rows...)...)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Width(colWidth).
		Render(content)
}

func (m Model) renderItemRow(item engine.CosmeticItem, isSelected, isEquipped bool, colWidth int) string {
	owned := m.state.Avatar.Owns(item.ID)
	lockedByLevel := m.state.Avatar.Level < item.MinLevel

	var prefix string
	switch {
	case isEquipped:
		prefix = "▶ "
	case isSelected:
		prefix = "> "
	default:
		prefix = "  "
	}

	var suffix string
	switch {
	case isEquipped:
		suffix = " ✓"
	case owned:
		suffix = " ·"
	case lockedByLevel:
		suffix = fmt.Sprintf(" Lv%d", item.MinLevel)
	default:
		suffix = fmt.Sprintf(" %dm", item.Cost)
	}

	name := item.Name
	maxLen := colWidth - len(prefix) - len(suffix) - 1
	if maxLen < 1 {
		maxLen = 1
	}
	if len(name) > maxLen {
		name = name[:maxLen-1] + "…"
	}

	var color lipgloss.Color
	switch {
	case isEquipped:
		color = theme.ColorHealthy
	case isSelected:
		color = theme.ColorBright
	case lockedByLevel && !owned:
		color = theme.ColorBorder
	case owned:
		color = theme.ColorDefault
	default:
		color = theme.ColorMinutes
	}

	return lipgloss.NewStyle().
		Bold(isSelected).
		Foreground(color).
		Width(colWidth).
		Render(prefix + name + suffix)
}
