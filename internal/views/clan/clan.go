// Package clan provides the Clan Hub: browsing and founding clans, and the
// quest board, roster, feed, and settings tabs once the user is in one.
package clan

import (
	"context"
	"fmt"
	"strings"
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

// LoreMsg carries generated quest lore for the clan's first quest.
type LoreMsg struct {
	Lore string
}

// tab is a Clan Hub section while in a clan.
type tab int

const (
	tabQuests tab = iota
	tabRoster
	tabFeed
	tabSettings
)

var tabNames = []string{"Quests", "Roster", "Feed", "Settings"}

// KeyMap holds the Clan Hub key bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Tab     key.Binding
	Select  key.Binding
	Create  key.Binding
	Leave   key.Binding
	Promote key.Binding
	Demote  key.Binding
	Crown   key.Binding
	Kick    key.Binding
	Rename  key.Binding
	Open    key.Binding
}

// DefaultKeyMap returns the default Clan Hub key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next section"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "join / confirm"),
		),
		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new clan"),
		),
		Leave: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "leave clan"),
		),
		Promote: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "promote to admin"),
		),
		Demote: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "demote to member"),
		),
		Crown: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "make owner"),
		),
		Kick: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove member"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename clan"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle open"),
		),
	}
}

// Model is the Clan Hub view model.
type Model struct {
	keys  KeyMap
	store *session.Store
	gen   *client.Generator

	state *session.State

	// Browse state (no clan).
	browseIdx int
	creating  bool
	nameInput textinput.Model

	// In-clan state.
	activeTab tab
	rowIdx    int
	renaming  bool

	Width int
}

// New creates a Clan Hub model.
func New(store *session.Store, gen *client.Generator) Model {
	name := textinput.New()
	name.Placeholder = "Clan name"
	name.CharLimit = 40
	return Model{
		keys:      DefaultKeyMap(),
		store:     store,
		gen:       gen,
		nameInput: name,
	}
}

// SetState refreshes the snapshot the view renders from.
func (m *Model) SetState(state *session.State) {
	m.state = state
}

// Capturing reports whether a text field has focus.
func (m Model) Capturing() bool {
	return m.creating || m.renaming
}

// Update handles Clan Hub messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoreMsg:
		// Freshen the founding quest's description with the generated lore.
		if clan := m.store.State().Clan; clan != nil && len(clan.Quests) > 0 {
			quest := clan.Quests[0]
			quest.Description = msg.Lore
			_ = m.store.UpsertClanQuest(quest)
		}
		return m, nil

	case tea.KeyMsg:
		if m.state == nil {
			return m, nil
		}
		if m.creating || m.renaming {
			return m.updateNameForm(msg)
		}
		if m.state.Clan == nil {
			return m.updateBrowse(msg)
		}
		return m.updateClan(msg)
	}
	return m, nil
}

func (m Model) updateNameForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.creating = false
		m.renaming = false
		return m, nil

	case key.Matches(msg, m.keys.Select):
		name := strings.TrimSpace(m.nameInput.Value())
		if m.renaming {
			m.renaming = false
			_ = m.store.RenameClan(name)
			return m, nil
		}
		m.creating = false
		if err := m.store.CreateClan(name); err != nil {
			return m, nil
		}
		return m, fetchLore(m.gen, name)
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (Model, tea.Cmd) {
	catalog := engine.ClanCatalog()

	switch {
	case key.Matches(msg, m.keys.Down):
		if len(catalog) > 0 {
			m.browseIdx = (m.browseIdx + 1) % len(catalog)
		}

	case key.Matches(msg, m.keys.Up):
		if len(catalog) > 0 {
			m.browseIdx = (m.browseIdx - 1 + len(catalog)) % len(catalog)
		}

	case key.Matches(msg, m.keys.Select):
		if m.browseIdx < len(catalog) {
			m.store.JoinClan(catalog[m.browseIdx].ID)
		}

	case key.Matches(msg, m.keys.Create):
		m.creating = true
		m.nameInput.SetValue("")
		m.nameInput.Focus()
	}
	return m, nil
}

func (m Model) updateClan(msg tea.KeyMsg) (Model, tea.Cmd) {
	clan := m.state.Clan

	switch {
	case key.Matches(msg, m.keys.Tab):
		m.activeTab = (m.activeTab + 1) % tab(len(tabNames))
		m.rowIdx = 0

	case key.Matches(msg, m.keys.Down):
		if n := m.rowCount(); n > 0 {
			m.rowIdx = (m.rowIdx + 1) % n
		}

	case key.Matches(msg, m.keys.Up):
		if n := m.rowCount(); n > 0 {
			m.rowIdx = (m.rowIdx - 1 + n) % n
		}

	case key.Matches(msg, m.keys.Leave):
		m.store.LeaveClan()
		m.activeTab = tabQuests
		m.rowIdx = 0

	case key.Matches(msg, m.keys.Promote):
		if member, ok := m.selectedMember(); ok {
			_ = m.store.ChangeClanRole(member.ID, engine.RoleAdmin)
		}

	case key.Matches(msg, m.keys.Demote):
		if member, ok := m.selectedMember(); ok {
			_ = m.store.ChangeClanRole(member.ID, engine.RoleMember)
		}

	case key.Matches(msg, m.keys.Crown):
		if member, ok := m.selectedMember(); ok {
			_ = m.store.ChangeClanRole(member.ID, engine.RoleOwner)
		}

	case key.Matches(msg, m.keys.Kick):
		if member, ok := m.selectedMember(); ok && member.ID != session.LocalUserID {
			_ = m.store.RemoveClanMember(member.ID)
		}

	case key.Matches(msg, m.keys.Rename):
		if m.activeTab == tabSettings {
			m.renaming = true
			m.nameInput.SetValue(clan.Name)
			m.nameInput.Focus()
		}

	case key.Matches(msg, m.keys.Open):
		if m.activeTab == tabSettings {
			_ = m.store.SetClanOpen(!clan.IsOpen)
		}
	}
	return m, nil
}

func (m Model) rowCount() int {
	clan := m.state.Clan
	switch m.activeTab {
	case tabRoster:
		return len(clan.MemberList)
	case tabQuests:
		return len(clan.Quests)
	default:
		return 0
	}
}

func (m Model) selectedMember() (engine.ClanMember, bool) {
	if m.activeTab != tabRoster {
		return engine.ClanMember{}, false
	}
	roster := m.state.Clan.MemberList
	if m.rowIdx >= len(roster) {
		return engine.ClanMember{}, false
	}
	return roster[m.rowIdx], true
}

// View renders the Clan Hub.
func (m Model) View() string {
	if m.state == nil {
		return theme.StyleDimmed.Render("  Loading...")
	}
	if m.creating || m.renaming {
		return m.renderNameForm()
	}
	if m.state.Clan == nil {
		return m.renderBrowse()
	}
	return m.renderClan()
}

func (m Model) renderNameForm() string {
	title := "  Found a Clan"
	if m.renaming {
		title = "  Rename Clan"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleHeader.Render(title),
		"  "+m.nameInput.View(),
		"",
		theme.StyleDimmed.Render("  enter: confirm  esc: back"),
	)
}

func (m Model) renderBrowse() string {
	lines := []string{theme.StyleHeader.Render("  Find Your Clan")}

	for i, c := range engine.ClanCatalog() {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.ColorDefault)
		if i == m.browseIdx {
			prefix = "> "
			style = style.Bold(true).Foreground(theme.ColorBright)
		}
		openStr := theme.StyleDimmed.Render("invite only")
		if c.IsOpen {
			openStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("open")
		}
		lines = append(lines, prefix+style.Render(
			fmt.Sprintf("%-18s %3d members  ", c.Name, c.Members))+openStr+
			theme.StyleDimmed.Render("  "+c.Description))
	}

	lines = append(lines, "",
		theme.StyleDimmed.Render("  j/k: clan  enter: join  n: found your own"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderClan() string {
	clan := m.state.Clan

	header := theme.StyleHeader.Render("  ⚑ "+clan.Name) +
		theme.StyleDimmed.Render(fmt.Sprintf("  %d members · your contribution %d", clan.Members, clan.UserContribution))

	var tabRow []string
	for i, name := range tabNames {
		style := theme.StyleDimmed
		if tab(i) == m.activeTab {
			style = theme.StyleSelected
		}
		tabRow = append(tabRow, style.Render(name))
	}
	tabs := "  " + strings.Join(tabRow, lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | "))

	var body string
	switch m.activeTab {
	case tabRoster:
		body = m.renderRoster()
	case tabFeed:
		body = m.renderFeed()
	case tabSettings:
		body = m.renderSettings()
	default:
		body = m.renderQuests()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, "", body)
}

func (m Model) renderQuests() string {
	clan := m.state.Clan
	var lines []string

	for i, q := range clan.Quests {
		prefix := "  "
		if i == m.rowIdx {
			prefix = "> "
		}
		statusStyle := lipgloss.NewStyle().Foreground(theme.QuestColor(string(q.Status)))
		lines = append(lines,
			prefix+theme.StyleHeader.Render(q.Title)+"  "+statusStyle.Render(string(q.Status)),
			"    "+theme.StyleDimmed.Render(q.Description),
			"    "+renderQuestBar(q, 30)+theme.StyleMinutes.Render(fmt.Sprintf("  +%dm", q.RewardMinutes)),
		)
	}
	if len(clan.Quests) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No quests yet."))
	}

	lines = append(lines, "", theme.StyleDimmed.Render("  tab: section  L: leave clan"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderQuestBar(q engine.ClanQuest, barWidth int) string {
	target := q.Target
	if target <= 0 {
		target = 1
	}
	filled := q.Progress * barWidth / target
	if filled > barWidth {
		filled = barWidth
	}
	color := theme.QuestColor(string(q.Status))
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	bar += lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("░", barWidth-filled))
	return bar + theme.StyleDimmed.Render(fmt.Sprintf(" %d/%d", q.Progress, q.Target))
}

func (m Model) renderRoster() string {
	var lines []string
	for i, member := range m.state.Clan.MemberList {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.ColorDefault)
		if i == m.rowIdx {
			prefix = "> "
			style = style.Bold(true).Foreground(theme.ColorBright)
		}
		you := ""
		if member.ID == session.LocalUserID {
			you = theme.StyleDimmed.Render(" (you)")
		}
		lines = append(lines, prefix+theme.RoleBadge(string(member.Role))+" "+
			style.Render(fmt.Sprintf("%-16s", member.Name))+
			theme.StyleDimmed.Render(string(member.Status))+you)
	}

	lines = append(lines, "",
		theme.StyleDimmed.Render("  p: admin  d: member  O: owner  x: remove"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderFeed() string {
	var lines []string
	for _, item := range m.state.Clan.Feed {
		lines = append(lines, "  "+
			lipgloss.NewStyle().Foreground(theme.ColorClan).Render(item.MemberName)+" "+
			item.Action+"  "+theme.StyleDimmed.Render(item.Timestamp))
	}
	if len(lines) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  Nothing happening yet."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSettings() string {
	clan := m.state.Clan

	openStr := lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("open")
	if !clan.IsOpen {
		openStr = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("invite only")
	}

	lines := []string{
		"  Name:        " + theme.StyleHeader.Render(clan.Name),
		"  Visibility:  " + openStr,
		"  Invite code: " + theme.StyleDimmed.Render(clan.InviteCode),
		"",
		theme.StyleDimmed.Render("  r: rename  o: toggle open  L: leave clan"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func fetchLore(gen *client.Generator, clanName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return LoreMsg{Lore: gen.ClanLore(ctx, clanName)}
	}
}
