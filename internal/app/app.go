// Package app wires the views, the session store, and the external bridges
// into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenscreen/zenscreen/internal/client"
	"github.com/zenscreen/zenscreen/internal/session"
	"github.com/zenscreen/zenscreen/internal/theme"
	"github.com/zenscreen/zenscreen/internal/views/activesession"
	"github.com/zenscreen/zenscreen/internal/views/avatar"
	"github.com/zenscreen/zenscreen/internal/views/clan"
	"github.com/zenscreen/zenscreen/internal/views/dashboard"
	"github.com/zenscreen/zenscreen/internal/views/faq"
	"github.com/zenscreen/zenscreen/internal/views/settings"
	"github.com/zenscreen/zenscreen/internal/views/spend"
	"github.com/zenscreen/zenscreen/internal/views/status"
	"github.com/zenscreen/zenscreen/internal/views/tasks"
)

// toastTTL is how long a toast stays on screen before it auto-dismisses.
const toastTTL = 3 * time.Second

// View identifies a main screen.
type View int

const (
	ViewDashboard View = iota
	ViewTasks
	ViewAvatar
	ViewClan
	ViewSettings
	ViewFAQ
	viewCount
)

var viewTitles = map[View]string{
	ViewDashboard: "Dashboard",
	ViewTasks:     "Tasks",
	ViewAvatar:    "Avatar",
	ViewClan:      "Clan",
	ViewSettings:  "Settings",
	ViewFAQ:       "Help",
}

// tickMsg drives the once-per-second clock: task countdowns and unlock
// expiry both hang off it.
type tickMsg time.Time

// toastDismissMsg hides the visible toast after its TTL.
type toastDismissMsg struct{}

// toastAdvanceMsg surfaces the next queued toast after the exit gap.
type toastAdvanceMsg struct{}

// evolutionMsg carries generated flavor text for a new evolution stage.
type evolutionMsg struct {
	Text string
}

// Model is the root Bubble Tea model.
type Model struct {
	store *session.Store
	watch *client.WatchClient // may be nil
	gen   *client.Generator

	keys   KeyMap
	width  int
	height int

	active View

	statusBar status.Model
	dashboard dashboard.Model
	taskView  tasks.Model
	avatarSta avatar.Model
	clanHub   clan.Model
	settingsV settings.Model
	faqView   faq.Model

	// Overlays. The spend modal floats over the active view; the unlock
	// session replaces the whole screen while it runs.
	spendModal *spend.Model
	activeSess *activesession.Model

	connected    bool
	toastShowing bool
	lastStage    int
}

// New creates the root model. watch may be nil when no sync service is
// configured.
func New(store *session.Store, watch *client.WatchClient, gen *client.Generator) Model {
	m := Model{
		store:     store,
		watch:     watch,
		gen:       gen,
		keys:      DefaultKeyMap(),
		statusBar: status.New(),
		dashboard: dashboard.New(),
		taskView:  tasks.New(store, gen),
		avatarSta: avatar.New(store),
		clanHub:   clan.New(store, gen),
		settingsV: settings.New(store),
		faqView:   faq.New(),
	}
	m.statusBar.SyncConfigured = watch != nil
	m.refresh()
	return m
}

// viewUpdaters routes messages to the active view.
var viewUpdaters = map[View]func(Model, tea.Msg) (Model, tea.Cmd){
	ViewDashboard: func(m Model, msg tea.Msg) (Model, tea.Cmd) {
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd
	},
	ViewTasks: func(m Model, msg tea.Msg) (Model, tea.Cmd) {
		var cmd tea.Cmd
		m.taskView, cmd = m.taskView.Update(msg)
		return m, cmd
	},
	ViewAvatar: func(m Model, msg tea.Msg) (Model, tea.Cmd) {
		var cmd tea.Cmd
		m.avatarSta, cmd = m.avatarSta.Update(msg)
		return m, cmd
	},
	ViewClan: func(m Model, msg tea.Msg) (Model, tea.Cmd) {
		var cmd tea.Cmd
		m.clanHub, cmd = m.clanHub.Update(msg)
		return m, cmd
	},
	ViewSettings: func(m Model, msg tea.Msg) (Model, tea.Cmd) {
		var cmd tea.Cmd
		m.settingsV, cmd = m.settingsV.Update(msg)
		return m, cmd
	},
	ViewFAQ: func(m Model, msg tea.Msg) (Model, tea.Cmd) {
		var cmd tea.Cmd
		m.faqView, cmd = m.faqView.Update(msg)
		return m, cmd
	},
}

// viewRenderers renders the body of each main screen.
var viewRenderers = map[View]func(Model) string{
	ViewDashboard: func(m Model) string { return m.dashboard.View() },
	ViewTasks:     func(m Model) string { return m.taskView.View() },
	ViewAvatar:    func(m Model) string { return m.avatarSta.View() },
	ViewClan:      func(m Model) string { return m.clanHub.View() },
	ViewSettings:  func(m Model) string { return m.settingsV.View() },
	ViewFAQ:       func(m Model) string { return m.faqView.View() },
}

// Init starts the clock and, when configured, the document watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.watch != nil {
		cmds = append(cmds, m.watch.Listen(context.Background()))
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		var cmd tea.Cmd
		m.taskView, cmd = m.taskView.Tick()
		if m.store.ExpireUnlock(time.Time(msg)) {
			if m.activeSess != nil {
				m.store.Notify("Time's up. The app is blocked again.")
			}
			m.activeSess = nil
		}
		return m, tea.Batch(cmd, tick(), m.refresh())

	case toastDismissMsg:
		m.store.DismissNotification()
		m.toastShowing = false
		return m, tea.Tick(session.NotifyAdvanceDelay, func(time.Time) tea.Msg {
			return toastAdvanceMsg{}
		})

	case toastAdvanceMsg:
		m.store.AdvanceNotification()
		return m, m.refresh()

	case evolutionMsg:
		m.store.SetAvatarFlavor(msg.Text)
		return m, m.refresh()

	case client.WatchConnectedMsg:
		m.connected = true
		m.statusBar.Connected = true
		return m, m.watch.ReadLoop(context.Background())

	case client.WatchDisconnectedMsg:
		m.connected = false
		m.statusBar.Connected = false
		return m, m.watch.Listen(context.Background())

	case client.RemoteStateMsg:
		m.store.ReplaceState(msg.State)
		return m, tea.Batch(m.watch.ReadLoop(context.Background()), m.refresh())

	case dashboard.AppSelectedMsg:
		return m.openApp(msg.AppID)

	case spend.UnlockChosenMsg:
		if err := m.store.SpendMinutes(msg.Minutes); err != nil {
			return m, m.refresh()
		}
		m.spendModal = nil
		return m.startSession()

	case spend.QuickTaskChosenMsg:
		m.store.AddQuickTask(msg.Task)
		m.store.Notify("Added " + msg.Task.Title + " to your tasks.")
		m.spendModal = nil
		return m, m.refresh()

	case activesession.EndRequestedMsg:
		m.store.EndUnlock()
		m.activeSess = nil
		return m, m.refresh()

	case tasks.SuggestionsMsg:
		var cmd tea.Cmd
		m.taskView, cmd = m.taskView.Update(msg)
		return m, tea.Batch(cmd, m.refresh())

	case clan.LoreMsg:
		var cmd tea.Cmd
		m.clanHub, cmd = m.clanHub.Update(msg)
		return m, tea.Batch(cmd, m.refresh())

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		// Animation ticks and other private messages belong to the
		// session screen.
		if m.activeSess != nil {
			sess, cmd := m.activeSess.Update(msg)
			m.activeSess = &sess
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.activeSess != nil {
		sess, cmd := m.activeSess.Update(msg)
		m.activeSess = &sess
		return m, cmd
	}

	if m.spendModal != nil {
		if key.Matches(msg, m.keys.Escape) {
			m.store.ClearSelectedApp()
			m.spendModal = nil
			return m, nil
		}
		modal, cmd := m.spendModal.Update(msg)
		m.spendModal = &modal
		return m, cmd
	}

	if !m.capturing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dashboard):
			m.active = ViewDashboard
			return m, nil
		case key.Matches(msg, m.keys.Tasks):
			m.active = ViewTasks
			return m, nil
		case key.Matches(msg, m.keys.Avatar):
			m.active = ViewAvatar
			return m, nil
		case key.Matches(msg, m.keys.Clan):
			m.active = ViewClan
			return m, nil
		case key.Matches(msg, m.keys.Settings):
			m.active = ViewSettings
			return m, nil
		case key.Matches(msg, m.keys.FAQ):
			m.active = ViewFAQ
			return m, nil
		case key.Matches(msg, m.keys.NextView):
			m.active = (m.active + 1) % viewCount
			return m, nil
		}
	}

	next, cmd := viewUpdaters[m.active](m, msg)
	return next, tea.Batch(cmd, next.refresh())
}

// capturing reports whether the active view owns every keystroke.
func (m Model) capturing() bool {
	switch m.active {
	case ViewTasks:
		return m.taskView.Capturing()
	case ViewClan:
		return m.clanHub.Capturing()
	case ViewSettings:
		return m.settingsV.Capturing()
	default:
		return false
	}
}

// openApp routes an app selection: blocked apps open the spend modal, free
// ones just get a toast since there is nothing to launch in a terminal.
func (m Model) openApp(appID string) (tea.Model, tea.Cmd) {
	snap := m.store.State()
	app, ok := snap.FindApp(appID)
	if !ok {
		return m, nil
	}
	if !app.Blocked {
		m.store.Notify(app.Name + " is not blocked. Enjoy!")
		return m, m.refresh()
	}
	if err := m.store.SelectApp(appID); err != nil {
		return m, nil
	}
	modal := spend.New(app, snap.TimeBank)
	m.spendModal = &modal
	return m, nil
}

// startSession opens the full-screen countdown for the unlock that
// SpendMinutes just created.
func (m Model) startSession() (tea.Model, tea.Cmd) {
	snap := m.store.State()
	if snap.ActiveUnlock == nil {
		return m, m.refresh()
	}
	app, ok := snap.FindApp(snap.ActiveUnlock.AppID)
	if !ok {
		return m, m.refresh()
	}
	sess := activesession.New(app, *snap.ActiveUnlock)
	sess.Width = m.width
	sess.Height = m.height
	m.activeSess = &sess
	return m, tea.Batch(sess.Init(), m.refresh())
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.statusBar.Width = width
	m.dashboard.Width = width
	m.taskView.Width = width
	m.avatarSta.Width = width
	m.clanHub.Width = width
	m.settingsV.Width = width
	m.faqView.Width = width
	m.faqView.Height = height - 6
	if m.activeSess != nil {
		m.activeSess.Width = width
		m.activeSess.Height = height
	}
}

// refresh pushes a fresh snapshot into every view and schedules the toast
// and evolution follow-ups that depend on the new state.
func (m *Model) refresh() tea.Cmd {
	snap := m.store.State()

	m.dashboard.SetState(snap)
	m.taskView.SetState(snap)
	m.avatarSta.SetState(snap)
	m.clanHub.SetState(snap)
	m.settingsV.SetState(snap)

	m.statusBar.Bank = snap.TimeBank
	m.statusBar.Lifetime = snap.LifetimeEarned
	m.statusBar.Level = snap.Avatar.Level
	m.statusBar.Stage = snap.Avatar.EvolutionStage
	m.statusBar.ClanName = ""
	if snap.Clan != nil {
		m.statusBar.ClanName = snap.Clan.Name
	}

	var cmds []tea.Cmd

	if snap.Avatar.EvolutionStage > m.lastStage {
		if m.lastStage > 0 {
			cmds = append(cmds, fetchEvolution(m.gen, snap.Avatar.EvolutionStage))
		}
		m.lastStage = snap.Avatar.EvolutionStage
	}

	if _, ok := m.store.CurrentNotification(); ok && !m.toastShowing {
		m.toastShowing = true
		cmds = append(cmds, tea.Tick(toastTTL, func(time.Time) tea.Msg {
			return toastDismissMsg{}
		}))
	}

	return tea.Batch(cmds...)
}

func fetchEvolution(gen *client.Generator, stage int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return evolutionMsg{Text: gen.EvolutionText(ctx, stage)}
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.activeSess != nil {
		return m.overlayToast(m.activeSess.View())
	}

	body := viewRenderers[m.active](m)
	if m.spendModal != nil {
		body = lipgloss.Place(m.width, lipgloss.Height(body),
			lipgloss.Center, lipgloss.Center, m.spendModal.View())
	}

	sections := []string{
		m.statusBar.View(),
		m.renderTabs(),
		body,
		theme.StyleDimmed.Render("  1-6: views  ]: next view  q: quit"),
	}

	return m.overlayToast(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderTabs() string {
	row := ""
	for v := View(0); v < viewCount; v++ {
		label := fmt.Sprintf(" %d %s ", int(v)+1, viewTitles[v])
		if v == m.active {
			row += theme.StyleSelected.Render(label)
		} else {
			row += theme.StyleDimmed.Render(label)
		}
	}
	return row
}

// overlayToast draws the visible toast above everything else.
func (m Model) overlayToast(body string) string {
	note, ok := m.store.CurrentNotification()
	if !ok {
		return body
	}
	toast := theme.StyleToast.Render(note)
	return lipgloss.JoinVertical(lipgloss.Left, toast, body)
}
