package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zenscreen/zenscreen/internal/session"
	"github.com/zenscreen/zenscreen/internal/views/dashboard"
	"github.com/zenscreen/zenscreen/internal/views/spend"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store, err := session.NewStore(session.NewFileStore(t.TempDir()), nil, time.Hour)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	m := New(store, nil, nil)
	m.setSize(100, 40)
	return m
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t)

	for _, tt := range []struct {
		key  rune
		want View
	}{
		{'2', ViewTasks},
		{'3', ViewAvatar},
		{'4', ViewClan},
		{'5', ViewSettings},
		{'6', ViewFAQ},
		{'1', ViewDashboard},
	} {
		next, _ := m.Update(keyPress(tt.key))
		m = next.(Model)
		if m.active != tt.want {
			t.Errorf("key %q: active = %d, want %d", tt.key, m.active, tt.want)
		}
	}
}

func TestDashboardShowsBank(t *testing.T) {
	m := newTestModel(t)

	v := m.View()
	if !strings.Contains(v, "120") {
		t.Error("dashboard should show the starting balance")
	}
	if !strings.Contains(v, "TIME BANK") {
		t.Error("dashboard should show the time bank card")
	}
}

func TestOpenBlockedAppShowsSpendModal(t *testing.T) {
	m := newTestModel(t)

	snap := m.store.State()
	next, _ := m.Update(dashboard.AppSelectedMsg{AppID: snap.Apps[0].ID})
	m = next.(Model)

	if m.spendModal == nil {
		t.Fatal("selecting a blocked app should open the spend modal")
	}
	if !strings.Contains(m.View(), "blocked") {
		t.Error("spend modal should mention the app is blocked")
	}
}

func TestSpendOpensSessionScreen(t *testing.T) {
	m := newTestModel(t)

	snap := m.store.State()
	next, _ := m.Update(dashboard.AppSelectedMsg{AppID: snap.Apps[0].ID})
	m = next.(Model)

	next, _ = m.Update(spend.UnlockChosenMsg{Minutes: 15})
	m = next.(Model)

	if m.spendModal != nil {
		t.Error("spend modal should close after a successful unlock")
	}
	if m.activeSess == nil {
		t.Fatal("a successful spend should open the session screen")
	}
	if got := m.store.State().TimeBank; got != 105 {
		t.Errorf("bank = %d, want 105 after spending 15", got)
	}
	if !strings.Contains(m.View(), "UNLOCKED") {
		t.Error("session screen should say UNLOCKED")
	}
}

func TestInsufficientSpendKeepsModal(t *testing.T) {
	m := newTestModel(t)

	snap := m.store.State()
	next, _ := m.Update(dashboard.AppSelectedMsg{AppID: snap.Apps[0].ID})
	m = next.(Model)

	next, _ = m.Update(spend.UnlockChosenMsg{Minutes: 500})
	m = next.(Model)

	if m.spendModal == nil {
		t.Error("a rejected spend should keep the modal open")
	}
	if m.activeSess != nil {
		t.Error("a rejected spend should not start a session")
	}
	if got := m.store.State().TimeBank; got != 120 {
		t.Errorf("bank = %d, want untouched 120", got)
	}
}

func TestQuickTaskClosesModalWithoutCharge(t *testing.T) {
	m := newTestModel(t)

	snap := m.store.State()
	next, _ := m.Update(dashboard.AppSelectedMsg{AppID: snap.Apps[0].ID})
	m = next.(Model)

	before := len(m.store.State().ActiveTasks)
	next, _ = m.Update(spend.QuickTaskChosenMsg{Task: m.store.State().ActiveTasks[0]})
	m = next.(Model)

	if m.spendModal != nil {
		t.Error("choosing a quick task should close the modal")
	}
	state := m.store.State()
	if len(state.ActiveTasks) != before+1 {
		t.Errorf("task count = %d, want %d", len(state.ActiveTasks), before+1)
	}
	if state.TimeBank != 120 {
		t.Errorf("bank = %d, want untouched 120", state.TimeBank)
	}
}

func TestToastLifecycle(t *testing.T) {
	m := newTestModel(t)

	m.store.Notify("hello")
	cmd := m.refresh()
	if cmd == nil {
		t.Fatal("a visible toast should schedule its dismissal")
	}
	if !strings.Contains(m.View(), "hello") {
		t.Error("toast should render above the view")
	}

	next, _ := m.Update(toastDismissMsg{})
	m = next.(Model)
	if _, ok := m.store.CurrentNotification(); ok {
		t.Error("dismiss should hide the toast")
	}

	m.store.Notify("second")
	next, _ = m.Update(toastAdvanceMsg{})
	m = next.(Model)
	if note, ok := m.store.CurrentNotification(); !ok || note != "second" {
		t.Errorf("advance should surface the queued toast, got %q", note)
	}
}

func TestTickExpiresUnlock(t *testing.T) {
	m := newTestModel(t)

	snap := m.store.State()
	next, _ := m.Update(dashboard.AppSelectedMsg{AppID: snap.Apps[0].ID})
	m = next.(Model)
	next, _ = m.Update(spend.UnlockChosenMsg{Minutes: 5})
	m = next.(Model)

	if m.activeSess == nil {
		t.Fatal("expected an active session")
	}

	next, _ = m.Update(tickMsg(time.Now().Add(6 * time.Minute)))
	m = next.(Model)

	if m.activeSess != nil {
		t.Error("tick past the deadline should close the session screen")
	}
	if m.store.State().ActiveUnlock != nil {
		t.Error("expired unlock should be cleared from state")
	}
}
