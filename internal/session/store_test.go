package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zenscreen/zenscreen/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(NewFileStore(t.TempDir()), nil, time.Hour) // debounce never fires in tests
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// drainNotifications empties the toast queue and returns every message in
// display order.
func drainNotifications(s *Store) []string {
	var out []string
	for {
		msg, ok := s.CurrentNotification()
		if !ok {
			return out
		}
		out = append(out, msg)
		s.DismissNotification()
		s.AdvanceNotification()
	}
}

func TestCompleteTask_EndToEndLevelUp(t *testing.T) {
	s := newTestStore(t)

	// Avatar at level 2 with 150 XP completing a 60-minute reward: the
	// level-2 threshold is 200, so one level is gained with 10 XP carried.
	s.ReplaceState(func() *State {
		st := NewState()
		st.Avatar.Level = 2
		st.Avatar.Experience = 150
		st.ActiveTasks = []engine.Task{{ID: "t", Title: "Read", RewardMinutes: 60}}
		return st
	}())
	bankBefore := s.State().TimeBank
	lifetimeBefore := s.State().LifetimeEarned

	if err := s.CompleteTask("t"); err != nil {
		t.Fatal(err)
	}

	st := s.State()
	if st.Avatar.Level != 3 || st.Avatar.Experience != 10 {
		t.Errorf("avatar = level %d xp %d, want level 3 xp 10", st.Avatar.Level, st.Avatar.Experience)
	}
	if st.Avatar.EvolutionStage != 1 {
		t.Errorf("stage = %d, want 1 below level 5", st.Avatar.EvolutionStage)
	}
	if st.TimeBank != bankBefore+60 {
		t.Errorf("TimeBank = %d, want +60", st.TimeBank)
	}
	if st.LifetimeEarned != lifetimeBefore+60 {
		t.Errorf("LifetimeEarned = %d, want +60", st.LifetimeEarned)
	}
	if len(st.History) != 1 || st.History[0].RewardMinutes != 60 {
		t.Errorf("history = %+v", st.History)
	}
	if len(st.ActiveTasks) != 1 {
		t.Error("completed task should stay active for repeats")
	}

	msgs := drainNotifications(s)
	if len(msgs) != 2 {
		t.Fatalf("notifications = %v, want completion + level up", msgs)
	}
	if !strings.Contains(msgs[0], "60 minutes") {
		t.Errorf("first toast = %q", msgs[0])
	}
	if !strings.Contains(msgs[1], "Level Up") {
		t.Errorf("second toast = %q", msgs[1])
	}
}

func TestCompleteTask_ClanBonusCreditedEverywhere(t *testing.T) {
	s := newTestStore(t)
	s.CreateClan("Testers")
	if err := s.UpsertClanQuest(engine.ClanQuest{
		ID: "q", Title: "Sprint", Target: 50, Progress: 0, RewardMinutes: 30, Status: engine.QuestActive,
	}); err != nil {
		t.Fatal(err)
	}
	// Drop the seeded starter quest so only one quest completes.
	if err := s.RemoveClanQuest(s.State().Clan.Quests[0].ID); err != nil {
		t.Fatal(err)
	}
	s.AddQuickTask(engine.Task{ID: "t", Title: "Walk", RewardMinutes: 60, DurationMinutes: 10})
	bankBefore := s.State().TimeBank

	if err := s.CompleteTask("t"); err != nil {
		t.Fatal(err)
	}

	st := s.State()
	if st.TimeBank != bankBefore+60+30 {
		t.Errorf("TimeBank = %d, want reward plus quest bonus", st.TimeBank)
	}
	if st.Avatar.Level != 1 || st.Avatar.Experience != 90 {
		t.Errorf("avatar = level %d xp %d, want level 1 xp 90 (reward plus bonus)", st.Avatar.Level, st.Avatar.Experience)
	}
	if st.Clan.Quests[0].Status != engine.QuestCompleted {
		t.Errorf("quest = %+v", st.Clan.Quests[0])
	}
	if len(st.Clan.Feed) != 1 {
		t.Errorf("feed = %+v", st.Clan.Feed)
	}
}

func TestCompleteTask_UnknownID(t *testing.T) {
	s := newTestStore(t)
	if err := s.CompleteTask("ghost"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("error = %v, want ErrUnknownTask", err)
	}
}

func TestCheatXP_CreditsBankAndLifetime(t *testing.T) {
	s := newTestStore(t)
	before := s.State()

	s.CheatXP()

	st := s.State()
	granted := engine.XPThreshold(before.Avatar.Level) - before.Avatar.Experience
	if st.Avatar.Level != before.Avatar.Level+1 || st.Avatar.Experience != 0 {
		t.Errorf("avatar = %+v", st.Avatar)
	}
	if st.TimeBank != before.TimeBank+granted {
		t.Errorf("TimeBank = %d, want +%d", st.TimeBank, granted)
	}
	if st.LifetimeEarned != before.LifetimeEarned+granted {
		t.Errorf("LifetimeEarned = %d, want +%d", st.LifetimeEarned, granted)
	}
}

func TestSpendFlow(t *testing.T) {
	s := newTestStore(t)

	if err := s.SpendMinutes(30); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("spend without selection: %v, want ErrNoSelection", err)
	}

	if err := s.SelectApp("1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SpendMinutes(30); err != nil {
		t.Fatal(err)
	}

	st := s.State()
	if st.TimeBank != 90 {
		t.Errorf("TimeBank = %d, want 90", st.TimeBank)
	}
	if st.SelectedApp != nil {
		t.Error("selection should clear on confirm")
	}
	if st.ActiveUnlock == nil || st.ActiveUnlock.AppID != "1" || st.ActiveUnlock.DurationMinutes != 30 {
		t.Errorf("unlock = %+v", st.ActiveUnlock)
	}

	// Ending early refunds nothing.
	s.EndUnlock()
	st = s.State()
	if st.ActiveUnlock != nil {
		t.Error("unlock should clear on early end")
	}
	if st.TimeBank != 90 {
		t.Errorf("TimeBank = %d after early end, want no refund", st.TimeBank)
	}
}

func TestSpendMinutes_InsufficientBalanceIsNoOp(t *testing.T) {
	s := newTestStore(t)
	s.SelectApp("1")

	err := s.SpendMinutes(121) // balance is 120
	if !errors.Is(err, engine.ErrInsufficientBalance) {
		t.Fatalf("error = %v", err)
	}
	st := s.State()
	if st.TimeBank != 120 || st.ActiveUnlock != nil {
		t.Errorf("state mutated on rejected spend: bank=%d unlock=%v", st.TimeBank, st.ActiveUnlock)
	}
	if _, ok := s.CurrentNotification(); !ok {
		t.Error("rejection should surface a toast")
	}
}

func TestExpireUnlock(t *testing.T) {
	s := newTestStore(t)
	s.SelectApp("2")
	if err := s.SpendMinutes(10); err != nil {
		t.Fatal(err)
	}

	start := s.State().ActiveUnlock.StartTime
	if s.ExpireUnlock(start.Add(9 * time.Minute)) {
		t.Error("unlock expired early")
	}
	if !s.ExpireUnlock(start.Add(10 * time.Minute)) {
		t.Error("unlock did not expire at its duration")
	}
	if s.State().ActiveUnlock != nil {
		t.Error("unlock still set after expiry")
	}
}

func TestAddQuickTask_NoBalanceChange(t *testing.T) {
	s := newTestStore(t)
	s.SelectApp("1")
	before := len(s.State().ActiveTasks)

	s.AddQuickTask(engine.Task{Title: "Step Outside", DurationMinutes: 10, RewardMinutes: 12})

	st := s.State()
	if len(st.ActiveTasks) != before+1 {
		t.Errorf("tasks = %d, want %d", len(st.ActiveTasks), before+1)
	}
	if st.SelectedApp != nil {
		t.Error("selection should clear")
	}
	if st.TimeBank != 120 {
		t.Errorf("TimeBank = %d, want unchanged", st.TimeBank)
	}
	if st.ActiveTasks[before].ID == "" {
		t.Error("quick task should receive an id")
	}
}

func TestPurchaseCosmetic_TogglesToast(t *testing.T) {
	s := newTestStore(t)

	// Level 1 cannot buy the level-3 halo.
	if err := s.PurchaseCosmetic("c1"); err == nil {
		t.Fatal("expected level-gate rejection")
	}
	msgs := drainNotifications(s)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Cannot purchase") {
		t.Errorf("toasts = %v", msgs)
	}

	st := NewState()
	st.Avatar.Level = 3
	st.TimeBank = 200
	s.ReplaceState(st)
	if err := s.PurchaseCosmetic("c1"); err != nil {
		t.Fatal(err)
	}
	got := s.State()
	if got.TimeBank != 50 || !got.Avatar.Owns("c1") {
		t.Errorf("bank=%d owned=%v", got.TimeBank, got.Avatar.OwnedCosmetics)
	}
}

func TestResetProgress(t *testing.T) {
	s := newTestStore(t)
	s.CheatXP()
	s.CreateClan("Done Soon")

	s.ResetProgress()

	st := s.State()
	if st.TimeBank != 120 || st.LifetimeEarned != 0 || st.Avatar.Level != 1 || st.Clan != nil {
		t.Errorf("state after reset = bank=%d lifetime=%d level=%d clan=%v",
			st.TimeBank, st.LifetimeEarned, st.Avatar.Level, st.Clan)
	}
}

// countingSaver records remote save invocations.
type countingSaver struct {
	mu    sync.Mutex
	count int
}

func (c *countingSaver) Save(ctx context.Context, userID string, doc *State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

func (c *countingSaver) saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func TestDebounce_TrailingEdgeCoalescesWrites(t *testing.T) {
	remote := &countingSaver{}
	s, err := NewStore(NewFileStore(t.TempDir()), remote, 80*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	// A burst of mutations inside the debounce window produces one write.
	s.CheatXP()
	time.Sleep(20 * time.Millisecond)
	s.CheatXP()
	time.Sleep(20 * time.Millisecond)
	s.CheatXP()

	if remote.saves() != 0 {
		t.Fatal("write fired before the trailing delay elapsed")
	}

	deadline := time.Now().Add(2 * time.Second)
	for remote.saves() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := remote.saves(); got != 1 {
		t.Errorf("saves = %d, want the burst coalesced into 1", got)
	}
}

func TestFlush_WritesImmediately(t *testing.T) {
	remote := &countingSaver{}
	s, err := NewStore(NewFileStore(t.TempDir()), remote, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	s.CheatXP()
	s.Flush()
	if remote.saves() != 1 {
		t.Errorf("saves = %d, want 1 after Flush", remote.saves())
	}
}

func TestReplaceState_KeepsTransientSelections(t *testing.T) {
	s := newTestStore(t)
	s.SelectApp("1")

	doc := NewState()
	doc.TimeBank = 999
	s.ReplaceState(doc)

	st := s.State()
	if st.TimeBank != 999 {
		t.Errorf("TimeBank = %d, want the remote value", st.TimeBank)
	}
	if st.SelectedApp == nil || st.SelectedApp.ID != "1" {
		t.Error("transient selection lost on remote adoption")
	}
}
