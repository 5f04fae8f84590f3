package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/zenscreen/zenscreen/internal/engine"
)

// DefaultDebounce is the trailing delay between the last state change and
// the persistence write.
const DefaultDebounce = 2 * time.Second

// NotifyAdvanceDelay is how long a dismissed toast stays down before the
// next one surfaces, leaving room for the exit animation.
const NotifyAdvanceDelay = 300 * time.Millisecond

// remoteSaveTimeout bounds the fire-and-forget upload to the document store.
const remoteSaveTimeout = 10 * time.Second

// ErrNoSelection is returned when the spend flow runs without a selected app.
var ErrNoSelection = errors.New("no app selected")

// ErrUnknownTask is returned for operations on a task id not in the list.
var ErrUnknownTask = errors.New("unknown task")

// ErrNoClan is returned for clan operations while not in a clan.
var ErrNoClan = errors.New("not in a clan")

// RemoteSaver uploads the session document to the remote store. Failures
// are logged only; durability of the local copy is never at risk.
type RemoteSaver interface {
	Save(ctx context.Context, userID string, doc *State) error
}

// Store owns the session state and applies every transition to it. All
// methods are safe for concurrent use, though the TUI drives them from a
// single event loop. Each mutation cancels the pending persistence timer
// and schedules a new one (trailing debounce, last state wins).
type Store struct {
	mu      sync.Mutex
	state   *State
	notes   Notifications
	catalog *engine.Catalog

	persist   *FileStore
	remote    RemoteSaver // may be nil
	debounce  time.Duration
	saveTimer *time.Timer
}

// NewStore loads the persisted profile (or starts fresh) and returns a
// store around it. remote may be nil when no sync service is configured.
func NewStore(persist *FileStore, remote RemoteSaver, debounce time.Duration) (*Store, error) {
	state, err := persist.Load()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Store{
		state:    state,
		catalog:  engine.NewCatalog(),
		persist:  persist,
		remote:   remote,
		debounce: debounce,
	}, nil
}

// State returns a deep copy of the current state.
func (s *Store) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Catalog exposes the cosmetic shop.
func (s *Store) Catalog() *engine.Catalog {
	return s.catalog
}

// --- Notifications ---

// Notify queues a toast message.
func (s *Store) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Push(message)
}

// CurrentNotification returns the visible toast, if any.
func (s *Store) CurrentNotification() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Current()
}

// DismissNotification hides the visible toast. The caller schedules
// AdvanceNotification after NotifyAdvanceDelay.
func (s *Store) DismissNotification() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Dismiss()
}

// AdvanceNotification surfaces the next queued toast.
func (s *Store) AdvanceNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Advance()
}

// --- Task completion and leveling ---

// CompleteTask grants the task's capped reward, advances clan quests,
// applies XP and leveling, and appends the history record. The task stays
// in the active list so it can be repeated.
func (s *Store) CompleteTask(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.state.FindTask(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}

	who := engine.Contributor{
		ID:        LocalUserID,
		Name:      s.state.Avatar.Name,
		AvatarURL: s.state.Avatar.AvatarURL,
	}
	res, err := engine.ComputeCompletion(task, s.state.Clan, who, time.Now())
	if err != nil {
		return err
	}
	if res.Capped {
		s.notes.Push(engine.CapNotice())
	}

	earned := res.CappedReward + res.XPBonus
	avatar, gained, err := engine.ApplyXP(s.state.Avatar, earned)
	if err != nil {
		return err
	}

	s.state.Avatar = avatar
	s.state.TimeBank += earned
	s.state.LifetimeEarned += earned
	s.state.History = append(s.state.History, res.History)
	if res.Clan != nil {
		s.state.Clan = res.Clan
	}

	s.notes.Push(engine.CompletionMessage(res.CappedReward))
	if res.ClanMessage != "" {
		s.notes.Push(res.ClanMessage)
	}
	if msg := engine.LevelUpMessage(gained); msg != "" {
		s.notes.Push(msg)
	}

	s.markDirty()
	return nil
}

// CheatXP grants exactly the XP needed for the next level, crediting the
// granted amount to the time bank and lifetime earnings.
func (s *Store) CheatXP() {
	s.mu.Lock()
	defer s.mu.Unlock()

	avatar, granted := engine.CheatLevelUp(s.state.Avatar)
	s.state.Avatar = avatar
	s.state.TimeBank += granted
	s.state.LifetimeEarned += granted
	s.notes.Push(engine.LevelUpMessage(1))
	s.markDirty()
}

// --- Cosmetics ---

// PurchaseCosmetic buys the item if affordable, level-unlocked, and not yet
// owned. Rejections surface as a toast and leave the state untouched.
func (s *Store) PurchaseCosmetic(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.catalog.Lookup(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrUnknownCosmetic, itemID)
	}
	avatar, balance, err := s.catalog.Purchase(s.state.Avatar, s.state.TimeBank, itemID)
	if err != nil {
		s.notes.Push(fmt.Sprintf("Cannot purchase %s. Check funds or level.", item.Name))
		return err
	}
	s.state.Avatar = avatar
	s.state.TimeBank = balance
	s.notes.Push(fmt.Sprintf("Purchased %s!", item.Name))
	s.markDirty()
	return nil
}

// EquipCosmetic equips the owned item into its slot; an empty id clears the
// slot.
func (s *Store) EquipCosmetic(slot engine.SlotType, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	avatar, err := s.catalog.Equip(s.state.Avatar, slot, itemID)
	if err != nil {
		return err
	}
	s.state.Avatar = avatar
	s.markDirty()
	return nil
}

// --- Spend flow ---

// SelectApp opens the spend flow for the given app.
func (s *Store) SelectApp(appID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.state.FindApp(appID)
	if !ok {
		return fmt.Errorf("unknown app %q", appID)
	}
	s.state.SelectedApp = &app
	return nil
}

// ClearSelectedApp abandons the spend flow.
func (s *Store) ClearSelectedApp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedApp = nil
}

// SpendMinutes debits the bank and starts an unlock session for the
// selected app. A balance that cannot cover the cost rejects the spend
// before any mutation.
func (s *Store) SpendMinutes(minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.SelectedApp == nil {
		return ErrNoSelection
	}
	if minutes <= 0 {
		return fmt.Errorf("spend must be positive, got %d", minutes)
	}
	if s.state.TimeBank < minutes {
		s.notes.Push("Not enough minutes in the bank.")
		return fmt.Errorf("%w: need %d, have %d", engine.ErrInsufficientBalance, minutes, s.state.TimeBank)
	}

	s.state.TimeBank -= minutes
	s.state.ActiveUnlock = &Unlock{
		AppID:           s.state.SelectedApp.ID,
		StartTime:       time.Now(),
		DurationMinutes: minutes,
	}
	s.state.SelectedApp = nil
	s.markDirty()
	return nil
}

// AddQuickTask takes the "do something else" exit from the spend flow:
// the task joins the active list, the selection clears, the balance is
// untouched.
func (s *Store) AddQuickTask(task engine.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		if t, err := engine.NewTask(task.Title, task.Description, task.DurationMinutes, task.RewardMinutes); err == nil {
			t.Category = task.Category
			task = t
		}
	}
	s.state.ActiveTasks = append(s.state.ActiveTasks, task)
	s.state.SelectedApp = nil
	s.markDirty()
}

// EndUnlock ends the unlock session early. There is no partial refund.
func (s *Store) EndUnlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveUnlock = nil
}

// ExpireUnlock clears the unlock session once its duration has elapsed.
// It reports whether a session was cleared.
func (s *Store) ExpireUnlock(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ActiveUnlock == nil {
		return false
	}
	if s.state.ActiveUnlock.Remaining(now) > 0 {
		return false
	}
	s.state.ActiveUnlock = nil
	return true
}

// --- Tasks ---

// AddTask validates and appends a custom task.
func (s *Store) AddTask(title, description string, durationMinutes, rewardMinutes int) error {
	task, err := engine.NewTask(title, description, durationMinutes, rewardMinutes)
	if err != nil {
		s.Notify("Task needs a title and a positive duration.")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveTasks = append(s.state.ActiveTasks, task)
	s.markDirty()
	return nil
}

// AddGeneratedTasks appends suggestion tasks from the content bridge.
func (s *Store) AddGeneratedTasks(tasks []engine.Task) {
	if len(tasks) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveTasks = append(s.state.ActiveTasks, tasks...)
	s.markDirty()
}

// UpdateTask replaces the task with the same id.
func (s *Store) UpdateTask(task engine.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.ActiveTasks {
		if s.state.ActiveTasks[i].ID == task.ID {
			s.state.ActiveTasks[i] = task
			s.markDirty()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTask, task.ID)
}

// --- Clan ---

// CreateClan founds a clan owned by the local user.
func (s *Store) CreateClan(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clan, err := engine.NewClan(name, engine.ClanMember{
		ID:        LocalUserID,
		Name:      s.state.Avatar.Name,
		AvatarURL: s.state.Avatar.AvatarURL,
	}, time.Now())
	if err != nil {
		s.notes.Push("Clan needs a name.")
		return err
	}
	s.state.Clan = &clan
	s.markDirty()
	return nil
}

// JoinClan joins a catalog clan, or a default public clan for unknown ids.
func (s *Store) JoinClan(clanID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clan := engine.JoinClan(clanID, engine.ClanMember{
		ID:        LocalUserID,
		Name:      s.state.Avatar.Name,
		AvatarURL: s.state.Avatar.AvatarURL,
	})
	s.state.Clan = &clan
	s.markDirty()
}

// LeaveClan removes the local user. When they owned the clan, ownership
// transfers to the first admin (or an arbitrary member) before the local
// reference is dropped; with nobody left the clan dissolves.
func (s *Store) LeaveClan() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Clan == nil {
		return
	}
	if next, ok := engine.Leave(*s.state.Clan, LocalUserID); ok {
		// A networked backend would persist next here; locally the clan
		// simply disappears from our view with its new owner in place.
		log.Printf("left clan %q, ownership with %s", next.Name, next.OwnerID)
	}
	s.state.Clan = nil
	s.markDirty()
}

// updateClan applies fn to the current clan snapshot and stores the result.
func (s *Store) updateClan(fn func(engine.Clan) (engine.Clan, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Clan == nil {
		return ErrNoClan
	}
	next, err := fn(*s.state.Clan)
	if err != nil {
		return err
	}
	s.state.Clan = &next
	s.markDirty()
	return nil
}

// RenameClan sets the clan name.
func (s *Store) RenameClan(name string) error {
	if name == "" {
		s.Notify("Clan needs a name.")
		return engine.ErrEmptyClanName
	}
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		c.Name = name
		return c, nil
	})
}

// SetClanOpen toggles public visibility.
func (s *Store) SetClanOpen(open bool) error {
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		c.IsOpen = open
		return c, nil
	})
}

// SetClanInvite replaces the invite code.
func (s *Store) SetClanInvite(code string) error {
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		c.InviteCode = code
		return c, nil
	})
}

// UpsertClanQuest adds or replaces a quest.
func (s *Store) UpsertClanQuest(quest engine.ClanQuest) error {
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		return engine.UpsertQuest(c, quest), nil
	})
}

// RemoveClanQuest deletes a quest by id.
func (s *Store) RemoveClanQuest(questID string) error {
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		return engine.RemoveQuest(c, questID), nil
	})
}

// AddClanMember appends a member to the roster.
func (s *Store) AddClanMember(member engine.ClanMember) error {
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		return engine.AddMember(c, member), nil
	})
}

// RemoveClanMember drops a member; removing the owner follows the same
// succession rule as leaving.
func (s *Store) RemoveClanMember(memberID string) error {
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		next, ok := engine.Leave(c, memberID)
		if !ok {
			return c, errors.New("cannot remove the last member")
		}
		return next, nil
	})
}

// ChangeClanRole sets a member's role, demoting the prior owner on
// promotion to owner.
func (s *Store) ChangeClanRole(memberID string, role engine.MemberRole) error {
	return s.updateClan(func(c engine.Clan) (engine.Clan, error) {
		return engine.ChangeRole(c, memberID, role)
	})
}

// --- Settings and profile ---

// ToggleAppBlock flips the blocked flag on an app.
func (s *Store) ToggleAppBlock(appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Apps {
		if s.state.Apps[i].ID == appID {
			s.state.Apps[i].Blocked = !s.state.Apps[i].Blocked
			s.markDirty()
			return
		}
	}
}

// RenameAvatar sets the display name.
func (s *Store) RenameAvatar(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Avatar.Name = name
	s.markDirty()
}

// SetAvatarFlavor replaces the flavor text (e.g. from the content bridge).
func (s *Store) SetAvatarFlavor(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Avatar.FlavorText = text
	s.markDirty()
}

// ResetProgress wipes the profile back to a fresh state, with lifetime
// earnings zeroed.
func (s *Store) ResetProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := NewState()
	fresh.LifetimeEarned = 0
	s.state = fresh
	s.notes.Push("Progress has been reset.")
	s.markDirty()
}

// ReplaceState adopts a document from the remote store (last write wins).
// Transient selections are preserved from the current state.
func (s *Store) ReplaceState(doc *State) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := doc.Clone()
	next.initDefaults()
	next.SelectedApp = s.state.SelectedApp
	next.ActiveUnlock = s.state.ActiveUnlock
	s.state = next
	s.markDirty()
}

// --- Persistence ---

// markDirty schedules the debounced save, cancelling any pending one.
// Callers must hold s.mu.
func (s *Store) markDirty() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, s.flush)
}

// flush writes the local snapshot and, when configured, uploads it to the
// remote store. Failures are logged; in-memory state stays authoritative.
func (s *Store) flush() {
	s.mu.Lock()
	snap := s.state.Clone()
	s.mu.Unlock()

	if err := s.persist.Save(snap); err != nil {
		log.Printf("failed to save profile: %v", err)
	}
	if s.remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), remoteSaveTimeout)
		defer cancel()
		if err := s.remote.Save(ctx, LocalUserID, snap); err != nil {
			log.Printf("remote save failed (will retry on next change): %v", err)
		}
	}
}

// Flush cancels the pending timer and saves immediately. Call on shutdown.
func (s *Store) Flush() {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.mu.Unlock()
	s.flush()
}
