// Package session holds the mutable application state for ZenScreen and the
// store that applies the engine's transition rules to it. All mutation goes
// through Store methods; views only ever see snapshots.
package session

import (
	"time"

	"github.com/zenscreen/zenscreen/internal/engine"
)

// LocalUserID identifies the local profile in clan rosters and feed entries.
// Clan state in this system is local-only, so a fixed id suffices.
const LocalUserID = "user-1"

// Unlock is an in-flight unlock of a blocked app, counting down in real
// time. It is transient UI state and never persisted.
type Unlock struct {
	AppID           string
	StartTime       time.Time
	DurationMinutes int
}

// Remaining returns the time left before the unlock expires.
func (u Unlock) Remaining(now time.Time) time.Duration {
	end := u.StartTime.Add(time.Duration(u.DurationMinutes) * time.Minute)
	if d := end.Sub(now); d > 0 {
		return d
	}
	return 0
}

// State is the full session aggregate: the persisted document plus the
// transient UI selections that follow their own small state machines.
type State struct {
	Version        int                  `json:"version"`
	TimeBank       int                  `json:"timeBank"`
	LifetimeEarned int                  `json:"lifetimeEarned"`
	Apps           []engine.App         `json:"apps"`
	ActiveTasks    []engine.Task        `json:"activeTasks"`
	Avatar         engine.Avatar        `json:"avatar"`
	Clan           *engine.Clan         `json:"clan"`
	History        []engine.HistoryItem `json:"history"`
	LastUpdated    time.Time            `json:"lastUpdated"`

	// Transient, never persisted.
	SelectedApp   *engine.App `json:"-"`
	ActiveUnlock  *Unlock     `json:"-"`
}

// NewState returns a fresh profile. The opening balances mirror the
// onboarding grant: 120 banked minutes and the starter credit already
// counted toward lifetime earnings.
func NewState() *State {
	return &State{
		Version:        stateVersion,
		TimeBank:       120,
		LifetimeEarned: 450,
		Apps:           engine.StarterApps(),
		ActiveTasks:    engine.StarterTasks(),
		Avatar:         engine.NewAvatar(),
		History:        []engine.HistoryItem{},
	}
}

// Clone returns a deep copy of the state. Transient pointers are copied by
// value so a snapshot cannot observe later selection changes.
func (s *State) Clone() *State {
	cp := *s
	cp.Apps = make([]engine.App, len(s.Apps))
	copy(cp.Apps, s.Apps)
	cp.ActiveTasks = make([]engine.Task, len(s.ActiveTasks))
	copy(cp.ActiveTasks, s.ActiveTasks)
	cp.History = make([]engine.HistoryItem, len(s.History))
	copy(cp.History, s.History)
	cp.Avatar = s.Avatar.Clone()
	if s.Clan != nil {
		clan := s.Clan.Clone()
		cp.Clan = &clan
	}
	if s.SelectedApp != nil {
		app := *s.SelectedApp
		cp.SelectedApp = &app
	}
	if s.ActiveUnlock != nil {
		unlock := *s.ActiveUnlock
		cp.ActiveUnlock = &unlock
	}
	return &cp
}

// initDefaults ensures collection fields are non-nil after deserialization.
func (s *State) initDefaults() {
	if s.Apps == nil {
		s.Apps = engine.StarterApps()
	}
	if s.ActiveTasks == nil {
		s.ActiveTasks = []engine.Task{}
	}
	if s.History == nil {
		s.History = []engine.HistoryItem{}
	}
	if s.Avatar.OwnedCosmetics == nil {
		s.Avatar.OwnedCosmetics = []string{}
	}
	if s.Avatar.EquippedCosmetics == nil {
		s.Avatar.EquippedCosmetics = map[engine.SlotType]string{}
	}
}

// FindApp returns the app with the given id from the grid.
func (s *State) FindApp(id string) (engine.App, bool) {
	for _, a := range s.Apps {
		if a.ID == id {
			return a, true
		}
	}
	return engine.App{}, false
}

// FindTask returns the active task with the given id.
func (s *State) FindTask(id string) (engine.Task, bool) {
	for _, t := range s.ActiveTasks {
		if t.ID == id {
			return t, true
		}
	}
	return engine.Task{}, false
}
