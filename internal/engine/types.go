// Package engine holds the progression rules for ZenScreen: reward
// calculation, leveling, clan quest progression, and cosmetic store rules.
// Everything here is pure: functions take snapshots and return new
// snapshots, never mutating their inputs. The session store is the only
// caller that applies results to live state.
package engine

import "time"

// SlotType identifies a cosmetic equip position on the avatar.
// Each slot holds at most one equipped cosmetic at a time.
type SlotType string

const (
	SlotHat        SlotType = "hat"
	SlotCape       SlotType = "cape"
	SlotClothes    SlotType = "clothes"
	SlotBackground SlotType = "background"
	SlotAura       SlotType = "aura"
	SlotAccessory  SlotType = "accessory"
)

// SlotTypes lists all slots in display order.
var SlotTypes = []SlotType{SlotHat, SlotCape, SlotClothes, SlotBackground, SlotAura, SlotAccessory}

// TaskCategory groups tasks for display and suggestion prompts.
type TaskCategory string

const (
	CategoryWindDown TaskCategory = "wind-down"
	CategoryFocus    TaskCategory = "focus"
	CategoryFitness  TaskCategory = "fitness"
	CategoryGeneral  TaskCategory = "general"
)

// Task is a user-completable real-world activity with a duration and a
// minute reward. Tasks are never deleted automatically; completing one
// leaves it active so it can be repeated.
type Task struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	DurationMinutes int          `json:"durationMinutes"`
	RewardMinutes   int          `json:"rewardMinutes"`
	Category        TaskCategory `json:"category,omitempty"`
	IsCustom        bool         `json:"isCustom,omitempty"`
	Generated       bool         `json:"generated,omitempty"` // produced by the content bridge
}

// HistoryItem is the immutable record appended on every task completion.
// RewardMinutes is the capped reward actually granted, not the raw task value.
type HistoryItem struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"taskId"`
	TaskTitle     string    `json:"taskTitle"`
	CompletedAt   time.Time `json:"completedAt"`
	RewardMinutes int       `json:"rewardMinutes"`
}

// Avatar is the user's evolving character. Experience is always strictly
// below Level*100 after a leveling pass; EvolutionStage is derived from
// Level and never decreases.
type Avatar struct {
	Level             int                 `json:"level"`
	Experience        int                 `json:"experience"`
	EvolutionStage    int                 `json:"evolutionStage"`
	Name              string              `json:"name"`
	AvatarURL         string              `json:"avatarUrl,omitempty"`
	FlavorText        string              `json:"flavorText"`
	OwnedCosmetics    []string            `json:"ownedCosmetics"`
	EquippedCosmetics map[SlotType]string `json:"equippedCosmetics"`
}

// Clone returns a deep copy of the avatar.
func (a Avatar) Clone() Avatar {
	cp := a
	cp.OwnedCosmetics = make([]string, len(a.OwnedCosmetics))
	copy(cp.OwnedCosmetics, a.OwnedCosmetics)
	cp.EquippedCosmetics = make(map[SlotType]string, len(a.EquippedCosmetics))
	for k, v := range a.EquippedCosmetics {
		cp.EquippedCosmetics[k] = v
	}
	return cp
}

// Owns reports whether the avatar owns the cosmetic with the given id.
func (a Avatar) Owns(cosmeticID string) bool {
	for _, id := range a.OwnedCosmetics {
		if id == cosmeticID {
			return true
		}
	}
	return false
}

// MemberStatus is a clan member's presence indicator.
type MemberStatus string

const (
	StatusOnline    MemberStatus = "online"
	StatusOffline   MemberStatus = "offline"
	StatusInJourney MemberStatus = "in-journey"
	StatusDoneToday MemberStatus = "done-today"
)

// MemberRole is a clan member's permission tier. Exactly one member holds
// RoleOwner at any time.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// ClanMember is one entry in a clan roster.
type ClanMember struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	AvatarURL    string       `json:"avatarUrl,omitempty"`
	Status       MemberStatus `json:"status"`
	Role         MemberRole   `json:"role"`
	LastActivity string       `json:"lastActivity,omitempty"`
}

// QuestStatus is the lifecycle state of a clan quest. The only transition
// is active → completed; it never reverses.
type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
)

// ClanQuest is a shared goal accumulating member contributions toward a
// target. Crossing the target pays RewardMinutes exactly once.
type ClanQuest struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Target        int         `json:"target"`
	Progress      int         `json:"progress"`
	RewardMinutes int         `json:"rewardMinutes"`
	Status        QuestStatus `json:"status"`
}

// ClanFeedItem is an immutable activity entry, newest first.
type ClanFeedItem struct {
	ID         string `json:"id"`
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	Action     string `json:"action"`
	Timestamp  string `json:"timestamp"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
}

// FeedLimit bounds the clan feed; older entries are evicted.
const FeedLimit = 20

// Clan is a social group with shared quests and an activity feed.
type Clan struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	OwnerID          string         `json:"ownerId"`
	Members          int            `json:"members"`
	MemberList       []ClanMember   `json:"memberList"`
	Quests           []ClanQuest    `json:"quests"`
	Feed             []ClanFeedItem `json:"feed"`
	UserContribution int            `json:"userContribution"`
	IsOpen           bool           `json:"isOpen"`
	InviteCode       string         `json:"inviteCode,omitempty"`
}

// Clone returns a deep copy of the clan.
func (c Clan) Clone() Clan {
	cp := c
	cp.MemberList = make([]ClanMember, len(c.MemberList))
	copy(cp.MemberList, c.MemberList)
	cp.Quests = make([]ClanQuest, len(c.Quests))
	copy(cp.Quests, c.Quests)
	cp.Feed = make([]ClanFeedItem, len(c.Feed))
	copy(cp.Feed, c.Feed)
	return cp
}

// CosmeticItem is a read-only catalog entry. Ownership and equip state live
// on the Avatar, not here.
type CosmeticItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cost        int      `json:"cost"`
	MinLevel    int      `json:"minLevel"`
	Icon        string   `json:"icon"`
	Type        SlotType `json:"type"`
}

// App is a simulated distraction app the user can block and unlock by
// spending banked minutes.
type App struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Blocked bool   `json:"isBlocked"`
}
