package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyClanName is returned when creating a clan without a name.
var ErrEmptyClanName = errors.New("clan name must not be empty")

// ErrMemberNotFound is returned for role changes targeting an unknown member.
var ErrMemberNotFound = errors.New("clan member not found")

// CatalogClan is a browsable entry in the public clan directory.
type CatalogClan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Members     int    `json:"members"`
	IsOpen      bool   `json:"isOpen"`
	Description string `json:"desc"`
	InviteCode  string `json:"inviteCode"`
}

// ClanCatalog returns the browsable public clans.
func ClanCatalog() []CatalogClan {
	return []CatalogClan{
		{ID: "c_warriors", Name: "Digital Warriors", Members: 12, IsOpen: true, Description: "Focus and discipline.", InviteCode: "WARRIOR"},
		{ID: "c_zen", Name: "Zen Masters", Members: 8, IsOpen: true, Description: "Peaceful productivity.", InviteCode: "ZEN"},
		{ID: "c_night", Name: "Night Owls", Members: 24, IsOpen: false, Description: "Late night grinding.", InviteCode: "NIGHT"},
	}
}

// FindCatalogClan looks up a catalog entry by id.
func FindCatalogClan(id string) (CatalogClan, bool) {
	for _, c := range ClanCatalog() {
		if c.ID == id {
			return c, true
		}
	}
	return CatalogClan{}, false
}

// NewClan creates a clan owned by the founder, seeded with the starter quest.
func NewClan(name string, founder ClanMember, now time.Time) (Clan, error) {
	if name == "" {
		return Clan{}, ErrEmptyClanName
	}
	founder.Role = RoleOwner
	founder.Status = StatusOnline
	return Clan{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: founder.ID,
		Members: 1,
		MemberList: []ClanMember{founder},
		Quests: []ClanQuest{{
			ID:            uuid.NewString(),
			Title:         "Initiation Protocol",
			Description:   "Collectively earn 500 minutes.",
			Target:        500,
			Progress:      0,
			RewardMinutes: 100,
			Status:        QuestActive,
		}},
		Feed:       []ClanFeedItem{},
		IsOpen:     false,
		InviteCode: fmt.Sprintf("INV-%04d", rand.Intn(10000)),
	}, nil
}

// JoinClan synthesizes the joined clan's state. Clan membership in this
// system is local-only: the roster is an owner bot plus generated members up
// to the reported count, with the joining user appended last. Catalog clans
// come with the weekly quest already in flight; arbitrary ids get defaults.
func JoinClan(clanID string, user ClanMember) Clan {
	name := "Public Clan"
	desc := "Community Challenge"
	count := 42
	isOpen := true
	invite := "PUBLIC"
	if entry, ok := FindCatalogClan(clanID); ok {
		name = entry.Name
		desc = entry.Description
		count = entry.Members
		invite = entry.InviteCode
	}

	owner := ClanMember{
		ID:        "owner-bot",
		Name:      "Clan Leader",
		Status:    StatusOnline,
		Role:      RoleOwner,
		AvatarURL: "https://api.dicebear.com/7.x/bottts/svg?seed=owner",
	}

	roster := []ClanMember{owner}
	for i := 1; i < count; i++ {
		status := StatusOnline
		if rand.Intn(2) == 0 {
			status = StatusOffline
		}
		roster = append(roster, ClanMember{
			ID:        fmt.Sprintf("member-bot-%d", i),
			Name:      fmt.Sprintf("Member %d", i+1),
			Status:    status,
			Role:      RoleMember,
			AvatarURL: fmt.Sprintf("https://api.dicebear.com/7.x/bottts/svg?seed=member-%d", i),
		})
	}
	user.Role = RoleMember
	user.Status = StatusOnline
	roster = append(roster, user)

	return Clan{
		ID:         clanID,
		Name:       name,
		OwnerID:    owner.ID,
		Members:    count + 1,
		MemberList: roster,
		Quests: []ClanQuest{{
			ID:            "q-weekly",
			Title:         "Weekly Challenge",
			Description:   desc,
			Target:        5000,
			Progress:      1250,
			RewardMinutes: 500,
			Status:        QuestActive,
		}},
		Feed:       []ClanFeedItem{},
		IsOpen:     isOpen,
		InviteCode: invite,
	}
}

// ChangeRole sets the role of the named member and returns a new snapshot.
// Promoting a member to owner demotes the current owner to admin in the same
// update, so exactly one owner exists at all times.
func ChangeRole(clan Clan, memberID string, role MemberRole) (Clan, error) {
	next := clan.Clone()

	found := false
	for i := range next.MemberList {
		if next.MemberList[i].ID == memberID {
			found = true
			break
		}
	}
	if !found {
		return clan, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}

	for i := range next.MemberList {
		m := &next.MemberList[i]
		switch {
		case m.ID == memberID:
			m.Role = role
		case role == RoleOwner && m.Role == RoleOwner:
			m.Role = RoleAdmin
		}
	}
	if role == RoleOwner {
		next.OwnerID = memberID
	}
	return next, nil
}

// Leave removes the member from the clan. When the owner leaves and other
// members remain, ownership transfers to the first admin, or failing that an
// arbitrary remaining member; the returned clan reflects the transfer. The
// second result is false when no members remain and the clan dissolves.
func Leave(clan Clan, memberID string) (Clan, bool) {
	next := clan.Clone()

	remaining := next.MemberList[:0]
	wasOwner := next.OwnerID == memberID
	for _, m := range next.MemberList {
		if m.ID != memberID {
			remaining = append(remaining, m)
		}
	}
	next.MemberList = remaining
	next.Members = len(remaining)

	if len(remaining) == 0 {
		return Clan{}, false
	}

	if wasOwner {
		successor := -1
		for i, m := range remaining {
			if m.Role == RoleAdmin {
				successor = i
				break
			}
		}
		if successor < 0 {
			successor = 0
		}
		next.MemberList[successor].Role = RoleOwner
		next.OwnerID = next.MemberList[successor].ID
	}
	return next, true
}

// UpsertQuest adds the quest, or replaces the quest with the same id.
func UpsertQuest(clan Clan, quest ClanQuest) Clan {
	next := clan.Clone()
	for i := range next.Quests {
		if next.Quests[i].ID == quest.ID {
			next.Quests[i] = quest
			return next
		}
	}
	if quest.ID == "" {
		quest.ID = uuid.NewString()
	}
	next.Quests = append(next.Quests, quest)
	return next
}

// RemoveQuest deletes the quest with the given id, if present.
func RemoveQuest(clan Clan, questID string) Clan {
	next := clan.Clone()
	quests := next.Quests[:0]
	for _, q := range next.Quests {
		if q.ID != questID {
			quests = append(quests, q)
		}
	}
	next.Quests = quests
	return next
}

// AddMember appends a member to the roster.
func AddMember(clan Clan, member ClanMember) Clan {
	next := clan.Clone()
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if member.Role == "" {
		member.Role = RoleMember
	}
	next.MemberList = append(next.MemberList, member)
	next.Members = len(next.MemberList)
	return next
}
