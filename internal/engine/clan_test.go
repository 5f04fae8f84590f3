package engine

import (
	"errors"
	"testing"
	"time"
)

func founder() ClanMember {
	return ClanMember{ID: "user-1", Name: "Digital Novice"}
}

func TestNewClan_SeedsStarterQuest(t *testing.T) {
	clan, err := NewClan("Zen Circle", founder(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if clan.OwnerID != "user-1" || clan.Members != 1 {
		t.Errorf("clan = %+v, want single founder-owner", clan)
	}
	if len(clan.Quests) != 1 {
		t.Fatalf("quests = %d, want 1 starter quest", len(clan.Quests))
	}
	q := clan.Quests[0]
	if q.Target != 500 || q.RewardMinutes != 100 || q.Status != QuestActive || q.Progress != 0 {
		t.Errorf("starter quest = %+v", q)
	}
	if clan.MemberList[0].Role != RoleOwner {
		t.Errorf("founder role = %s, want owner", clan.MemberList[0].Role)
	}
}

func TestNewClan_RejectsEmptyName(t *testing.T) {
	_, err := NewClan("", founder(), time.Now())
	if !errors.Is(err, ErrEmptyClanName) {
		t.Fatalf("error = %v, want ErrEmptyClanName", err)
	}
}

func TestJoinClan_CatalogClan(t *testing.T) {
	clan := JoinClan("c_zen", founder())

	if clan.Name != "Zen Masters" {
		t.Errorf("name = %q", clan.Name)
	}
	if clan.Members != 9 { // reported 8 + joining user
		t.Errorf("members = %d, want 9", clan.Members)
	}
	if clan.OwnerID != "owner-bot" {
		t.Errorf("owner = %q", clan.OwnerID)
	}
	last := clan.MemberList[len(clan.MemberList)-1]
	if last.ID != "user-1" || last.Role != RoleMember {
		t.Errorf("joining user should be appended last as a member, got %+v", last)
	}
	if len(clan.Quests) != 1 {
		t.Fatalf("quests = %d, want the weekly quest", len(clan.Quests))
	}
	q := clan.Quests[0]
	if q.Target != 5000 || q.Progress != 1250 || q.RewardMinutes != 500 || q.Status != QuestActive {
		t.Errorf("weekly quest = %+v", q)
	}
}

func TestJoinClan_UnknownIDUsesDefaults(t *testing.T) {
	clan := JoinClan("c-somewhere", founder())
	if clan.Name != "Public Clan" || clan.Members != 43 {
		t.Errorf("clan = %q with %d members, want defaults", clan.Name, clan.Members)
	}
}

func TestJoinClan_ExactlyOneOwner(t *testing.T) {
	clan := JoinClan("c_night", founder())
	owners := 0
	for _, m := range clan.MemberList {
		if m.Role == RoleOwner {
			owners++
		}
	}
	if owners != 1 {
		t.Errorf("owner count = %d, want 1", owners)
	}
}

func TestChangeRole_PromotionDemotesPriorOwner(t *testing.T) {
	clan := testClan()
	clan.MemberList = append(clan.MemberList, ClanMember{ID: "m2", Name: "Second", Role: RoleMember})

	next, err := ChangeRole(*clan, "m2", RoleOwner)
	if err != nil {
		t.Fatal(err)
	}

	owners := 0
	for _, m := range next.MemberList {
		if m.Role == RoleOwner {
			owners++
			if m.ID != "m2" {
				t.Errorf("owner is %q, want m2", m.ID)
			}
		}
		if m.ID == "user-1" && m.Role != RoleAdmin {
			t.Errorf("prior owner role = %s, want admin", m.Role)
		}
	}
	if owners != 1 {
		t.Errorf("owner count = %d, want exactly 1", owners)
	}
	if next.OwnerID != "m2" {
		t.Errorf("OwnerID = %q, want m2", next.OwnerID)
	}
}

func TestChangeRole_UnknownMember(t *testing.T) {
	clan := testClan()
	_, err := ChangeRole(*clan, "ghost", RoleAdmin)
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("error = %v, want ErrMemberNotFound", err)
	}
}

func TestLeave_OwnerTransfersToAdmin(t *testing.T) {
	clan := testClan()
	clan.MemberList = append(clan.MemberList,
		ClanMember{ID: "m2", Name: "Plain", Role: RoleMember},
		ClanMember{ID: "m3", Name: "Deputy", Role: RoleAdmin},
	)
	clan.Members = 3

	next, ok := Leave(*clan, "user-1")
	if !ok {
		t.Fatal("clan dissolved, want transfer")
	}
	if next.OwnerID != "m3" {
		t.Errorf("successor = %q, want the admin m3", next.OwnerID)
	}
	for _, m := range next.MemberList {
		if m.ID == "m3" && m.Role != RoleOwner {
			t.Errorf("successor role = %s, want owner", m.Role)
		}
	}
	if next.Members != 2 {
		t.Errorf("members = %d, want 2", next.Members)
	}
}

func TestLeave_OwnerTransfersToArbitraryMemberWithoutAdmin(t *testing.T) {
	clan := testClan()
	clan.MemberList = append(clan.MemberList, ClanMember{ID: "m2", Role: RoleMember})

	next, ok := Leave(*clan, "user-1")
	if !ok {
		t.Fatal("clan dissolved, want transfer")
	}
	if next.OwnerID != "m2" {
		t.Errorf("successor = %q, want m2", next.OwnerID)
	}
}

func TestLeave_LastMemberDissolvesClan(t *testing.T) {
	clan := testClan()
	if _, ok := Leave(*clan, "user-1"); ok {
		t.Error("clan with no remaining members should dissolve")
	}
}

func TestUpsertQuest_ReplacesByID(t *testing.T) {
	clan := testClan(ClanQuest{ID: "q1", Title: "Old", Target: 100, Status: QuestActive})
	next := UpsertQuest(*clan, ClanQuest{ID: "q1", Title: "New", Target: 200, Status: QuestActive})
	if len(next.Quests) != 1 || next.Quests[0].Title != "New" {
		t.Errorf("quests = %+v", next.Quests)
	}
}

func TestUpsertQuest_AppendsNewAndAssignsID(t *testing.T) {
	clan := testClan()
	next := UpsertQuest(*clan, ClanQuest{Title: "Fresh", Target: 50, Status: QuestActive})
	if len(next.Quests) != 1 {
		t.Fatalf("quests = %d, want 1", len(next.Quests))
	}
	if next.Quests[0].ID == "" {
		t.Error("new quest should receive an id")
	}
}

func TestRemoveQuest(t *testing.T) {
	clan := testClan(
		ClanQuest{ID: "q1", Status: QuestActive},
		ClanQuest{ID: "q2", Status: QuestActive},
	)
	next := RemoveQuest(*clan, "q1")
	if len(next.Quests) != 1 || next.Quests[0].ID != "q2" {
		t.Errorf("quests = %+v", next.Quests)
	}
}

func TestAddMember_CountsRoster(t *testing.T) {
	clan := testClan()
	next := AddMember(*clan, ClanMember{Name: "Bot"})
	if next.Members != 2 || len(next.MemberList) != 2 {
		t.Errorf("members = %d, roster = %d", next.Members, len(next.MemberList))
	}
	if next.MemberList[1].Role != RoleMember {
		t.Errorf("default role = %s", next.MemberList[1].Role)
	}
}
