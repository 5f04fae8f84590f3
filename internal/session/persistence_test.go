package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zenscreen/zenscreen/internal/engine"
)

func TestFileStore_LoadMissingReturnsFreshProfile(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	st, err := fs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if st.TimeBank != 120 {
		t.Errorf("TimeBank = %d, want the starting 120", st.TimeBank)
	}
	if len(st.ActiveTasks) == 0 || len(st.Apps) == 0 {
		t.Error("fresh profile missing starter tasks or apps")
	}
	if st.Avatar.Level != 1 || st.Avatar.EvolutionStage != 1 {
		t.Errorf("fresh avatar = %+v", st.Avatar)
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	st := NewState()
	st.TimeBank = 777
	st.Avatar.Level = 6
	st.Avatar.EvolutionStage = 2
	st.Avatar.OwnedCosmetics = []string{"c1", "c5"}
	st.Avatar.EquippedCosmetics[engine.SlotHat] = "c1"
	clan := engine.JoinClan("c_zen", engine.ClanMember{ID: LocalUserID, Name: "Tester"})
	st.Clan = &clan
	// Transient fields must not survive the round trip.
	st.SelectedApp = &st.Apps[0]
	st.ActiveUnlock = &Unlock{AppID: "1", DurationMinutes: 10}

	if err := fs.Save(st); err != nil {
		t.Fatal(err)
	}

	got, err := fs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.TimeBank != 777 || got.Avatar.Level != 6 {
		t.Errorf("loaded TimeBank=%d level=%d", got.TimeBank, got.Avatar.Level)
	}
	if got.Avatar.EquippedCosmetics[engine.SlotHat] != "c1" {
		t.Errorf("equipped = %v", got.Avatar.EquippedCosmetics)
	}
	if got.Clan == nil || got.Clan.Name != "Zen Masters" {
		t.Errorf("clan = %+v", got.Clan)
	}
	if got.SelectedApp != nil || got.ActiveUnlock != nil {
		t.Error("transient selections were persisted")
	}
	if got.Version != stateVersion {
		t.Errorf("version = %d, want %d", got.Version, stateVersion)
	}
}

func TestFileStore_SaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	if err := fs.Save(NewState()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(fs.Path()) {
			t.Errorf("leftover file %q after save", e.Name())
		}
	}
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	if err := os.WriteFile(fs.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load(); err == nil {
		t.Error("Load on corrupt profile should fail, not reset silently")
	}
}
