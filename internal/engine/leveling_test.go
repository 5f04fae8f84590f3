package engine

import (
	"errors"
	"testing"
)

func TestStageForLevel_Breakpoints(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 1}, {4, 1}, {5, 2}, {9, 2}, {10, 3},
		{14, 3}, {15, 4}, {19, 4}, {20, 5}, {25, 5},
	}
	for _, tc := range cases {
		if got := StageForLevel(tc.level); got != tc.want {
			t.Errorf("StageForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestStageForLevel_Monotonic(t *testing.T) {
	prev := 0
	for level := 1; level <= 30; level++ {
		stage := StageForLevel(level)
		if stage < prev {
			t.Fatalf("stage decreased from %d to %d at level %d", prev, stage, level)
		}
		prev = stage
	}
}

func TestApplyXP_CarriesRemainderAcrossLevels(t *testing.T) {
	cases := []struct {
		name       string
		level      int
		experience int
		gain       int
		wantLevel  int
		wantXP     int
		wantGained int
	}{
		{"no level", 1, 0, 50, 1, 50, 0},
		{"exact threshold", 1, 0, 100, 2, 0, 1},
		{"single level with carry", 2, 150, 60, 3, 10, 1},
		{"multiple levels", 1, 0, 450, 3, 150, 2},
		{"zero gain", 3, 299, 0, 3, 299, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			avatar := NewAvatar()
			avatar.Level = tc.level
			avatar.Experience = tc.experience

			next, gained, err := ApplyXP(avatar, tc.gain)
			if err != nil {
				t.Fatalf("ApplyXP: %v", err)
			}
			if next.Level != tc.wantLevel || next.Experience != tc.wantXP || gained != tc.wantGained {
				t.Errorf("got level=%d xp=%d gained=%d, want level=%d xp=%d gained=%d",
					next.Level, next.Experience, gained, tc.wantLevel, tc.wantXP, tc.wantGained)
			}
		})
	}
}

func TestApplyXP_ExperienceAlwaysBelowThreshold(t *testing.T) {
	for _, gain := range []int{0, 1, 99, 100, 101, 999, 12345, RewardCeiling} {
		avatar := NewAvatar()
		next, _, err := ApplyXP(avatar, gain)
		if err != nil {
			t.Fatalf("ApplyXP(%d): %v", gain, err)
		}
		if next.Experience >= XPThreshold(next.Level) {
			t.Errorf("gain %d: experience %d >= threshold %d at level %d",
				gain, next.Experience, XPThreshold(next.Level), next.Level)
		}
		if next.Level < avatar.Level {
			t.Errorf("gain %d: level went down from %d to %d", gain, avatar.Level, next.Level)
		}
	}
}

func TestApplyXP_RejectsNegative(t *testing.T) {
	avatar := NewAvatar()
	_, _, err := ApplyXP(avatar, -1)
	if !errors.Is(err, ErrNegativeXP) {
		t.Fatalf("ApplyXP(-1) error = %v, want ErrNegativeXP", err)
	}
}

func TestApplyXP_DoesNotMutateInput(t *testing.T) {
	avatar := NewAvatar()
	avatar.Experience = 90
	_, _, err := ApplyXP(avatar, 500)
	if err != nil {
		t.Fatal(err)
	}
	if avatar.Level != 1 || avatar.Experience != 90 {
		t.Errorf("input mutated: level=%d xp=%d", avatar.Level, avatar.Experience)
	}
}

func TestApplyXP_NeverLowersStage(t *testing.T) {
	avatar := NewAvatar()
	avatar.Level = 3
	avatar.EvolutionStage = 4 // higher than the level implies

	next, _, err := ApplyXP(avatar, 10)
	if err != nil {
		t.Fatal(err)
	}
	if next.EvolutionStage != 4 {
		t.Errorf("stage lowered to %d", next.EvolutionStage)
	}
}

func TestCheatLevelUp_GrantsExactlyOneLevel(t *testing.T) {
	avatar := NewAvatar()
	avatar.Level = 4
	avatar.Experience = 120

	next, granted := CheatLevelUp(avatar)
	if next.Level != 5 {
		t.Errorf("level = %d, want 5", next.Level)
	}
	if next.Experience != 0 {
		t.Errorf("experience = %d, want 0 (cheat resets, no carry)", next.Experience)
	}
	if want := XPThreshold(4) - 120; granted != want {
		t.Errorf("granted = %d, want %d", granted, want)
	}
	if next.EvolutionStage != 2 {
		t.Errorf("stage = %d, want 2 at level 5", next.EvolutionStage)
	}
}

func TestLevelUpMessage(t *testing.T) {
	if got := LevelUpMessage(0); got != "" {
		t.Errorf("LevelUpMessage(0) = %q, want empty", got)
	}
	if got := LevelUpMessage(1); got != "Level Up! Evolution Progressed." {
		t.Errorf("LevelUpMessage(1) = %q", got)
	}
	if got := LevelUpMessage(3); got != "Level Up! You gained 3 levels!" {
		t.Errorf("LevelUpMessage(3) = %q", got)
	}
}
