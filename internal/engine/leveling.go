package engine

import (
	"errors"
	"fmt"
)

// xpPerLevel is the threshold multiplier: advancing from level L costs L*100 XP.
const xpPerLevel = 100

// maxLevelsPerGrant bounds the carry loop in ApplyXP. The reward ceiling
// guarantees far fewer iterations than this; hitting the bound means the
// input was not validated upstream.
const maxLevelsPerGrant = 10000

// ErrNegativeXP is returned when a grant would subtract experience.
var ErrNegativeXP = errors.New("xp grant must be non-negative")

// XPThreshold returns the experience needed to advance from the given level.
func XPThreshold(level int) int {
	return level * xpPerLevel
}

// StageForLevel maps a level to its evolution stage.
// Stages are coarse visual tiers: 2 at level 5, 3 at 10, 4 at 15, 5 at 20.
func StageForLevel(level int) int {
	switch {
	case level >= 20:
		return 5
	case level >= 15:
		return 4
	case level >= 10:
		return 3
	case level >= 5:
		return 2
	default:
		return 1
	}
}

// ApplyXP adds xpGained to the avatar's experience and advances levels while
// the experience meets the current level's threshold, carrying the remainder.
// It returns the new avatar and the number of levels gained.
//
// The evolution stage is recomputed from the new level but never lowered:
// an avatar that reached a stage keeps it even if the level rules change.
func ApplyXP(avatar Avatar, xpGained int) (Avatar, int, error) {
	if xpGained < 0 {
		return avatar, 0, fmt.Errorf("%w: %d", ErrNegativeXP, xpGained)
	}

	next := avatar.Clone()
	next.Experience += xpGained

	gained := 0
	for next.Experience >= XPThreshold(next.Level) {
		if gained >= maxLevelsPerGrant {
			return avatar, 0, fmt.Errorf("xp grant of %d exceeds the leveling bound", xpGained)
		}
		next.Experience -= XPThreshold(next.Level)
		next.Level++
		gained++
	}

	if stage := StageForLevel(next.Level); stage > next.EvolutionStage {
		next.EvolutionStage = stage
	}
	return next, gained, nil
}

// CheatLevelUp grants exactly the experience needed to cross the next level
// threshold, resetting experience to zero rather than carrying a remainder.
// This is a deliberately simpler rule than ApplyXP and always gains exactly
// one level. It returns the new avatar and the amount of XP granted, which
// the caller also credits to the time bank.
func CheatLevelUp(avatar Avatar) (Avatar, int) {
	granted := XPThreshold(avatar.Level) - avatar.Experience

	next := avatar.Clone()
	next.Level++
	next.Experience = 0
	if stage := StageForLevel(next.Level); stage > next.EvolutionStage {
		next.EvolutionStage = stage
	}
	return next, granted
}

// LevelUpMessage returns the notification text for a leveling pass, or an
// empty string when no level was gained.
func LevelUpMessage(levelsGained int) string {
	switch {
	case levelsGained == 1:
		return "Level Up! Evolution Progressed."
	case levelsGained > 1:
		return fmt.Sprintf("Level Up! You gained %d levels!", levelsGained)
	default:
		return ""
	}
}
