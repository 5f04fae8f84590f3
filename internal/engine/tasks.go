package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidTask is returned for tasks missing required fields.
var ErrInvalidTask = errors.New("invalid task")

// StarterTasks returns the tasks every fresh profile begins with.
func StarterTasks() []Task {
	return []Task{
		{ID: "t1", Title: "Deep Stretching", Description: "Full body stretch routine.", DurationMinutes: 15, RewardMinutes: 15, Category: CategoryFitness},
		{ID: "t2", Title: "Quick Walk", Description: "Walk around the block without phone.", DurationMinutes: 10, RewardMinutes: 12, Category: CategoryFitness},
		{ID: "t3", Title: "Read a Book", Description: "Read physical pages.", DurationMinutes: 30, RewardMinutes: 40, Category: CategoryFocus},
	}
}

// StarterApps returns the simulated app grid for a fresh profile.
func StarterApps() []App {
	return []App{
		{ID: "1", Name: "Instagram", Icon: "Camera", Color: "#db2777", Blocked: true},
		{ID: "2", Name: "TikTok", Icon: "Music2", Color: "#000000", Blocked: true},
		{ID: "3", Name: "Twitter", Icon: "Twitter", Color: "#60a5fa", Blocked: true},
		{ID: "4", Name: "YouTube", Icon: "Video", Color: "#dc2626", Blocked: true},
		{ID: "5", Name: "Reddit", Icon: "MessageCircle", Color: "#f97316", Blocked: false},
		{ID: "6", Name: "Facebook", Icon: "Facebook", Color: "#2563eb", Blocked: true},
		{ID: "7", Name: "Snapchat", Icon: "Ghost", Color: "#facc15", Blocked: true},
		{ID: "8", Name: "Games", Icon: "Gamepad2", Color: "#9333ea", Blocked: true},
	}
}

// QuickTasks returns the "do something else instead" options offered in the
// spend flow. Choosing one adds it to the active task list at no cost.
func QuickTasks() []Task {
	return []Task{
		{Title: "Mindful Breathing", Description: "Five minutes of slow breathing.", DurationMinutes: 5, RewardMinutes: 6, Category: CategoryWindDown},
		{Title: "Tidy One Surface", Description: "Clear a desk or counter completely.", DurationMinutes: 10, RewardMinutes: 12, Category: CategoryGeneral},
		{Title: "Step Outside", Description: "Get fresh air, no phone.", DurationMinutes: 10, RewardMinutes: 12, Category: CategoryFitness},
	}
}

// NewTask validates and constructs a custom task. The reward is stored
// as given; the ceiling is applied at completion time, not here.
func NewTask(title, description string, durationMinutes, rewardMinutes int) (Task, error) {
	if title == "" {
		return Task{}, fmt.Errorf("%w: title required", ErrInvalidTask)
	}
	if durationMinutes <= 0 {
		return Task{}, fmt.Errorf("%w: duration must be positive", ErrInvalidTask)
	}
	if rewardMinutes < 0 {
		return Task{}, fmt.Errorf("%w: reward must be non-negative", ErrInvalidTask)
	}
	return Task{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     description,
		DurationMinutes: durationMinutes,
		RewardMinutes:   rewardMinutes,
		Category:        CategoryGeneral,
		IsCustom:        true,
	}, nil
}

// NewAvatar returns the starting avatar for a fresh profile.
func NewAvatar() Avatar {
	return Avatar{
		Level:             1,
		Experience:        0,
		EvolutionStage:    1,
		Name:              "Digital Novice",
		FlavorText:        "Just starting to disconnect to reconnect.",
		OwnedCosmetics:    []string{},
		EquippedCosmetics: map[SlotType]string{},
	}
}
