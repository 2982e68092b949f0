package model

import (
	"fmt"
	"time"
)

// AchievementCategory selects which profile counter an achievement criterion
// is evaluated against.
type AchievementCategory string

const (
	// AchievementCategoryCompletions counts total task completions.
	AchievementCategoryCompletions AchievementCategory = "completions"
	// AchievementCategoryStreak counts the longest streak ever observed.
	AchievementCategoryStreak AchievementCategory = "streak"
	// AchievementCategoryTasks counts tasks created.
	AchievementCategoryTasks AchievementCategory = "tasks"
	// AchievementCategorySystems counts systems created.
	AchievementCategorySystems AchievementCategory = "systems"
	// AchievementCategoryLevel is the profile level itself.
	AchievementCategoryLevel AchievementCategory = "level"
)

// IsValid returns true when the category is a known one.
func (c AchievementCategory) IsValid() bool {
	switch c {
	case AchievementCategoryCompletions, AchievementCategoryStreak,
		AchievementCategoryTasks, AchievementCategorySystems, AchievementCategoryLevel:
		return true
	default:
		return false
	}
}

// Achievement is a badge with a counter criterion and an XP reward. Once
// unlocked it never reverts to locked.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Category    AchievementCategory
	Threshold   int
	XPReward    int
	Unlocked    bool
	UnlockedAt  *time.Time
}

// Validate validates the achievement.
func (a *Achievement) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if a.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if !a.Category.IsValid() {
		return fmt.Errorf("unknown category %q: %w", a.Category, ErrNotValid)
	}
	if a.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1: %w", ErrNotValid)
	}
	if a.XPReward < 0 {
		return fmt.Errorf("xp reward must not be negative: %w", ErrNotValid)
	}

	return nil
}

// Progress returns how far a counter value is toward the threshold, in
// [0.0, 1.0]. Unlocked achievements always report 1.0.
func (a *Achievement) Progress(counter int) float64 {
	if a.Unlocked {
		return 1.0
	}
	if a.Threshold <= 0 {
		return 0.0
	}

	p := float64(counter) / float64(a.Threshold)
	if p > 1.0 {
		p = 1.0
	}
	if p < 0.0 {
		p = 0.0
	}
	return p
}
