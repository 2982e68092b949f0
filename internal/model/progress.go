package model

import (
	"fmt"
)

// ProgressProfile holds the user-space progression state: monotonic total XP,
// the level derived from it, and the cumulative counters achievements are
// evaluated against. XP and counters never decrease.
type ProgressProfile struct {
	TotalXP int
	Level   int

	// Cumulative counters, achievement-criteria inputs only.
	CompletionsTotal  int
	TasksCreated      int
	SystemsCreated    int
	LongestStreakEver int
}

// Validate validates the progress profile.
func (p *ProgressProfile) Validate() error {
	if p.TotalXP < 0 {
		return fmt.Errorf("total xp must not be negative: %w", ErrNotValid)
	}
	if p.Level < 0 {
		return fmt.Errorf("level must not be negative: %w", ErrNotValid)
	}
	if p.CompletionsTotal < 0 || p.TasksCreated < 0 || p.SystemsCreated < 0 || p.LongestStreakEver < 0 {
		return fmt.Errorf("counters must not be negative: %w", ErrNotValid)
	}

	return nil
}
