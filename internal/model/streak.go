package model

// StreakHealth classifies the state of a task's current streak. It is a UI
// affordance computed on demand, never stored.
type StreakHealth string

const (
	// StreakHealthHealthy means the most recent due day was completed (or the
	// task has had no due days yet).
	StreakHealthHealthy StreakHealth = "healthy"
	// StreakHealthAtRisk means exactly one due day was missed and today is
	// still completable. One more miss breaks the streak.
	StreakHealthAtRisk StreakHealth = "at-risk"
	// StreakHealthRecovered means a single missed due day was followed by a
	// completion on the very next due day ("never miss twice").
	StreakHealthRecovered StreakHealth = "recovered"
	// StreakHealthBroken means two or more consecutive due days were missed.
	StreakHealthBroken StreakHealth = "broken"
)

// Streak is the derived streak state of a task.
type Streak struct {
	Current int
	Longest int
	Health  StreakHealth
}
