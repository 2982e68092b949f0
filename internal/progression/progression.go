// Package progression converts completion activity into experience points,
// levels and achievement unlocks. The level curve is a fixed power law and
// everything operating on the profile is monotonic: XP and levels never
// decrease.
package progression

import (
	"fmt"
	"math"
	"time"

	"github.com/slok/cadence/internal/model"
)

const (
	// xpRequiredCoef is the constant of the level curve: XP_req = 50 * L^1.5.
	xpRequiredCoef = 50.0

	// BaseCompletionXP is the XP awarded for completing a task on a day.
	BaseCompletionXP = 10
)

// XPRequiredForLevel returns the total XP threshold required to be at the
// given level. Level 1 (and anything below) requires 0 XP.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Floor(xpRequiredCoef * math.Pow(float64(level), 1.5)))
}

// LevelForTotalXP returns the highest level L such that
// XPRequiredForLevel(L) <= totalXP. The minimum level is 1.
func LevelForTotalXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}

	// Exponential search upper bound, then binary search.
	low := 1
	high := 2
	for XPRequiredForLevel(high) <= totalXP {
		low = high
		high *= 2
		if high > 1_000_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if XPRequiredForLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// AwardXP adds amount to the profile's total XP and recomputes the level.
// It returns the profile level after the award and whether it increased, so
// callers can trigger level-up notifications. Negative amounts are rejected,
// total XP is monotonic.
func AwardXP(p *model.ProgressProfile, amount int) (newLevel int, leveledUp bool, err error) {
	if amount < 0 {
		return 0, false, fmt.Errorf("xp award must not be negative, got %d: %w", amount, model.ErrNotValid)
	}

	// A freshly created profile carries level 0, settle it before comparing.
	if p.Level == 0 {
		p.Level = LevelForTotalXP(p.TotalXP)
	}

	p.TotalXP += amount
	level := LevelForTotalXP(p.TotalXP)
	if level > p.Level {
		p.Level = level
		return level, true, nil
	}

	return p.Level, false, nil
}

// CounterFor returns the profile counter an achievement category is evaluated
// against.
func CounterFor(p model.ProgressProfile, c model.AchievementCategory) int {
	switch c {
	case model.AchievementCategoryCompletions:
		return p.CompletionsTotal
	case model.AchievementCategoryStreak:
		return p.LongestStreakEver
	case model.AchievementCategoryTasks:
		return p.TasksCreated
	case model.AchievementCategorySystems:
		return p.SystemsCreated
	case model.AchievementCategoryLevel:
		return LevelForTotalXP(p.TotalXP)
	default:
		return 0
	}
}

// Unlock is the pure delta of one achievement unlock. Evaluation never
// mutates shared state, the caller applies the deltas.
type Unlock struct {
	AchievementID string
	XPReward      int
	UnlockedAt    time.Time
}

// EvaluateAchievements returns the achievements whose criterion the profile
// now meets and that are still locked. Calling it twice with no intervening
// counter change returns an empty list the second time, once the first list
// has been applied.
func EvaluateAchievements(p model.ProgressProfile, achievements []model.Achievement, now time.Time) []Unlock {
	unlocks := []Unlock{}
	for _, a := range achievements {
		if a.Unlocked {
			continue
		}
		if CounterFor(p, a.Category) >= a.Threshold {
			unlocks = append(unlocks, Unlock{
				AchievementID: a.ID,
				XPReward:      a.XPReward,
				UnlockedAt:    now,
			})
		}
	}

	return unlocks
}

// ApplyUnlocks marks the unlocked achievements and awards their XP rewards on
// the profile. It returns the updated achievement values (only the unlocked
// ones) and whether any reward caused a level-up.
func ApplyUnlocks(p *model.ProgressProfile, achievements []model.Achievement, unlocks []Unlock) ([]model.Achievement, bool, error) {
	byID := make(map[string]model.Achievement, len(achievements))
	for _, a := range achievements {
		byID[a.ID] = a
	}

	leveledUp := false
	updated := make([]model.Achievement, 0, len(unlocks))
	for _, u := range unlocks {
		a, ok := byID[u.AchievementID]
		if !ok {
			return nil, false, fmt.Errorf("achievement %s: %w", u.AchievementID, model.ErrNotFound)
		}
		if a.Unlocked {
			continue
		}

		unlockedAt := u.UnlockedAt
		a.Unlocked = true
		a.UnlockedAt = &unlockedAt

		_, up, err := AwardXP(p, u.XPReward)
		if err != nil {
			return nil, false, fmt.Errorf("could not award achievement xp: %w", err)
		}
		leveledUp = leveledUp || up

		updated = append(updated, a)
	}

	return updated, leveledUp, nil
}
