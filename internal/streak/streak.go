// Package streak turns a task's completion log into streak state: current
// streak, longest streak and a health classification. Everything here is a
// pure computation over the log and an injected "now", the system clock is
// never read internally.
package streak

import (
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/recurrence"
)

// Compute returns the full derived streak state of a task at the given time.
func Compute(task model.Task, events []model.CompletionEvent, now time.Time) model.Streak {
	completed := completedDays(events)

	return model.Streak{
		Current: CurrentStreak(task, events, now),
		Longest: LongestStreak(events),
		Health:  classifyHealth(task.Frequency, calendar.DayOf(task.CreatedAt), completed, calendar.DayOf(now)),
	}
}

// CurrentStreak counts consecutive due-and-completed days ending today.
// Days that are not due are skipped. The walk stops at the first due day
// without a completion, with two exceptions:
//   - Today being due but not completed yet does not break the streak, the
//     day is still in progress.
//   - While today is still completable, the single most recent missed due day
//     is forgiven ("never miss twice"): the streak stays numerically intact
//     until a second consecutive due day is missed.
func CurrentStreak(task model.Task, events []model.CompletionEvent, now time.Time) int {
	completed := completedDays(events)
	createdDay := calendar.DayOf(task.CreatedAt)
	day := calendar.DayOf(now)

	// A completion on today's due day closes the grace window: the streak
	// either continued or restarted there. While the most recent due action is
	// still pending, one miss stays forgivable.
	graceAvailable := true
	if recurrence.IsDue(task.Frequency, day) {
		if completed[day] {
			graceAvailable = false
		} else {
			day = calendar.PrevDay(day)
		}
	}

	streak := 0
	graceUsed := false
	for ; !day.Before(createdDay); day = calendar.PrevDay(day) {
		if !recurrence.IsDue(task.Frequency, day) {
			continue
		}
		if completed[day] {
			streak++
			continue
		}
		// Grace only ever applies to the most recent due day.
		if graceAvailable && !graceUsed && streak == 0 {
			graceUsed = true
			continue
		}
		break
	}

	return streak
}

// LongestStreak scans the full completion history forward in time: any two
// completions exactly one calendar day apart extend a running counter, any
// larger gap resets it to 1. Events are expected ordered by day ascending,
// which is the completion log store contract.
func LongestStreak(events []model.CompletionEvent) int {
	if len(events) == 0 {
		return 0
	}

	longest := 1
	run := 1
	for i := 1; i < len(events); i++ {
		if calendar.DaysBetween(events[i-1].Day, events[i].Day) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return longest
}

// classifyHealth classifies the streak state of a task:
//
//   - Healthy: the most recent resolved due day was completed with no miss
//     right before it, or there is nothing to judge yet.
//   - AtRisk: exactly one missed due day and today still completable, the
//     streak survives but one more miss breaks it.
//   - Recovered: a single missed due day followed by a completion on the very
//     next due day.
//   - Broken: two or more consecutive due days missed.
//
// Today is excluded from miss counting while it is due but not completed,
// the day is not over.
func classifyHealth(f model.Frequency, createdDay time.Time, completed map[time.Time]bool, today time.Time) model.StreakHealth {
	// Most recent resolved due day: today only counts once completed.
	ref := time.Time{}
	day := today
	if recurrence.IsDue(f, day) && !completed[day] {
		day = calendar.PrevDay(day)
	}
	for ; !day.Before(createdDay); day = calendar.PrevDay(day) {
		if recurrence.IsDue(f, day) {
			ref = day
			break
		}
	}
	if ref.IsZero() {
		// Zero due days since creation, vacuously healthy.
		return model.StreakHealthHealthy
	}

	if completed[ref] {
		switch missesBefore(f, createdDay, completed, ref) {
		case 0:
			return model.StreakHealthHealthy
		case 1:
			return model.StreakHealthRecovered
		default:
			// The break already happened, the completion started a new streak.
			return model.StreakHealthHealthy
		}
	}

	// Most recent resolved due day missed: one miss is recoverable, two or
	// more is a broken streak.
	if missesBefore(f, createdDay, completed, ref) >= 1 {
		return model.StreakHealthBroken
	}
	return model.StreakHealthAtRisk
}

// missesBefore counts consecutive missed due days immediately before (and not
// including) the given due day.
func missesBefore(f model.Frequency, createdDay time.Time, completed map[time.Time]bool, dueDay time.Time) int {
	misses := 0
	for day := calendar.PrevDay(dueDay); !day.Before(createdDay); day = calendar.PrevDay(day) {
		if !recurrence.IsDue(f, day) {
			continue
		}
		if completed[day] {
			break
		}
		misses++
	}
	return misses
}

func completedDays(events []model.CompletionEvent) map[time.Time]bool {
	days := make(map[time.Time]bool, len(events))
	for _, e := range events {
		days[calendar.DayOf(e.Day)] = true
	}
	return days
}
