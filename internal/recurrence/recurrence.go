// Package recurrence evaluates whether a task's frequency rule makes it due
// on a given calendar date. The evaluation is a pure total function: frequency
// values are validated at construction time, so there is nothing to fail here.
package recurrence

import (
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/model"
)

// IsDue returns true when the frequency makes the task due on the given date.
//
// Weekly-target tasks are never due on a specific day: surfacing them in a
// daily due list every day until the target is met creates day-by-day pressure
// the weekly tracker is meant to avoid, so they are tracked exclusively
// through the weekly package.
func IsDue(f model.Frequency, date time.Time) bool {
	iso := calendar.ISOWeekday(date)

	switch f.Kind {
	case model.FrequencyKindDaily:
		return true
	case model.FrequencyKindWeekdays:
		return iso >= 1 && iso <= 5
	case model.FrequencyKindWeekends:
		return iso == 6 || iso == 7
	case model.FrequencyKindSpecificWeekdays:
		return f.ContainsWeekday(date.UTC().Weekday())
	case model.FrequencyKindWeeklyTarget:
		return false
	default:
		// Unreachable for constructor-built values, the zero frequency is due
		// nowhere rather than silently falling back to daily.
		return false
	}
}

// DueDaysBetween counts the due days of a frequency in [from, to], inclusive
// on both ends. Returns 0 when to is before from.
func DueDaysBetween(f model.Frequency, from, to time.Time) int {
	from = calendar.DayOf(from)
	to = calendar.DayOf(to)

	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if IsDue(f, day) {
			count++
		}
	}
	return count
}
