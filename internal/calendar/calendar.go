// Package calendar implements the day and week arithmetic the rest of the
// derived-state engines are built on. All math happens on UTC midnights so a
// "calendar day" is a single comparable value.
package calendar

import (
	"time"
)

// DayOf normalizes a timestamp to the start of its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b. Negative
// when b is before a.
func DaysBetween(a, b time.Time) int {
	a = DayOf(a)
	b = DayOf(b)
	return int(b.Sub(a).Hours() / 24)
}

// ISOWeekday returns the ISO-8601 weekday number of a day: Monday is 1,
// Sunday is 7.
func ISOWeekday(t time.Time) int {
	wd := int(t.UTC().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekStart returns the Monday-start boundary of the week containing t,
// normalized to midnight UTC. The Monday convention is fixed for the whole
// system, it must not vary per locale.
func WeekStart(t time.Time) time.Time {
	day := DayOf(t)
	return day.AddDate(0, 0, -(ISOWeekday(day) - 1))
}

// SameWeek returns true when both timestamps fall in the same Monday-start
// calendar week.
func SameWeek(a, b time.Time) bool {
	return WeekStart(a).Equal(WeekStart(b))
}

// InWeekOf returns true when day falls inside the week containing anchor.
func InWeekOf(day, anchor time.Time) bool {
	start := WeekStart(anchor)
	end := start.AddDate(0, 0, 7)
	d := DayOf(day)
	return !d.Before(start) && d.Before(end)
}

// PrevDay returns the calendar day before t.
func PrevDay(t time.Time) time.Time {
	return DayOf(t).AddDate(0, 0, -1)
}
