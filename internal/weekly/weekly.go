// Package weekly tracks "N times per week" tasks: counting completions inside
// the Monday-start calendar week containing a date and reporting progress
// against the task's target.
package weekly

import (
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/model"
)

// Progress is the weekly-target state of a task inside one calendar week.
// Count is the raw number of completions and is deliberately not capped, so
// overcompletion ("5 this week!") stays visible. Consumers feeding aggregate
// percentages must go through CappedContribution instead.
type Progress struct {
	Count  int
	Target int
	IsMet  bool
}

// CompletionsInWeek counts the task's completion events whose day falls
// inside the week containing anyDateInWeek.
func CompletionsInWeek(events []model.CompletionEvent, anyDateInWeek time.Time) int {
	count := 0
	for _, e := range events {
		if calendar.InWeekOf(e.Day, anyDateInWeek) {
			count++
		}
	}
	return count
}

// WeekProgress reports the weekly-target progress of a task for the week
// containing date. Tasks without a weekly-target frequency report a zero
// target and are never met.
func WeekProgress(task model.Task, events []model.CompletionEvent, date time.Time) Progress {
	count := CompletionsInWeek(events, date)
	target := 0
	if task.Frequency.Kind == model.FrequencyKindWeeklyTarget {
		target = task.Frequency.TargetPerWeek
	}

	return Progress{
		Count:  count,
		Target: target,
		IsMet:  target > 0 && count >= target,
	}
}

// CappedContribution is the numerator a weekly-target task contributes to
// aggregate completion percentages: the raw count capped at the target, so a
// task completed 5 times against a target of 3 contributes 3/3 and progress
// stays bounded at 100%. Every aggregation site must use this instead of the
// raw count.
func CappedContribution(p Progress) int {
	if p.Count > p.Target {
		return p.Target
	}
	return p.Count
}
