package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FrequencyKind discriminates the frequency variants a task can have.
type FrequencyKind string

const (
	// FrequencyKindDaily means the task is due every calendar day.
	FrequencyKindDaily FrequencyKind = "daily"
	// FrequencyKindWeekdays means the task is due Monday through Friday.
	FrequencyKindWeekdays FrequencyKind = "weekdays"
	// FrequencyKindWeekends means the task is due Saturday and Sunday.
	FrequencyKindWeekends FrequencyKind = "weekends"
	// FrequencyKindSpecificWeekdays means the task is due on a fixed set of weekdays.
	FrequencyKindSpecificWeekdays FrequencyKind = "specific-weekdays"
	// FrequencyKindWeeklyTarget means the task must be completed N times per
	// calendar week, on no particular day.
	FrequencyKindWeeklyTarget FrequencyKind = "weekly-target"
)

// Frequency is the recurrence rule of a task. It is a tagged union: Kind
// selects the variant, Weekdays is only meaningful for specific-weekdays and
// TargetPerWeek only for weekly-target.
//
// Values must be built through the New* constructors so invalid rules are
// rejected at construction time and evaluation never has to handle them.
type Frequency struct {
	Kind          FrequencyKind
	Weekdays      []time.Weekday
	TargetPerWeek int
}

// NewDaily returns a frequency due every day.
func NewDaily() Frequency {
	return Frequency{Kind: FrequencyKindDaily}
}

// NewWeekdays returns a frequency due Monday through Friday.
func NewWeekdays() Frequency {
	return Frequency{Kind: FrequencyKindWeekdays}
}

// NewWeekends returns a frequency due Saturday and Sunday.
func NewWeekends() Frequency {
	return Frequency{Kind: FrequencyKindWeekends}
}

// NewSpecificWeekdays returns a frequency due on the given weekdays. The set
// must be non-empty; duplicates are collapsed.
func NewSpecificWeekdays(days ...time.Weekday) (Frequency, error) {
	if len(days) == 0 {
		return Frequency{}, fmt.Errorf("weekday set must not be empty: %w", ErrNotValid)
	}

	seen := map[time.Weekday]bool{}
	unique := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return Frequency{}, fmt.Errorf("weekday %d out of range: %w", d, ErrNotValid)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	return Frequency{Kind: FrequencyKindSpecificWeekdays, Weekdays: unique}, nil
}

// NewWeeklyTarget returns a frequency requiring the task to be completed
// target times per calendar week. Target must be at least 1.
func NewWeeklyTarget(target int) (Frequency, error) {
	if target < 1 {
		return Frequency{}, fmt.Errorf("weekly target must be at least 1, got %d: %w", target, ErrNotValid)
	}

	return Frequency{Kind: FrequencyKindWeeklyTarget, TargetPerWeek: target}, nil
}

// Validate validates the frequency value.
func (f Frequency) Validate() error {
	switch f.Kind {
	case FrequencyKindDaily, FrequencyKindWeekdays, FrequencyKindWeekends:
		return nil
	case FrequencyKindSpecificWeekdays:
		if len(f.Weekdays) == 0 {
			return fmt.Errorf("weekday set must not be empty: %w", ErrNotValid)
		}
		for _, d := range f.Weekdays {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("weekday %d out of range: %w", d, ErrNotValid)
			}
		}
		return nil
	case FrequencyKindWeeklyTarget:
		if f.TargetPerWeek < 1 {
			return fmt.Errorf("weekly target must be at least 1: %w", ErrNotValid)
		}
		return nil
	default:
		return fmt.Errorf("unknown frequency kind %q: %w", f.Kind, ErrNotValid)
	}
}

// ContainsWeekday returns true if the specific-weekdays set contains the day.
func (f Frequency) ContainsWeekday(d time.Weekday) bool {
	for _, wd := range f.Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}

// String returns a human readable representation used by CLI output.
func (f Frequency) String() string {
	switch f.Kind {
	case FrequencyKindSpecificWeekdays:
		names := make([]string, 0, len(f.Weekdays))
		for _, d := range f.Weekdays {
			names = append(names, d.String()[:3])
		}
		return strings.Join(names, ",")
	case FrequencyKindWeeklyTarget:
		return fmt.Sprintf("%dx/week", f.TargetPerWeek)
	default:
		return string(f.Kind)
	}
}
