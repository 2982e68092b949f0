package recurrence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/recurrence"
)

// 2026-03-09 is a Monday.
func day(offset int) time.Time {
	return time.Date(2026, 3, 9+offset, 0, 0, 0, 0, time.UTC)
}

func TestIsDue(t *testing.T) {
	specific, err := model.NewSpecificWeekdays(time.Monday, time.Thursday)
	require.NoError(t, err)

	weekly, err := model.NewWeeklyTarget(3)
	require.NoError(t, err)

	tests := map[string]struct {
		freq   model.Frequency
		date   time.Time
		expDue bool
	}{
		"daily should be due on a monday": {
			freq: model.NewDaily(), date: day(0), expDue: true,
		},
		"daily should be due on a sunday": {
			freq: model.NewDaily(), date: day(6), expDue: true,
		},
		"weekdays should be due on a friday": {
			freq: model.NewWeekdays(), date: day(4), expDue: true,
		},
		"weekdays should not be due on a saturday": {
			freq: model.NewWeekdays(), date: day(5), expDue: false,
		},
		"weekends should be due on a sunday": {
			freq: model.NewWeekends(), date: day(6), expDue: true,
		},
		"weekends should not be due on a wednesday": {
			freq: model.NewWeekends(), date: day(2), expDue: false,
		},
		"specific weekdays should be due on a listed day": {
			freq: specific, date: day(3), expDue: true,
		},
		"specific weekdays should not be due on an unlisted day": {
			freq: specific, date: day(1), expDue: false,
		},
		"weekly target should never be due on any day": {
			freq: weekly, date: day(0), expDue: false,
		},
		"zero frequency should be due nowhere": {
			freq: model.Frequency{}, date: day(0), expDue: false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expDue, recurrence.IsDue(test.freq, test.date))
		})
	}
}

func TestIsDueIsDeterministic(t *testing.T) {
	specific, err := model.NewSpecificWeekdays(time.Tuesday)
	require.NoError(t, err)

	for i := 0; i < 14; i++ {
		d := day(i)
		first := recurrence.IsDue(specific, d)
		for j := 0; j < 5; j++ {
			assert.Equal(t, first, recurrence.IsDue(specific, d))
		}
	}
}

func TestDueDaysBetween(t *testing.T) {
	tests := map[string]struct {
		freq     model.Frequency
		from, to time.Time
		expCount int
	}{
		"daily over a full week should count every day": {
			freq: model.NewDaily(), from: day(0), to: day(6), expCount: 7,
		},
		"weekdays over a full week should count five": {
			freq: model.NewWeekdays(), from: day(0), to: day(6), expCount: 5,
		},
		"weekends over a full week should count two": {
			freq: model.NewWeekends(), from: day(0), to: day(6), expCount: 2,
		},
		"inverted range should count zero": {
			freq: model.NewDaily(), from: day(3), to: day(1), expCount: 0,
		},
		"single due day range should count one": {
			freq: model.NewDaily(), from: day(2), to: day(2), expCount: 1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expCount, recurrence.DueDaysBetween(test.freq, test.from, test.to))
		})
	}
}
