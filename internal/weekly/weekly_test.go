package weekly_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/weekly"
)

var monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return monday.AddDate(0, 0, offset)
}

func eventsOn(offsets ...int) []model.CompletionEvent {
	events := make([]model.CompletionEvent, 0, len(offsets))
	for _, o := range offsets {
		events = append(events, model.CompletionEvent{
			TaskID:     "t1",
			Day:        day(o),
			OccurredAt: day(o).Add(9 * time.Hour),
			Source:     model.EventSourceManual,
		})
	}
	return events
}

func weeklyTask(t *testing.T, target int) model.Task {
	t.Helper()
	freq, err := model.NewWeeklyTarget(target)
	require.NoError(t, err)
	return model.Task{ID: "t1", SystemID: "s1", Name: "gym", Frequency: freq, CreatedAt: monday}
}

func TestCompletionsInWeek(t *testing.T) {
	tests := map[string]struct {
		events   []model.CompletionEvent
		anchor   time.Time
		expCount int
	}{
		"no events should count zero": {
			events: nil, anchor: day(2), expCount: 0,
		},
		"events inside the week should count": {
			events: eventsOn(0, 2, 6), anchor: day(3), expCount: 3,
		},
		"events from adjacent weeks should not count": {
			events: eventsOn(-1, 0, 6, 7), anchor: day(3), expCount: 2,
		},
		"any date of the week resolves the same boundaries": {
			events: eventsOn(0, 6), anchor: day(6).Add(23 * time.Hour), expCount: 2,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expCount, weekly.CompletionsInWeek(test.events, test.anchor))
		})
	}
}

func TestWeekProgress(t *testing.T) {
	// A target of 3 with 2, then 3, then 4 completions.
	task := weeklyTask(t, 3)

	progress := weekly.WeekProgress(task, eventsOn(0, 1), day(3))
	assert.Equal(t, weekly.Progress{Count: 2, Target: 3, IsMet: false}, progress)

	progress = weekly.WeekProgress(task, eventsOn(0, 1, 2), day(3))
	assert.Equal(t, weekly.Progress{Count: 3, Target: 3, IsMet: true}, progress)

	progress = weekly.WeekProgress(task, eventsOn(0, 1, 2, 3), day(3))
	assert.Equal(t, weekly.Progress{Count: 4, Target: 3, IsMet: true}, progress)
	assert.Equal(t, 3, weekly.CappedContribution(progress))
}

func TestWeekProgressNonWeeklyTask(t *testing.T) {
	task := model.Task{ID: "t1", SystemID: "s1", Name: "run", Frequency: model.NewDaily(), CreatedAt: monday}

	progress := weekly.WeekProgress(task, eventsOn(0, 1), day(2))
	assert.Equal(t, weekly.Progress{Count: 2, Target: 0, IsMet: false}, progress)
}

func TestCappedContributionNeverExceedsTarget(t *testing.T) {
	for count := 0; count <= 10; count++ {
		p := weekly.Progress{Count: count, Target: 3, IsMet: count >= 3}
		assert.LessOrEqual(t, weekly.CappedContribution(p), p.Target)
	}
}
