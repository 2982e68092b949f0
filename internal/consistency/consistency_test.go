package consistency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage/storagemock"
)

var day0 = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // A Monday.

func day(offset int) time.Time {
	return day0.AddDate(0, 0, offset)
}

func eventsOn(taskID string, offsets ...int) []model.CompletionEvent {
	events := make([]model.CompletionEvent, 0, len(offsets))
	for _, o := range offsets {
		events = append(events, model.CompletionEvent{
			TaskID:     taskID,
			Day:        day(o),
			OccurredAt: day(o).Add(9 * time.Hour),
			Source:     model.EventSourceManual,
		})
	}
	return events
}

func TestTaskTally(t *testing.T) {
	weekly, _ := model.NewWeeklyTarget(2)

	tests := map[string]struct {
		task     model.Task
		events   []model.CompletionEvent
		now      time.Time
		expTally consistency.Tally
	}{
		"daily task with no events should expect every day and complete none": {
			task:     model.Task{ID: "t1", Frequency: model.NewDaily(), CreatedAt: day0},
			events:   nil,
			now:      day(4),
			expTally: consistency.Tally{Expected: 5, Completed: 0},
		},
		"daily task with partial completions": {
			task:     model.Task{ID: "t1", Frequency: model.NewDaily(), CreatedAt: day0},
			events:   eventsOn("t1", 0, 1, 3),
			now:      day(4),
			expTally: consistency.Tally{Expected: 5, Completed: 3},
		},
		"weekdays task over a full week expects five days": {
			task:     model.Task{ID: "t1", Frequency: model.NewWeekdays(), CreatedAt: day0},
			events:   eventsOn("t1", 0, 1, 2, 3, 4, 5, 6),
			now:      day(6),
			expTally: consistency.Tally{Expected: 5, Completed: 5},
		},
		"weekly target task has no expected days": {
			task:     model.Task{ID: "t1", Frequency: weekly, CreatedAt: day0},
			events:   eventsOn("t1", 0, 2),
			now:      day(6),
			expTally: consistency.Tally{Expected: 0, Completed: 0},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expTally, consistency.TaskTally(test.task, test.events, test.now))
		})
	}
}

func TestTallyRatioBounds(t *testing.T) {
	assert.Equal(t, 0.0, consistency.Tally{}.Ratio())
	assert.Equal(t, 1.0, consistency.Tally{Expected: 3, Completed: 3}.Ratio())
	assert.Equal(t, 0.5, consistency.Tally{Expected: 4, Completed: 2}.Ratio())
	// Clamped even if a caller hands in an impossible tally.
	assert.Equal(t, 1.0, consistency.Tally{Expected: 2, Completed: 5}.Ratio())
}

func TestGetOrRecompute(t *testing.T) {
	window := 5 * time.Minute
	now := day(4).Add(12 * time.Hour)
	calls := 0
	recompute := func() float64 {
		calls++
		return 0.75
	}

	// Empty cache: recompute.
	cache, ratio := consistency.GetOrRecompute(consistency.Cache{}, now, window, recompute)
	assert.Equal(t, 0.75, ratio)
	assert.Equal(t, 1, calls)

	// Inside the window: cache hit.
	_, ratio = consistency.GetOrRecompute(cache, now.Add(window-time.Second), window, recompute)
	assert.Equal(t, 0.75, ratio)
	assert.Equal(t, 1, calls)

	// Past the window: recompute again.
	_, ratio = consistency.GetOrRecompute(cache, now.Add(window), window, recompute)
	assert.Equal(t, 0.75, ratio)
	assert.Equal(t, 2, calls)
}

func TestAggregatorTaskConsistencyCaching(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	now := day(4).Add(12 * time.Hour)

	task := model.Task{ID: "t1", SystemID: "s1", Name: "run", Frequency: model.NewDaily(), CreatedAt: day0}

	mrepo := &storagemock.MockRepository{}
	// The full walk must run exactly once for the first two reads,
	// then once more after invalidation.
	mrepo.On("GetEvents", mock.Anything, "t1").Once().Return(eventsOn("t1", 0, 1, 3), nil)

	agg, err := consistency.NewAggregator(consistency.AggregatorConfig{Tasks: mrepo, Events: mrepo})
	require.NoError(err)

	// Cache miss: full walk.
	ratio, err := agg.TaskConsistency(ctx, task, now)
	require.NoError(err)
	assert.InDelta(t, 0.6, ratio, 0.0001)

	// Cache hit inside the window: no walk (the mock would fail on a second call).
	ratio, err = agg.TaskConsistency(ctx, task, now.Add(time.Minute))
	require.NoError(err)
	assert.InDelta(t, 0.6, ratio, 0.0001)

	// A new completion event invalidates the cache and changes the value.
	mrepo.On("GetEvents", mock.Anything, "t1").Once().Return(eventsOn("t1", 0, 1, 3, 4), nil)
	agg.InvalidateTask("t1")

	ratio, err = agg.TaskConsistency(ctx, task, now.Add(2*time.Minute))
	require.NoError(err)
	assert.InDelta(t, 0.8, ratio, 0.0001)

	mrepo.AssertExpectations(t)
}

func TestAggregatorSystemConsistencyWeightsByVolume(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	now := day(9).Add(12 * time.Hour)

	// Old task: 10 expected days, 4 completed. Young task created "yesterday":
	// 2 expected days, 2 completed. The rollup is 6/12, not the 0.7 average of
	// per-task ratios.
	oldTask := model.Task{ID: "t1", SystemID: "s1", Name: "run", Frequency: model.NewDaily(), CreatedAt: day0}
	youngTask := model.Task{ID: "t2", SystemID: "s1", Name: "read", Frequency: model.NewDaily(), CreatedAt: day(8)}

	mrepo := &storagemock.MockRepository{}
	mrepo.On("ListTasks", mock.Anything, "s1").Once().Return([]model.Task{oldTask, youngTask}, nil)
	mrepo.On("GetEvents", mock.Anything, "t1").Once().Return(eventsOn("t1", 0, 1, 2, 3), nil)
	mrepo.On("GetEvents", mock.Anything, "t2").Once().Return(eventsOn("t2", 8, 9), nil)

	agg, err := consistency.NewAggregator(consistency.AggregatorConfig{Tasks: mrepo, Events: mrepo})
	require.NoError(err)

	ratio, err := agg.SystemConsistency(ctx, "s1", now)
	require.NoError(err)
	assert.InDelta(t, 0.5, ratio, 0.0001)

	// Cached on the second read.
	ratio, err = agg.SystemConsistency(ctx, "s1", now.Add(time.Minute))
	require.NoError(err)
	assert.InDelta(t, 0.5, ratio, 0.0001)

	mrepo.AssertExpectations(t)
}

func TestAggregatorHonorsContextCancellation(t *testing.T) {
	require := require.New(t)

	task := model.Task{ID: "t1", SystemID: "s1", Name: "run", Frequency: model.NewDaily(), CreatedAt: day0}

	blockC := make(chan struct{})
	mrepo := &storagemock.MockRepository{}
	mrepo.On("GetEvents", mock.Anything, "t1").Maybe().Run(func(args mock.Arguments) {
		<-blockC
	}).Return([]model.CompletionEvent{}, nil)
	defer close(blockC)

	agg, err := consistency.NewAggregator(consistency.AggregatorConfig{Tasks: mrepo, Events: mrepo})
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = agg.TaskConsistency(ctx, task, day(4))
	require.ErrorIs(err, context.Canceled)
}
