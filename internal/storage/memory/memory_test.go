package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage/memory"
)

func testSystem() model.System {
	return model.System{
		ID:        "01JSYS0000000000000000A001",
		Name:      "health",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func testTask(systemID string) model.Task {
	return model.Task{
		ID:        "01JTSK0000000000000000A001",
		SystemID:  systemID,
		Name:      "run",
		Frequency: model.NewDaily(),
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func newRepo(t *testing.T) *memory.Repository {
	t.Helper()
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	return repo
}

func TestSystemLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)
	system := testSystem()

	require.NoError(repo.CreateSystem(ctx, system))

	// Duplicated ID and name should fail.
	err := repo.CreateSystem(ctx, system)
	require.ErrorIs(err, model.ErrAlreadyExists)

	got, err := repo.GetSystemByName(ctx, "health")
	require.NoError(err)
	assert.Equal(t, system, *got)

	require.NoError(repo.DeleteSystem(ctx, system.ID))
	_, err = repo.GetSystem(ctx, system.ID)
	require.ErrorIs(err, model.ErrNotFound)
}

func TestTaskCascadeDelete(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)
	system := testSystem()
	task := testTask(system.ID)

	require.NoError(repo.CreateSystem(ctx, system))
	require.NoError(repo.CreateTask(ctx, task))
	require.NoError(repo.PutEvent(ctx, model.CompletionEvent{
		TaskID:     task.ID,
		Day:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		OccurredAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Source:     model.EventSourceManual,
	}))

	require.NoError(repo.DeleteTask(ctx, task.ID))

	events, err := repo.GetEvents(ctx, task.ID)
	require.NoError(err)
	assert.Empty(t, events)
}

func TestPutEventIdempotentPerDay(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)
	system := testSystem()
	task := testTask(system.ID)

	require.NoError(repo.CreateSystem(ctx, system))
	require.NoError(repo.CreateTask(ctx, task))

	// Two completions inside the same calendar day should collapse into one
	// event, the later one winning.
	morning := model.CompletionEvent{
		TaskID:     task.ID,
		Day:        time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		OccurredAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Source:     model.EventSourceManual,
	}
	evening := morning
	evening.Day = time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)
	evening.OccurredAt = evening.Day
	evening.Source = model.EventSourceImported

	require.NoError(repo.PutEvent(ctx, morning))
	require.NoError(repo.PutEvent(ctx, evening))

	events, err := repo.GetEvents(ctx, task.ID)
	require.NoError(err)
	require.Len(events, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), events[0].Day)
	assert.Equal(t, model.EventSourceImported, events[0].Source)

	has, err := repo.HasEvent(ctx, task.ID, time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	require.NoError(err)
	assert.True(t, has)
}

func TestEventsOrderedByDay(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)
	system := testSystem()
	task := testTask(system.ID)

	require.NoError(repo.CreateSystem(ctx, system))
	require.NoError(repo.CreateTask(ctx, task))

	days := []int{5, 2, 9}
	for _, d := range days {
		require.NoError(repo.PutEvent(ctx, model.CompletionEvent{
			TaskID:     task.ID,
			Day:        time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC),
			OccurredAt: time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC),
			Source:     model.EventSourceManual,
		}))
	}

	events, err := repo.GetEvents(ctx, task.ID)
	require.NoError(err)
	require.Len(events, 3)
	assert.True(t, events[0].Day.Before(events[1].Day))
	assert.True(t, events[1].Day.Before(events[2].Day))
}

func TestProfileGetOrCreate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	p, err := repo.GetProfile(ctx)
	require.NoError(err)
	assert.Equal(t, 0, p.TotalXP)

	p.TotalXP = 120
	p.Level = 1
	require.NoError(repo.UpdateProfile(ctx, *p))

	got, err := repo.GetProfile(ctx)
	require.NoError(err)
	assert.Equal(t, 120, got.TotalXP)
}

func TestSeedAchievementsOnlyInsertsMissing(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	catalog := []model.Achievement{
		{ID: "first-completion", Name: "First completion", Category: model.AchievementCategoryCompletions, Threshold: 1, XPReward: 25},
	}
	require.NoError(repo.SeedAchievements(ctx, catalog))

	// Unlock and reseed, the unlock must survive.
	unlockedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	unlocked := catalog[0]
	unlocked.Unlocked = true
	unlocked.UnlockedAt = &unlockedAt
	require.NoError(repo.UpdateAchievement(ctx, unlocked))
	require.NoError(repo.SeedAchievements(ctx, catalog))

	achievements, err := repo.ListAchievements(ctx)
	require.NoError(err)
	require.Len(achievements, 1)
	assert.True(t, achievements[0].Unlocked)
}
