package complete_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/app/complete"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage/memory"
)

type fixture struct {
	repo *memory.Repository
	svc  *complete.Service
}

func newFixture(t *testing.T, achievements []model.Achievement) *fixture {
	require := require.New(t)

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(err)

	created := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC) // Monday.
	require.NoError(repo.CreateSystem(context.TODO(), model.System{ID: "sys1", Name: "health", CreatedAt: created}))
	require.NoError(repo.CreateTask(context.TODO(), model.Task{
		ID:        "task1",
		SystemID:  "sys1",
		Name:      "run",
		Frequency: model.NewDaily(),
		CreatedAt: created,
	}))
	require.NoError(repo.SeedAchievements(context.TODO(), achievements))

	agg, err := consistency.NewAggregator(consistency.AggregatorConfig{Tasks: repo, Events: repo})
	require.NoError(err)

	svc, err := complete.NewService(complete.ServiceConfig{Repository: repo, Consistency: agg})
	require.NoError(err)

	return &fixture{repo: repo, svc: svc}
}

func TestCompletionAwardsXP(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(t, nil)
	now := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)

	result, err := f.svc.Run(context.TODO(), complete.Request{
		SystemNameOrID: "health",
		TaskName:       "run",
		Now:            now,
	})
	require.NoError(err)

	assert.False(result.AlreadyCompleted)
	assert.Equal(10, result.XPAwarded)
	assert.Equal(1, result.Streak.Current)
	assert.Equal(model.StreakHealthHealthy, result.Streak.Health)

	profile, err := f.repo.GetProfile(context.TODO())
	require.NoError(err)
	assert.Equal(10, profile.TotalXP)
	assert.Equal(1, profile.CompletionsTotal)
	assert.Equal(1, profile.LongestStreakEver)
}

func TestCompletionSameDayTwiceAwardsOnce(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(t, nil)
	now := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)
	req := complete.Request{SystemNameOrID: "health", TaskName: "run", Now: now}

	_, err := f.svc.Run(context.TODO(), req)
	require.NoError(err)

	result, err := f.svc.Run(context.TODO(), req)
	require.NoError(err)

	assert.True(result.AlreadyCompleted)
	assert.Equal(0, result.XPAwarded)

	profile, err := f.repo.GetProfile(context.TODO())
	require.NoError(err)
	assert.Equal(10, profile.TotalXP)
	assert.Equal(1, profile.CompletionsTotal)
}

func TestCompletionLevelUp(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(t, nil)
	// Level 2 starts at 141 XP, one completion away.
	require.NoError(f.repo.UpdateProfile(context.TODO(), model.ProgressProfile{TotalXP: 135, Level: 1}))

	result, err := f.svc.Run(context.TODO(), complete.Request{
		SystemNameOrID: "health",
		TaskName:       "run",
		Now:            time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC),
	})
	require.NoError(err)

	assert.True(result.LeveledUp)
	assert.Equal(2, result.NewLevel)
}

func TestCompletionStreakBuildsAcrossDays(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(t, nil)

	var result *complete.Result
	for d := 0; d < 3; d++ {
		now := time.Date(2026, time.March, 2+d, 20, 0, 0, 0, time.UTC)
		var err error
		result, err = f.svc.Run(context.TODO(), complete.Request{
			SystemNameOrID: "health",
			TaskName:       "run",
			Now:            now,
		})
		require.NoError(err)
	}

	assert.Equal(3, result.Streak.Current)
	assert.Equal(3, result.Streak.Longest)

	profile, err := f.repo.GetProfile(context.TODO())
	require.NoError(err)
	assert.Equal(3, profile.LongestStreakEver)
}

func TestCompletionBackfillRecordsJoinedStreak(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(t, nil)

	// Two separate runs: days 0,1 and days 5,6.
	for _, d := range []int{0, 1, 5, 6} {
		now := time.Date(2026, time.March, 2+d, 20, 0, 0, 0, time.UTC)
		_, err := f.svc.Run(context.TODO(), complete.Request{
			SystemNameOrID: "health",
			TaskName:       "run",
			Now:            now,
		})
		require.NoError(err)
	}

	// Backfilling day 2 joins the first run into 0,1,2: longer than the
	// current streak, which still ends at day 6.
	now := time.Date(2026, time.March, 8, 20, 0, 0, 0, time.UTC)
	result, err := f.svc.Run(context.TODO(), complete.Request{
		SystemNameOrID: "health",
		TaskName:       "run",
		Day:            time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC),
		Now:            now,
	})
	require.NoError(err)

	assert.Equal(2, result.Streak.Current)
	assert.Equal(3, result.Streak.Longest)

	profile, err := f.repo.GetProfile(context.TODO())
	require.NoError(err)
	assert.Equal(3, profile.LongestStreakEver)
}

func TestCompletionUnlocksAchievement(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	f := newFixture(t, []model.Achievement{
		{ID: "first-steps", Name: "First Steps", Category: model.AchievementCategoryCompletions, Threshold: 1, XPReward: 25},
		{ID: "century", Name: "Century", Category: model.AchievementCategoryCompletions, Threshold: 100, XPReward: 500},
	})

	result, err := f.svc.Run(context.TODO(), complete.Request{
		SystemNameOrID: "health",
		TaskName:       "run",
		Now:            time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC),
	})
	require.NoError(err)

	require.Len(result.Unlocked, 1)
	assert.Equal("first-steps", result.Unlocked[0].ID)

	profile, err := f.repo.GetProfile(context.TODO())
	require.NoError(err)
	assert.Equal(10+25, profile.TotalXP)

	achievements, err := f.repo.ListAchievements(context.TODO())
	require.NoError(err)
	for _, a := range achievements {
		if a.ID == "first-steps" {
			assert.True(a.Unlocked)
			require.NotNil(a.UnlockedAt)
		}
		if a.ID == "century" {
			assert.False(a.Unlocked)
		}
	}
}

func TestCompletionRejectsFutureDay(t *testing.T) {
	assert := assert.New(t)

	f := newFixture(t, nil)
	now := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)

	_, err := f.svc.Run(context.TODO(), complete.Request{
		SystemNameOrID: "health",
		TaskName:       "run",
		Day:            now.AddDate(0, 0, 1),
		Now:            now,
	})
	assert.Error(err)
}

func TestCompletionRejectsDayBeforeTaskExisted(t *testing.T) {
	assert := assert.New(t)

	f := newFixture(t, nil)
	now := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)

	_, err := f.svc.Run(context.TODO(), complete.Request{
		SystemNameOrID: "health",
		TaskName:       "run",
		Day:            now.AddDate(0, 0, -1),
		Now:            now,
	})
	assert.Error(err)
}
