package complete

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/progression"
	"github.com/slok/cadence/internal/storage"
	"github.com/slok/cadence/internal/streak"
	"github.com/slok/cadence/internal/weekly"
)

// ServiceConfig is the configuration for the completion service.
type ServiceConfig struct {
	Repository  storage.Repository
	Consistency *consistency.Aggregator
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Consistency == nil {
		return fmt.Errorf("consistency aggregator is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Complete"})
	return nil
}

// Service handles marking tasks as completed and the progression side
// effects that follow (XP, streak counters, achievements).
type Service struct {
	repo        storage.Repository
	consistency *consistency.Aggregator
	logger      log.Logger

	// The progress profile is read-modify-write, serialize writers.
	profileMu sync.Mutex
}

// NewService creates a new completion service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:        cfg.Repository,
		consistency: cfg.Consistency,
		logger:      cfg.Logger,
	}, nil
}

// Request represents the completion parameters. Day defaults to the calendar
// day of Now when zero.
type Request struct {
	SystemNameOrID string
	TaskName       string
	Day            time.Time
	Duration       *time.Duration
	Source         model.EventSource
	Now            time.Time
}

// Result is the outcome of a completion.
type Result struct {
	Task             model.Task
	Day              time.Time
	AlreadyCompleted bool
	XPAwarded        int
	NewLevel         int
	LeveledUp        bool
	Streak           model.Streak
	Week             weekly.Progress
	Unlocked         []model.Achievement
}

// Run records a completion event for a task on a calendar day. Completing an
// already-completed day is a no-op: the stored event is refreshed but no XP
// is awarded and counters stay untouched.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Now.IsZero() {
		return nil, fmt.Errorf("now is required: %w", model.ErrNotValid)
	}
	day := req.Day
	if day.IsZero() {
		day = req.Now
	}
	day = calendar.DayOf(day)
	if day.After(calendar.DayOf(req.Now)) {
		return nil, fmt.Errorf("cannot complete a future day: %w", model.ErrNotValid)
	}
	source := req.Source
	if source == "" {
		source = model.EventSourceManual
	}

	system, err := s.repo.GetSystemByName(ctx, req.SystemNameOrID)
	if errors.Is(err, model.ErrNotFound) {
		system, err = s.repo.GetSystem(ctx, req.SystemNameOrID)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get system %q: %w", req.SystemNameOrID, err)
	}

	task, err := s.repo.GetTaskByName(ctx, system.ID, req.TaskName)
	if err != nil {
		return nil, fmt.Errorf("could not get task %q: %w", req.TaskName, err)
	}
	if day.Before(calendar.DayOf(task.CreatedAt)) {
		return nil, fmt.Errorf("cannot complete a day before the task existed: %w", model.ErrNotValid)
	}

	alreadyCompleted, err := s.repo.HasEvent(ctx, task.ID, day)
	if err != nil {
		return nil, fmt.Errorf("could not check completion log: %w", err)
	}

	event := model.CompletionEvent{
		TaskID:     task.ID,
		Day:        day,
		OccurredAt: req.Now,
		Duration:   req.Duration,
		Source:     source,
	}
	if err := s.repo.PutEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("could not store completion event: %w", err)
	}

	s.consistency.InvalidateTask(task.ID)
	s.consistency.InvalidateSystem(system.ID)

	events, err := s.repo.GetEvents(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get completion log: %w", err)
	}

	result := &Result{
		Task:             *task,
		Day:              day,
		AlreadyCompleted: alreadyCompleted,
		Streak:           streak.Compute(*task, events, req.Now),
		Week:             weekly.WeekProgress(*task, events, day),
	}

	if alreadyCompleted {
		s.logger.Debugf("Task %s already completed on %s, no XP awarded", task.Name, day.Format("2006-01-02"))
		return result, nil
	}

	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	profile, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get progress profile: %w", err)
	}

	profile.CompletionsTotal++
	// A backfilled day can join two past runs into a streak longer than the
	// current one, so the counter tracks the history-wide maximum too.
	longest := result.Streak.Longest
	if result.Streak.Current > longest {
		longest = result.Streak.Current
	}
	if longest > profile.LongestStreakEver {
		profile.LongestStreakEver = longest
	}

	newLevel, leveledUp, err := progression.AwardXP(profile, progression.BaseCompletionXP)
	if err != nil {
		return nil, fmt.Errorf("could not award xp: %w", err)
	}
	result.XPAwarded = progression.BaseCompletionXP
	result.NewLevel = newLevel
	result.LeveledUp = leveledUp

	achievements, err := s.repo.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list achievements: %w", err)
	}
	unlocks := progression.EvaluateAchievements(*profile, achievements, req.Now)
	unlocked, rewardLeveledUp, err := progression.ApplyUnlocks(profile, achievements, unlocks)
	if err != nil {
		return nil, fmt.Errorf("could not apply achievement unlocks: %w", err)
	}
	result.Unlocked = unlocked
	if rewardLeveledUp {
		result.LeveledUp = true
	}
	result.NewLevel = profile.Level

	for _, a := range unlocked {
		if err := s.repo.UpdateAchievement(ctx, a); err != nil {
			return nil, fmt.Errorf("could not store achievement unlock: %w", err)
		}
	}
	if err := s.repo.UpdateProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("could not store progress profile: %w", err)
	}

	s.logger.Infof("Completed %s on %s: +%d XP, streak %d", task.Name, day.Format("2006-01-02"), result.XPAwarded, result.Streak.Current)

	return result, nil
}
