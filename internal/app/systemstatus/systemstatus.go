package systemstatus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/recurrence"
	"github.com/slok/cadence/internal/storage"
	"github.com/slok/cadence/internal/streak"
	"github.com/slok/cadence/internal/weekly"
)

// ServiceConfig is the configuration for the system status service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.SystemStatus"})
	return nil
}

// Service computes the full derived status of a system and its tasks.
type Service struct {
	repo        storage.Repository
	consistency *consistency.Aggregator
	logger      log.Logger
}

// NewService creates a new system status service.
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

// Request represents the status query parameters. When SystemNameOrID is
// empty the status of every system is returned.
type Request struct {
	SystemNameOrID string
	Now            time.Time
}

// TaskStatus is the derived state of one task at a point in time.
type TaskStatus struct {
	Task           model.Task
	DueToday       bool
	CompletedToday bool
	Streak         model.Streak
	Week           weekly.Progress
	Consistency    float64
}

// SystemStatus is the derived state of one system at a point in time.
type SystemStatus struct {
	System      model.System
	Tasks       []TaskStatus
	Consistency float64
	// TodayDone/TodayDue count today's actionable tasks. Weekly-target tasks
	// contribute their week progress capped at the target so an over-achieved
	// week cannot hide a missed daily task.
	TodayDone int
	TodayDue  int
}

// Result is the outcome of a status query.
type Result struct {
	Systems []SystemStatus
}

// Run resolves the requested systems and computes per-task streaks, weekly
// progress and consistency ratios plus the per-system aggregates.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Now.IsZero() {
		return nil, fmt.Errorf("now is required: %w", model.ErrNotValid)
	}

	systems, err := s.resolveSystems(ctx, req.SystemNameOrID)
	if err != nil {
		return nil, err
	}

	result := &Result{Systems: make([]SystemStatus, 0, len(systems))}
	for _, system := range systems {
		status, err := s.systemStatus(ctx, system, req.Now)
		if err != nil {
			return nil, err
		}
		result.Systems = append(result.Systems, *status)
	}

	return result, nil
}

func (s *Service) resolveSystems(ctx context.Context, nameOrID string) ([]model.System, error) {
	if nameOrID == "" {
		systems, err := s.repo.ListSystems(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not list systems: %w", err)
		}
		return systems, nil
	}

	system, err := s.repo.GetSystemByName(ctx, nameOrID)
	if errors.Is(err, model.ErrNotFound) {
		system, err = s.repo.GetSystem(ctx, nameOrID)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get system %q: %w", nameOrID, err)
	}

	return []model.System{*system}, nil
}

func (s *Service) systemStatus(ctx context.Context, system model.System, now time.Time) (*SystemStatus, error) {
	tasks, err := s.repo.ListTasks(ctx, system.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	status := &SystemStatus{
		System: system,
		Tasks:  make([]TaskStatus, 0, len(tasks)),
	}

	today := calendar.DayOf(now)
	for _, task := range tasks {
		events, err := s.repo.GetEvents(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("could not get completion log: %w", err)
		}

		ratio, err := s.consistency.TaskConsistency(ctx, task, now)
		if err != nil {
			return nil, fmt.Errorf("could not compute task consistency: %w", err)
		}

		ts := TaskStatus{
			Task:           task,
			DueToday:       recurrence.IsDue(task.Frequency, today),
			CompletedToday: hasEventOn(events, today),
			Streak:         streak.Compute(task, events, now),
			Week:           weekly.WeekProgress(task, events, now),
			Consistency:    ratio,
		}
		status.Tasks = append(status.Tasks, ts)

		if task.Frequency.Kind == model.FrequencyKindWeeklyTarget {
			status.TodayDue += ts.Week.Target
			status.TodayDone += weekly.CappedContribution(ts.Week)
			continue
		}
		if ts.DueToday {
			status.TodayDue++
			if ts.CompletedToday {
				status.TodayDone++
			}
		}
	}

	ratio, err := s.consistency.SystemConsistency(ctx, system.ID, now)
	if err != nil {
		return nil, fmt.Errorf("could not compute system consistency: %w", err)
	}
	status.Consistency = ratio

	return status, nil
}

func hasEventOn(events []model.CompletionEvent, day time.Time) bool {
	for _, e := range events {
		if calendar.DayOf(e.Day).Equal(day) {
			return true
		}
	}
	return false
}
