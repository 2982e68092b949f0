package uncomplete

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage"
	"github.com/slok/cadence/internal/streak"
)

// ServiceConfig is the configuration for the uncomplete service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Uncomplete"})
	return nil
}

// Service handles removing completion events. XP already awarded is kept,
// progression never goes backwards.
type Service struct {
	repo        storage.Repository
	consistency *consistency.Aggregator
	logger      log.Logger
}

// NewService creates a new uncomplete service.
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

// Request represents the uncomplete parameters. Day defaults to the calendar
// day of Now when zero.
type Request struct {
	SystemNameOrID string
	TaskName       string
	Day            time.Time
	Now            time.Time
}

// Result is the state of the task after removing the event.
type Result struct {
	Task   model.Task
	Day    time.Time
	Streak model.Streak
}

// Run removes the completion event for a task on a calendar day. Removing a
// day that was never completed returns a not found error.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Now.IsZero() {
		return nil, fmt.Errorf("now is required: %w", model.ErrNotValid)
	}
	day := req.Day
	if day.IsZero() {
		day = req.Now
	}
	day = calendar.DayOf(day)

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

	if err := s.repo.RemoveEvent(ctx, task.ID, day); err != nil {
		return nil, fmt.Errorf("could not remove completion event: %w", err)
	}

	s.consistency.InvalidateTask(task.ID)
	s.consistency.InvalidateSystem(system.ID)

	events, err := s.repo.GetEvents(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get completion log: %w", err)
	}

	s.logger.Infof("Removed completion of %s on %s", task.Name, day.Format("2006-01-02"))

	return &Result{
		Task:   *task,
		Day:    day,
		Streak: streak.Compute(*task, events, req.Now),
	}, nil
}
