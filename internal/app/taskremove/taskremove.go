package taskremove

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage"
)

// ServiceConfig is the configuration for the task remove service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.TaskRemove"})
	return nil
}

// Service handles task removal business logic.
type Service struct {
	repo        storage.Repository
	consistency *consistency.Aggregator
	logger      log.Logger
}

// NewService creates a new task remove service.
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

// Request represents the task removal parameters.
type Request struct {
	SystemNameOrID string
	TaskName       string
}

// Run removes a task and its completion history. Earned XP and unlocked
// achievements are kept.
func (s *Service) Run(ctx context.Context, req Request) error {
	system, err := s.repo.GetSystemByName(ctx, req.SystemNameOrID)
	if errors.Is(err, model.ErrNotFound) {
		system, err = s.repo.GetSystem(ctx, req.SystemNameOrID)
	}
	if err != nil {
		return fmt.Errorf("could not get system %q: %w", req.SystemNameOrID, err)
	}

	task, err := s.repo.GetTaskByName(ctx, system.ID, req.TaskName)
	if err != nil {
		return fmt.Errorf("could not get task %q: %w", req.TaskName, err)
	}

	// Storage cascades the completion log removal.
	if err := s.repo.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}

	s.consistency.InvalidateTask(task.ID)
	s.consistency.InvalidateSystem(system.ID)

	s.logger.Infof("Removed task: %s (%s)", task.Name, task.ID)

	return nil
}
