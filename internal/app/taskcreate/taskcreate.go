package taskcreate

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/cadence/internal/consistency"
	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/progression"
	"github.com/slok/cadence/internal/storage"
)

// ServiceConfig is the configuration for the task create service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.TaskCreate"})
	return nil
}

// Service handles task creation business logic.
type Service struct {
	repo        storage.Repository
	consistency *consistency.Aggregator
	logger      log.Logger
}

// NewService creates a new task create service.
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

// Request represents the task creation parameters. The frequency must come
// from the model constructors so it is already validated.
type Request struct {
	SystemNameOrID string
	Name           string
	Frequency      model.Frequency
	Now            time.Time
}

// Result is the outcome of creating a task.
type Result struct {
	Task     model.Task
	Unlocked []model.Achievement
}

// Run creates a new task under a system, invalidates the system's consistency
// cache and evaluates achievements against the tasks-created counter.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Now.IsZero() {
		return nil, fmt.Errorf("now is required: %w", model.ErrNotValid)
	}

	system, err := resolveSystem(ctx, s.repo, req.SystemNameOrID)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		ID:        ulid.MustNew(ulid.Timestamp(req.Now), rand.Reader).String(),
		SystemID:  system.ID,
		Name:      req.Name,
		Frequency: req.Frequency,
		CreatedAt: req.Now,
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	_, err = s.repo.GetTaskByName(ctx, system.ID, req.Name)
	if err == nil {
		return nil, fmt.Errorf("task with name %q already exists: %w", req.Name, model.ErrAlreadyExists)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("could not check name uniqueness: %w", err)
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("could not save task: %w", err)
	}

	// A new task changes the system's expected due days.
	s.consistency.InvalidateSystem(system.ID)

	profile, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get progress profile: %w", err)
	}
	profile.TasksCreated++

	achievements, err := s.repo.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list achievements: %w", err)
	}
	unlocks := progression.EvaluateAchievements(*profile, achievements, req.Now)
	unlocked, _, err := progression.ApplyUnlocks(profile, achievements, unlocks)
	if err != nil {
		return nil, fmt.Errorf("could not apply achievement unlocks: %w", err)
	}
	for _, a := range unlocked {
		if err := s.repo.UpdateAchievement(ctx, a); err != nil {
			return nil, fmt.Errorf("could not store achievement unlock: %w", err)
		}
	}
	if err := s.repo.UpdateProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("could not store progress profile: %w", err)
	}

	s.logger.Infof("Created task: %s (%s) under system %s", task.Name, task.ID, system.Name)

	return &Result{Task: task, Unlocked: unlocked}, nil
}

// resolveSystem tries system lookup by name first, then by ID if the input
// looks like a ULID.
func resolveSystem(ctx context.Context, repo storage.SystemRepository, nameOrID string) (*model.System, error) {
	system, err := repo.GetSystemByName(ctx, nameOrID)
	if err == nil {
		return system, nil
	}

	if errors.Is(err, model.ErrNotFound) && looksLikeULID(nameOrID) {
		system, err = repo.GetSystem(ctx, nameOrID)
		if err == nil {
			return system, nil
		}
	}

	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("system not found: %s: %w", nameOrID, model.ErrNotFound)
	}

	return nil, fmt.Errorf("could not get system: %w", err)
}

// looksLikeULID checks if a string looks like a ULID (26 characters,
// alphanumeric uppercase).
func looksLikeULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
