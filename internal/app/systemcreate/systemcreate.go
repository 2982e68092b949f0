package systemcreate

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/progression"
	"github.com/slok/cadence/internal/storage"
)

// ServiceConfig is the configuration for the system create service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.SystemCreate"})
	return nil
}

// Service handles system creation business logic.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new system create service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the system creation parameters. Now is the single
// injected timestamp for the whole operation.
type Request struct {
	Name string
	Now  time.Time
}

// Result is the outcome of creating a system.
type Result struct {
	System   model.System
	Unlocked []model.Achievement
}

// Run creates a new system, bumps the systems-created counter and evaluates
// achievements against it.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Now.IsZero() {
		return nil, fmt.Errorf("now is required: %w", model.ErrNotValid)
	}

	system := model.System{
		ID:        ulid.MustNew(ulid.Timestamp(req.Now), rand.Reader).String(),
		Name:      req.Name,
		CreatedAt: req.Now,
	}
	if err := system.Validate(); err != nil {
		return nil, fmt.Errorf("invalid system: %w", err)
	}

	// Check name uniqueness.
	_, err := s.repo.GetSystemByName(ctx, req.Name)
	if err == nil {
		return nil, fmt.Errorf("system with name %q already exists: %w", req.Name, model.ErrAlreadyExists)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("could not check name uniqueness: %w", err)
	}

	if err := s.repo.CreateSystem(ctx, system); err != nil {
		return nil, fmt.Errorf("could not save system: %w", err)
	}

	profile, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get progress profile: %w", err)
	}
	profile.SystemsCreated++

	unlocked, err := evaluateAndPersist(ctx, s.repo, profile, req.Now)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Created system: %s (%s)", system.Name, system.ID)

	return &Result{System: system, Unlocked: unlocked}, nil
}

// evaluateAndPersist runs the achievement evaluation pass against the profile
// counters and persists the resulting profile and unlocks.
func evaluateAndPersist(ctx context.Context, repo storage.Repository, profile *model.ProgressProfile, now time.Time) ([]model.Achievement, error) {
	achievements, err := repo.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list achievements: %w", err)
	}

	unlocks := progression.EvaluateAchievements(*profile, achievements, now)
	unlocked, _, err := progression.ApplyUnlocks(profile, achievements, unlocks)
	if err != nil {
		return nil, fmt.Errorf("could not apply achievement unlocks: %w", err)
	}

	for _, a := range unlocked {
		if err := repo.UpdateAchievement(ctx, a); err != nil {
			return nil, fmt.Errorf("could not store achievement unlock: %w", err)
		}
	}
	if err := repo.UpdateProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("could not store progress profile: %w", err)
	}

	return unlocked, nil
}
