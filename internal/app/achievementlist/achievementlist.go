package achievementlist

import (
	"context"
	"fmt"

	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/progression"
	"github.com/slok/cadence/internal/storage"
)

// ServiceConfig is the configuration for the achievement list service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.AchievementList"})
	return nil
}

// Service lists achievements with their unlock progress.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new achievement list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the listing parameters.
type Request struct {
	OnlyUnlocked bool
}

// AchievementStatus pairs an achievement with the current counter it tracks.
type AchievementStatus struct {
	Achievement model.Achievement
	Counter     int
	Progress    float64
}

// Result is the progress profile together with every achievement's state.
type Result struct {
	Profile      model.ProgressProfile
	XPIntoLevel  int
	XPForNext    int
	Achievements []AchievementStatus
}

// Run returns the progress profile and the achievements with the counters
// they track.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	profile, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get progress profile: %w", err)
	}

	achievements, err := s.repo.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list achievements: %w", err)
	}

	result := &Result{
		Profile:      *profile,
		XPIntoLevel:  profile.TotalXP - progression.XPRequiredForLevel(profile.Level),
		XPForNext:    progression.XPRequiredForLevel(profile.Level+1) - progression.XPRequiredForLevel(profile.Level),
		Achievements: make([]AchievementStatus, 0, len(achievements)),
	}

	for _, a := range achievements {
		if req.OnlyUnlocked && !a.Unlocked {
			continue
		}
		counter := progression.CounterFor(*profile, a.Category)
		result.Achievements = append(result.Achievements, AchievementStatus{
			Achievement: a,
			Counter:     counter,
			Progress:    a.Progress(counter),
		})
	}

	return result, nil
}
