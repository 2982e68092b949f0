package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/cadence/internal/model"
)

// CatalogYAMLRepository loads the achievement catalog from YAML files. The
// catalog is seed data: it defines which achievements exist, storage owns
// their unlock state.
type CatalogYAMLRepository struct {
	fs fs.FS
}

// NewCatalogYAMLRepository creates a new YAML achievement catalog repository.
func NewCatalogYAMLRepository(filesystem fs.FS) *CatalogYAMLRepository {
	return &CatalogYAMLRepository{fs: filesystem}
}

// GetCatalog loads an achievement catalog from a YAML file and returns
// validated domain models.
func (r *CatalogYAMLRepository) GetCatalog(ctx context.Context, path string) ([]model.Achievement, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	achievements := make([]model.Achievement, 0, len(catalog.Achievements))
	seen := map[string]bool{}
	for _, a := range catalog.Achievements {
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicated achievement id %q: %w", a.ID, model.ErrNotValid)
		}
		seen[a.ID] = true

		achievement := a.toModel()
		if err := achievement.Validate(); err != nil {
			return nil, fmt.Errorf("invalid achievement %q: %w", a.ID, err)
		}
		achievements = append(achievements, achievement)
	}

	return achievements, nil
}

// Catalog represents the YAML structure of the achievement catalog.
type Catalog struct {
	Achievements []Achievement `yaml:"achievements"`
}

// Achievement represents the YAML structure of one achievement definition.
type Achievement struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Threshold   int    `yaml:"threshold"`
	XPReward    int    `yaml:"xp_reward"`
}

func (a Achievement) toModel() model.Achievement {
	return model.Achievement{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Category:    model.AchievementCategory(a.Category),
		Threshold:   a.Threshold,
		XPReward:    a.XPReward,
	}
}
