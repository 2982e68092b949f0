package io_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/cadence/internal/model"
	storageio "github.com/slok/cadence/internal/storage/io"
)

func TestGetCatalog(t *testing.T) {
	tests := map[string]struct {
		yaml   string
		expLen int
		expErr bool
	}{
		"a valid catalog should load": {
			yaml: `
achievements:
  - id: first-completion
    name: First completion
    description: Complete a task for the first time.
    category: completions
    threshold: 1
    xp_reward: 25
  - id: week-streak
    name: One week strong
    category: streak
    threshold: 7
    xp_reward: 100
`,
			expLen: 2,
		},
		"an unknown category should fail": {
			yaml: `
achievements:
  - id: mystery
    name: Mystery
    category: mysteries
    threshold: 1
`,
			expErr: true,
		},
		"a zero threshold should fail": {
			yaml: `
achievements:
  - id: freebie
    name: Freebie
    category: completions
    threshold: 0
`,
			expErr: true,
		},
		"duplicated ids should fail": {
			yaml: `
achievements:
  - id: twin
    name: Twin A
    category: completions
    threshold: 1
  - id: twin
    name: Twin B
    category: completions
    threshold: 2
`,
			expErr: true,
		},
		"broken yaml should fail": {
			yaml:   `achievements: [`,
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			fs := fstest.MapFS{
				"achievements.yaml": &fstest.MapFile{Data: []byte(test.yaml)},
			}
			repo := storageio.NewCatalogYAMLRepository(fs)

			catalog, err := repo.GetCatalog(context.Background(), "achievements.yaml")

			if test.expErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, catalog, test.expLen)
			assert.Equal(t, model.AchievementCategoryCompletions, catalog[0].Category)
			assert.False(t, catalog[0].Unlocked)
		})
	}
}

func TestGetCatalogMissingFile(t *testing.T) {
	repo := storageio.NewCatalogYAMLRepository(fstest.MapFS{})
	_, err := repo.GetCatalog(context.Background(), "missing.yaml")
	require.Error(t, err)
}
