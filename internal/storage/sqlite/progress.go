package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/slok/cadence/internal/model"
)

// GetProfile returns the progress profile, inserting the zero profile on
// first read.
func (r *Repository) GetProfile(ctx context.Context) (*model.ProgressProfile, error) {
	query := `
		SELECT total_xp, level, completions_total, tasks_created, systems_created, longest_streak_ever
		FROM progress_profile
		WHERE id = 1
	`

	var p model.ProgressProfile
	err := r.db.QueryRowContext(ctx, query).Scan(
		&p.TotalXP, &p.Level, &p.CompletionsTotal, &p.TasksCreated, &p.SystemsCreated, &p.LongestStreakEver,
	)
	if errors.Is(err, sql.ErrNoRows) {
		_, err := r.db.ExecContext(ctx, `INSERT INTO progress_profile (id) VALUES (1)`)
		if err != nil {
			return nil, fmt.Errorf("could not initialize progress profile: %w", err)
		}
		return &model.ProgressProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not query progress profile: %w", err)
	}

	return &p, nil
}

// UpdateProfile stores the progress profile.
func (r *Repository) UpdateProfile(ctx context.Context, p model.ProgressProfile) error {
	query := `
		INSERT INTO progress_profile (id, total_xp, level, completions_total, tasks_created, systems_created, longest_streak_ever)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			total_xp = excluded.total_xp,
			level = excluded.level,
			completions_total = excluded.completions_total,
			tasks_created = excluded.tasks_created,
			systems_created = excluded.systems_created,
			longest_streak_ever = excluded.longest_streak_ever
	`

	_, err := r.db.ExecContext(ctx, query, p.TotalXP, p.Level, p.CompletionsTotal, p.TasksCreated, p.SystemsCreated, p.LongestStreakEver)
	if err != nil {
		return fmt.Errorf("could not update progress profile: %w", err)
	}

	r.logger.Debugf("Updated progress profile: xp=%d level=%d", p.TotalXP, p.Level)
	return nil
}

// ListAchievements returns all achievements ordered by ID.
func (r *Repository) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	query := `
		SELECT id, name, description, category, threshold, xp_reward, unlocked, unlocked_at
		FROM achievements
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query achievements: %w", err)
	}
	defer rows.Close()

	achievements := []model.Achievement{}
	for rows.Next() {
		var a model.Achievement
		var category string
		var unlocked int
		var unlockedAt sql.NullInt64

		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &category, &a.Threshold, &a.XPReward, &unlocked, &unlockedAt); err != nil {
			return nil, fmt.Errorf("could not scan achievement: %w", err)
		}
		a.Category = model.AchievementCategory(category)
		a.Unlocked = unlocked != 0
		if unlockedAt.Valid {
			t := time.Unix(unlockedAt.Int64, 0).UTC()
			a.UnlockedAt = &t
		}

		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate achievements: %w", err)
	}

	return achievements, nil
}

// SeedAchievements inserts the achievements that are not stored yet, leaving
// stored ones (and their unlock state) untouched.
func (r *Repository) SeedAchievements(ctx context.Context, achievements []model.Achievement) error {
	query := `
		INSERT INTO achievements (id, name, description, category, threshold, xp_reward, unlocked, unlocked_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, NULL)
		ON CONFLICT (id) DO NOTHING
	`

	for _, a := range achievements {
		_, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.Description, string(a.Category), a.Threshold, a.XPReward)
		if err != nil {
			return fmt.Errorf("could not seed achievement %s: %w", a.ID, err)
		}
	}

	r.logger.Debugf("Seeded %d achievements", len(achievements))
	return nil
}

// UpdateAchievement updates an existing achievement.
func (r *Repository) UpdateAchievement(ctx context.Context, a model.Achievement) error {
	query := `
		UPDATE achievements
		SET name = ?, description = ?, category = ?, threshold = ?, xp_reward = ?, unlocked = ?, unlocked_at = ?
		WHERE id = ?
	`

	var unlockedAt *int64
	if a.UnlockedAt != nil {
		u := a.UnlockedAt.Unix()
		unlockedAt = &u
	}
	unlocked := 0
	if a.Unlocked {
		unlocked = 1
	}

	res, err := r.db.ExecContext(ctx, query, a.Name, a.Description, string(a.Category), a.Threshold, a.XPReward, unlocked, unlockedAt, a.ID)
	if err != nil {
		return fmt.Errorf("could not update achievement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("achievement %s: %w", a.ID, model.ErrNotFound)
	}

	r.logger.Debugf("Updated achievement in repository: %s", a.ID)
	return nil
}
