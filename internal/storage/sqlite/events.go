package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/model"
)

// GetEvents returns the completion events of a task ordered by day ascending.
func (r *Repository) GetEvents(ctx context.Context, taskID string) ([]model.CompletionEvent, error) {
	query := `
		SELECT task_id, day, occurred_at, duration_secs, source
		FROM completion_events
		WHERE task_id = ?
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("could not query completion events: %w", err)
	}
	defer rows.Close()

	events := []model.CompletionEvent{}
	for rows.Next() {
		var e model.CompletionEvent
		var day, occurredAt int64
		var durationSecs sql.NullInt64
		var source string

		if err := rows.Scan(&e.TaskID, &day, &occurredAt, &durationSecs, &source); err != nil {
			return nil, fmt.Errorf("could not scan completion event: %w", err)
		}
		e.Day = time.Unix(day, 0).UTC()
		e.OccurredAt = time.Unix(occurredAt, 0).UTC()
		e.Source = model.EventSource(source)
		if durationSecs.Valid {
			d := time.Duration(durationSecs.Int64) * time.Second
			e.Duration = &d
		}

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate completion events: %w", err)
	}

	return events, nil
}

// HasEvent returns whether a task has a completion event on a day.
func (r *Repository) HasEvent(ctx context.Context, taskID string, day time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM completion_events WHERE task_id = ? AND day = ?`

	var count int
	err := r.db.QueryRowContext(ctx, query, taskID, calendar.DayOf(day).Unix()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("could not query completion event: %w", err)
	}

	return count > 0, nil
}

// PutEvent stores a completion event. The (task, day) primary key turns a
// second completion on the same day into an overwrite.
func (r *Repository) PutEvent(ctx context.Context, e model.CompletionEvent) error {
	query := `
		INSERT INTO completion_events (task_id, day, occurred_at, duration_secs, source)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (task_id, day) DO UPDATE SET
			occurred_at = excluded.occurred_at,
			duration_secs = excluded.duration_secs,
			source = excluded.source
	`

	var durationSecs *int64
	if e.Duration != nil {
		secs := int64(e.Duration.Seconds())
		durationSecs = &secs
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		e.TaskID,
		calendar.DayOf(e.Day).Unix(),
		e.OccurredAt.Unix(),
		durationSecs,
		string(e.Source),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("task %s: %w", e.TaskID, model.ErrNotFound)
		}
		return fmt.Errorf("could not store completion event: %w", err)
	}

	r.logger.Debugf("Stored completion event: task %s day %s", e.TaskID, calendar.DayOf(e.Day).Format(time.DateOnly))
	return nil
}

// RemoveEvent deletes the completion event of a task on a day.
func (r *Repository) RemoveEvent(ctx context.Context, taskID string, day time.Time) error {
	day = calendar.DayOf(day)

	res, err := r.db.ExecContext(ctx, `DELETE FROM completion_events WHERE task_id = ? AND day = ?`, taskID, day.Unix())
	if err != nil {
		return fmt.Errorf("could not delete completion event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("completion event for task %s on %s: %w", taskID, day.Format(time.DateOnly), model.ErrNotFound)
	}

	r.logger.Debugf("Removed completion event: task %s day %s", taskID, day.Format(time.DateOnly))
	return nil
}
