package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
	"github.com/slok/cadence/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateSystem creates a new system in the repository.
func (r *Repository) CreateSystem(ctx context.Context, s model.System) error {
	query := `INSERT INTO systems (id, name, created_at) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: systems.") {
			return fmt.Errorf("system already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert system: %w", err)
	}

	r.logger.Debugf("Created system in repository: %s", s.ID)
	return nil
}

// GetSystem retrieves a system by ID.
func (r *Repository) GetSystem(ctx context.Context, id string) (*model.System, error) {
	query := `SELECT id, name, created_at FROM systems WHERE id = ?`

	system, err := r.scanSystem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("system %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query system: %w", err)
	}

	return system, nil
}

// GetSystemByName retrieves a system by name.
func (r *Repository) GetSystemByName(ctx context.Context, name string) (*model.System, error) {
	query := `SELECT id, name, created_at FROM systems WHERE name = ?`

	system, err := r.scanSystem(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("system with name %s: %w", name, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query system: %w", err)
	}

	return system, nil
}

// ListSystems returns all systems ordered by creation time.
func (r *Repository) ListSystems(ctx context.Context) ([]model.System, error) {
	query := `SELECT id, name, created_at FROM systems ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query systems: %w", err)
	}
	defer rows.Close()

	var systems []model.System
	for rows.Next() {
		system, err := r.scanSystem(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan system: %w", err)
		}
		systems = append(systems, *system)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate systems: %w", err)
	}

	return systems, nil
}

// DeleteSystem deletes a system. Tasks and their events cascade through
// foreign keys.
func (r *Repository) DeleteSystem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM systems WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete system: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("system %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted system from repository: %s", id)
	return nil
}

// CreateTask creates a new task in the repository.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) error {
	query := `
		INSERT INTO tasks (id, system_id, name, frequency_kind, frequency_weekdays, frequency_target, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		t.ID,
		t.SystemID,
		t.Name,
		string(t.Frequency.Kind),
		encodeWeekdays(t.Frequency.Weekdays),
		t.Frequency.TargetPerWeek,
		t.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.") {
			return fmt.Errorf("task already exists: %w", model.ErrAlreadyExists)
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("system %s: %w", t.SystemID, model.ErrNotFound)
		}
		return fmt.Errorf("could not insert task: %w", err)
	}

	r.logger.Debugf("Created task in repository: %s", t.ID)
	return nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	query := `
		SELECT id, system_id, name, frequency_kind, frequency_weekdays, frequency_target, created_at
		FROM tasks
		WHERE id = ?
	`

	task, err := r.scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return task, nil
}

// GetTaskByName retrieves a task by name within a system.
func (r *Repository) GetTaskByName(ctx context.Context, systemID, name string) (*model.Task, error) {
	query := `
		SELECT id, system_id, name, frequency_kind, frequency_weekdays, frequency_target, created_at
		FROM tasks
		WHERE system_id = ? AND name = ?
	`

	task, err := r.scanTask(r.db.QueryRowContext(ctx, query, systemID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task with name %s: %w", name, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return task, nil
}

// ListTasks returns all tasks of a system ordered by creation time.
func (r *Repository) ListTasks(ctx context.Context, systemID string) ([]model.Task, error) {
	query := `
		SELECT id, system_id, name, frequency_kind, frequency_weekdays, frequency_target, created_at
		FROM tasks
		WHERE system_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, systemID)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := r.scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates an existing task.
func (r *Repository) UpdateTask(ctx context.Context, t model.Task) error {
	query := `
		UPDATE tasks
		SET name = ?, frequency_kind = ?, frequency_weekdays = ?, frequency_target = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(
		ctx,
		query,
		t.Name,
		string(t.Frequency.Kind),
		encodeWeekdays(t.Frequency.Weekdays),
		t.Frequency.TargetPerWeek,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}

	r.logger.Debugf("Updated task in repository: %s", t.ID)
	return nil
}

// DeleteTask deletes a task. Completion events cascade through foreign keys.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted task from repository: %s", id)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanSystem(row scanner) (*model.System, error) {
	var s model.System
	var createdAt int64

	if err := row.Scan(&s.ID, &s.Name, &createdAt); err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &s, nil
}

func (r *Repository) scanTask(row scanner) (*model.Task, error) {
	var t model.Task
	var kind, weekdays string
	var target int
	var createdAt int64

	if err := row.Scan(&t.ID, &t.SystemID, &t.Name, &kind, &weekdays, &target, &createdAt); err != nil {
		return nil, err
	}

	freq, err := decodeFrequency(kind, weekdays, target)
	if err != nil {
		return nil, fmt.Errorf("stored frequency is corrupt: %w", err)
	}
	t.Frequency = freq
	t.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &t, nil
}

// encodeWeekdays serializes a weekday set as comma separated weekday numbers
// (time.Weekday numbering, Sunday = 0).
func encodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}

	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

// decodeFrequency is the mechanical inverse of the task column mapping. It
// revalidates through the model constructors so a corrupt row fails loudly
// instead of silently degrading to a daily rule.
func decodeFrequency(kind, weekdays string, target int) (model.Frequency, error) {
	switch model.FrequencyKind(kind) {
	case model.FrequencyKindDaily:
		return model.NewDaily(), nil
	case model.FrequencyKindWeekdays:
		return model.NewWeekdays(), nil
	case model.FrequencyKindWeekends:
		return model.NewWeekends(), nil
	case model.FrequencyKindSpecificWeekdays:
		var days []time.Weekday
		for _, part := range strings.Split(weekdays, ",") {
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return model.Frequency{}, fmt.Errorf("invalid weekday %q: %w", part, model.ErrNotValid)
			}
			days = append(days, time.Weekday(n))
		}
		return model.NewSpecificWeekdays(days...)
	case model.FrequencyKindWeeklyTarget:
		return model.NewWeeklyTarget(target)
	default:
		return model.Frequency{}, fmt.Errorf("unknown frequency kind %q: %w", kind, model.ErrNotValid)
	}
}
