package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/slok/cadence/internal/calendar"
	"github.com/slok/cadence/internal/log"
	"github.com/slok/cadence/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository, used for
// tests and ephemeral runs.
type Repository struct {
	systems      map[string]model.System
	tasks        map[string]model.Task
	events       map[string]map[time.Time]model.CompletionEvent
	profile      *model.ProgressProfile
	achievements map[string]model.Achievement
	mu           sync.RWMutex
	logger       log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		systems:      map[string]model.System{},
		tasks:        map[string]model.Task{},
		events:       map[string]map[time.Time]model.CompletionEvent{},
		achievements: map[string]model.Achievement{},
		logger:       cfg.Logger,
	}, nil
}

// CreateSystem creates a new system in the repository.
func (r *Repository) CreateSystem(ctx context.Context, s model.System) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.systems[s.ID]; ok {
		return fmt.Errorf("system with id %s: %w", s.ID, model.ErrAlreadyExists)
	}
	for _, existing := range r.systems {
		if existing.Name == s.Name {
			return fmt.Errorf("system with name %s: %w", s.Name, model.ErrAlreadyExists)
		}
	}

	r.systems[s.ID] = s
	r.logger.Debugf("Created system in repository: %s", s.ID)

	return nil
}

// GetSystem retrieves a system by ID.
func (r *Repository) GetSystem(ctx context.Context, id string) (*model.System, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	system, ok := r.systems[id]
	if !ok {
		return nil, fmt.Errorf("system %s: %w", id, model.ErrNotFound)
	}

	systemCopy := system
	return &systemCopy, nil
}

// GetSystemByName retrieves a system by name.
func (r *Repository) GetSystemByName(ctx context.Context, name string) (*model.System, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, system := range r.systems {
		if system.Name == name {
			systemCopy := system
			return &systemCopy, nil
		}
	}

	return nil, fmt.Errorf("system with name %s: %w", name, model.ErrNotFound)
}

// ListSystems returns all systems.
func (r *Repository) ListSystems(ctx context.Context) ([]model.System, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	systems := make([]model.System, 0, len(r.systems))
	for _, system := range r.systems {
		systems = append(systems, system)
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i].CreatedAt.Before(systems[j].CreatedAt) })

	return systems, nil
}

// DeleteSystem deletes a system and cascades to its tasks and their events.
func (r *Repository) DeleteSystem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.systems[id]; !ok {
		return fmt.Errorf("system %s: %w", id, model.ErrNotFound)
	}

	for taskID, task := range r.tasks {
		if task.SystemID == id {
			delete(r.tasks, taskID)
			delete(r.events, taskID)
		}
	}
	delete(r.systems, id)
	r.logger.Debugf("Deleted system from repository: %s", id)

	return nil
}

// CreateTask creates a new task in the repository.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; ok {
		return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
	}
	if _, ok := r.systems[t.SystemID]; !ok {
		return fmt.Errorf("system %s: %w", t.SystemID, model.ErrNotFound)
	}
	for _, existing := range r.tasks {
		if existing.SystemID == t.SystemID && existing.Name == t.Name {
			return fmt.Errorf("task with name %s: %w", t.Name, model.ErrAlreadyExists)
		}
	}

	r.tasks[t.ID] = t
	r.logger.Debugf("Created task in repository: %s", t.ID)

	return nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	taskCopy := task
	return &taskCopy, nil
}

// GetTaskByName retrieves a task by name within a system.
func (r *Repository) GetTaskByName(ctx context.Context, systemID, name string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, task := range r.tasks {
		if task.SystemID == systemID && task.Name == name {
			taskCopy := task
			return &taskCopy, nil
		}
	}

	return nil, fmt.Errorf("task with name %s: %w", name, model.ErrNotFound)
}

// ListTasks returns all tasks of a system.
func (r *Repository) ListTasks(ctx context.Context, systemID string) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := []model.Task{}
	for _, task := range r.tasks {
		if task.SystemID == systemID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })

	return tasks, nil
}

// UpdateTask updates an existing task.
func (r *Repository) UpdateTask(ctx context.Context, t model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.ID]; !ok {
		return fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}

	r.tasks[t.ID] = t
	r.logger.Debugf("Updated task in repository: %s", t.ID)

	return nil
}

// DeleteTask deletes a task and cascades to its completion events.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	delete(r.tasks, id)
	delete(r.events, id)
	r.logger.Debugf("Deleted task from repository: %s", id)

	return nil
}

// GetEvents returns the completion events of a task ordered by day ascending.
func (r *Repository) GetEvents(ctx context.Context, taskID string) ([]model.CompletionEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]model.CompletionEvent, 0, len(r.events[taskID]))
	for _, e := range r.events[taskID] {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Day.Before(events[j].Day) })

	return events, nil
}

// HasEvent returns whether a task has a completion event on a day.
func (r *Repository) HasEvent(ctx context.Context, taskID string, day time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.events[taskID][calendar.DayOf(day)]
	return ok, nil
}

// PutEvent stores a completion event, overwriting any previous event on the
// same (task, day).
func (r *Repository) PutEvent(ctx context.Context, e model.CompletionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[e.TaskID]; !ok {
		return fmt.Errorf("task %s: %w", e.TaskID, model.ErrNotFound)
	}

	e.Day = calendar.DayOf(e.Day)
	if r.events[e.TaskID] == nil {
		r.events[e.TaskID] = map[time.Time]model.CompletionEvent{}
	}
	r.events[e.TaskID][e.Day] = e
	r.logger.Debugf("Stored completion event: task %s day %s", e.TaskID, e.Day.Format(time.DateOnly))

	return nil
}

// RemoveEvent deletes the completion event of a task on a day.
func (r *Repository) RemoveEvent(ctx context.Context, taskID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day = calendar.DayOf(day)
	if _, ok := r.events[taskID][day]; !ok {
		return fmt.Errorf("completion event for task %s on %s: %w", taskID, day.Format(time.DateOnly), model.ErrNotFound)
	}

	delete(r.events[taskID], day)
	r.logger.Debugf("Removed completion event: task %s day %s", taskID, day.Format(time.DateOnly))

	return nil
}

// GetProfile returns the progress profile, creating the zero profile on first
// read.
func (r *Repository) GetProfile(ctx context.Context) (*model.ProgressProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.profile == nil {
		r.profile = &model.ProgressProfile{}
	}

	profileCopy := *r.profile
	return &profileCopy, nil
}

// UpdateProfile stores the progress profile.
func (r *Repository) UpdateProfile(ctx context.Context, p model.ProgressProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profile = &p
	r.logger.Debugf("Updated progress profile: xp=%d level=%d", p.TotalXP, p.Level)

	return nil
}

// ListAchievements returns all achievements.
func (r *Repository) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	achievements := make([]model.Achievement, 0, len(r.achievements))
	for _, a := range r.achievements {
		achievements = append(achievements, a)
	}
	sort.Slice(achievements, func(i, j int) bool { return achievements[i].ID < achievements[j].ID })

	return achievements, nil
}

// SeedAchievements inserts the achievements that are not stored yet.
func (r *Repository) SeedAchievements(ctx context.Context, achievements []model.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seeded := 0
	for _, a := range achievements {
		if _, ok := r.achievements[a.ID]; ok {
			continue
		}
		r.achievements[a.ID] = a
		seeded++
	}
	r.logger.Debugf("Seeded %d achievements", seeded)

	return nil
}

// UpdateAchievement updates an existing achievement.
func (r *Repository) UpdateAchievement(ctx context.Context, a model.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.achievements[a.ID]; !ok {
		return fmt.Errorf("achievement %s: %w", a.ID, model.ErrNotFound)
	}

	r.achievements[a.ID] = a
	r.logger.Debugf("Updated achievement in repository: %s", a.ID)

	return nil
}
