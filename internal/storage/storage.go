package storage

import (
	"context"
	"time"

	"github.com/slok/cadence/internal/model"
)

// SystemRepository is the interface for system persistence.
type SystemRepository interface {
	CreateSystem(ctx context.Context, s model.System) error
	GetSystem(ctx context.Context, id string) (*model.System, error)
	GetSystemByName(ctx context.Context, name string) (*model.System, error)
	ListSystems(ctx context.Context) ([]model.System, error)
	DeleteSystem(ctx context.Context, id string) error
}

// TaskRepository is the interface for task persistence. Deleting a task
// cascades to its completion events.
type TaskRepository interface {
	CreateTask(ctx context.Context, t model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	GetTaskByName(ctx context.Context, systemID, name string) (*model.Task, error)
	ListTasks(ctx context.Context, systemID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// CompletionLogStore is the interface for the day-keyed completion log of a
// task. PutEvent is idempotent per (task, day): a second event on the same day
// overwrites the stored one, it never duplicates. Days are normalized UTC
// midnights.
type CompletionLogStore interface {
	GetEvents(ctx context.Context, taskID string) ([]model.CompletionEvent, error)
	HasEvent(ctx context.Context, taskID string, day time.Time) (bool, error)
	PutEvent(ctx context.Context, e model.CompletionEvent) error
	RemoveEvent(ctx context.Context, taskID string, day time.Time) error
}

// ProfileRepository is the interface for the single user-space progress
// profile. GetProfile creates the zero profile the first time it is read.
type ProfileRepository interface {
	GetProfile(ctx context.Context) (*model.ProgressProfile, error)
	UpdateProfile(ctx context.Context, p model.ProgressProfile) error
}

// AchievementRepository is the interface for achievement persistence.
// SeedAchievements only inserts achievements that are not stored yet, so the
// catalog can be applied on every start.
type AchievementRepository interface {
	ListAchievements(ctx context.Context) ([]model.Achievement, error)
	SeedAchievements(ctx context.Context, achievements []model.Achievement) error
	UpdateAchievement(ctx context.Context, a model.Achievement) error
}

// Repository is the full persistence surface of the application.
type Repository interface {
	SystemRepository
	TaskRepository
	CompletionLogStore
	ProfileRepository
	AchievementRepository
}
