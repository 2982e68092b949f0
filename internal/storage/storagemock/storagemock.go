// Package storagemock contains testify mocks for the storage interfaces.
package storagemock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/slok/cadence/internal/model"
)

// MockRepository is a mock implementation of storage.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSystem(ctx context.Context, s model.System) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) GetSystem(ctx context.Context, id string) (*model.System, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.System), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetSystemByName(ctx context.Context, name string) (*model.System, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*model.System), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListSystems(ctx context.Context) ([]model.System, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.System), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) DeleteSystem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateTask(ctx context.Context, t model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetTaskByName(ctx context.Context, systemID, name string) (*model.Task, error) {
	args := m.Called(ctx, systemID, name)
	if v := args.Get(0); v != nil {
		return v.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListTasks(ctx context.Context, systemID string) ([]model.Task, error) {
	args := m.Called(ctx, systemID)
	if v := args.Get(0); v != nil {
		return v.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateTask(ctx context.Context, t model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetEvents(ctx context.Context, taskID string) ([]model.CompletionEvent, error) {
	args := m.Called(ctx, taskID)
	if v := args.Get(0); v != nil {
		return v.([]model.CompletionEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) HasEvent(ctx context.Context, taskID string, day time.Time) (bool, error) {
	args := m.Called(ctx, taskID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) PutEvent(ctx context.Context, e model.CompletionEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockRepository) RemoveEvent(ctx context.Context, taskID string, day time.Time) error {
	args := m.Called(ctx, taskID, day)
	return args.Error(0)
}

func (m *MockRepository) GetProfile(ctx context.Context) (*model.ProgressProfile, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*model.ProgressProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, p model.ProgressProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Achievement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) SeedAchievements(ctx context.Context, achievements []model.Achievement) error {
	args := m.Called(ctx, achievements)
	return args.Error(0)
}

func (m *MockRepository) UpdateAchievement(ctx context.Context, a model.Achievement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
