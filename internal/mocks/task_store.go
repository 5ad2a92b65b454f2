package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore is a testify mock of store.TaskStore.
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if t, ok := args.Get(0).(*domain.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskStore) List(ctx context.Context, ownerID int64, filter store.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	if t, ok := args.Get(0).([]*domain.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTaskStore) SetReminder(ctx context.Context, ownerID, id int64, at time.Time) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, id, at)
	if t, ok := args.Get(0).(*domain.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskStore) FindDueUnsentReminders(ctx context.Context, now time.Time, after store.ReminderCursor, limit int) ([]*domain.Task, error) {
	args := m.Called(ctx, now, after, limit)
	if t, ok := args.Get(0).([]*domain.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskStore) MarkReminderSent(ctx context.Context, id, version int64) (bool, error) {
	args := m.Called(ctx, id, version)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStore) GetOwnerEmail(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
