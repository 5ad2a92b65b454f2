package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
)

// MaxListLimit caps the page size a caller may request.
const MaxListLimit = 100

// TaskService provides owner-scoped task, category and reminder operations.
// Every method takes the authenticated owner's ID; resources owned by
// anyone else behave as if they did not exist.
type TaskService interface {
	Create(ctx context.Context, ownerID int64, in domain.TaskInput) (*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)
	// List pages through the owner's tasks. A zero limit selects
	// store.DefaultListLimit; limits above MaxListLimit are clamped.
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Task, error)
	// Update applies a partial update. Reminder fields are not editable here.
	Update(ctx context.Context, ownerID, taskID int64, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID int64) error
	// SetReminder arms the task's reminder at the given time, clearing any
	// previous sent flag. Past times are accepted and become due immediately.
	SetReminder(ctx context.Context, ownerID, taskID int64, at time.Time) (*domain.Task, error)

	CreateCategory(ctx context.Context, ownerID int64, name string) (*domain.Category, error)
	ListCategories(ctx context.Context, ownerID int64) ([]*domain.Category, error)
	// DeleteCategory removes the category; tasks that referenced it keep
	// existing with no category.
	DeleteCategory(ctx context.Context, ownerID, categoryID int64) error
}

type taskServiceImpl struct {
	tasks      store.TaskStore
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks store.TaskStore, categories store.CategoryStore, logger *slog.Logger) TaskService {
	return &taskServiceImpl{
		tasks:      tasks,
		categories: categories,
		logger:     logger.With("component", "task_service"),
	}
}

func (s *taskServiceImpl) Create(ctx context.Context, ownerID int64, in domain.TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, in)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, ownerID, task.CategoryID); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"owner_id", ownerID)
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	s.logger.Debug("task created",
		"task_id", task.ID,
		"owner_id", ownerID)
	return task, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.translate("get", taskID, err)
	}
	return task, nil
}

func (s *taskServiceImpl) List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Task, error) {
	if offset < 0 {
		return nil, NewValidationError("offset", "must not be negative")
	}
	if limit < 0 {
		return nil, NewValidationError("limit", "must not be negative")
	}
	if limit == 0 {
		limit = store.DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	tasks, err := s.tasks.List(ctx, ownerID, store.TaskFilter{Offset: offset, Limit: limit})
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"owner_id", ownerID)
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}
	return tasks, nil
}

// Update follows the read-modify-write pattern: load the complete task,
// merge the patch, then hand the whole entity back to the store.
func (s *taskServiceImpl) Update(ctx context.Context, ownerID, taskID int64, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.translate("update", taskID, err)
	}

	if err := task.Apply(patch); err != nil {
		return nil, err
	}

	if patch.CategoryID.IsSet() {
		if err := s.checkCategory(ctx, ownerID, task.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, s.translate("update", taskID, err)
	}

	s.logger.Debug("task updated",
		"task_id", taskID,
		"owner_id", ownerID)
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, ownerID, taskID int64) error {
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return s.translate("delete", taskID, err)
	}
	s.logger.Debug("task deleted",
		"task_id", taskID,
		"owner_id", ownerID)
	return nil
}

func (s *taskServiceImpl) SetReminder(ctx context.Context, ownerID, taskID int64, at time.Time) (*domain.Task, error) {
	if at.IsZero() {
		return nil, NewValidationError("reminder_time", "must be set")
	}

	task, err := s.tasks.SetReminder(ctx, ownerID, taskID, at.UTC())
	if err != nil {
		return nil, s.translate("set_reminder", taskID, err)
	}

	s.logger.Info("reminder armed",
		"task_id", taskID,
		"owner_id", ownerID,
		"reminder_time", task.ReminderTime)
	return task, nil
}

func (s *taskServiceImpl) CreateCategory(ctx context.Context, ownerID int64, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(ownerID, name)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrCategoryExists) {
			return nil, fmt.Errorf("failed to create category: %w", err)
		}
		s.logger.Error("failed to create category",
			"error", err,
			"owner_id", ownerID)
		return nil, NewTaskServiceError("create_category", "failed to save category", err)
	}
	return category, nil
}

func (s *taskServiceImpl) ListCategories(ctx context.Context, ownerID int64) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx, ownerID)
	if err != nil {
		return nil, NewTaskServiceError("list_categories", "failed to list categories", err)
	}
	return categories, nil
}

func (s *taskServiceImpl) DeleteCategory(ctx context.Context, ownerID, categoryID int64) error {
	if err := s.categories.Delete(ctx, ownerID, categoryID); err != nil {
		return s.translate("delete_category", categoryID, err)
	}
	return nil
}

// checkCategory rejects a category reference the owner does not own. A nil
// reference is always acceptable.
func (s *taskServiceImpl) checkCategory(ctx context.Context, ownerID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.categories.GetByID(ctx, ownerID, *categoryID)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrCategoryNotFound) {
		return NewValidationError("category_id", "unknown category")
	}
	return NewTaskServiceError("check_category", "failed to load category", err)
}

// translate turns store not-found errors into ErrNotFound and wraps
// everything else with the failing operation.
func (s *taskServiceImpl) translate(op string, id int64, err error) error {
	if store.IsNotFoundError(err) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	s.logger.Error("task store operation failed",
		"error", err,
		"operation", op,
		"id", id)
	return NewTaskServiceError(op, "store operation failed", err)
}
