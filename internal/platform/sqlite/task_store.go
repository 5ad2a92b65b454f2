package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskStore implements store.TaskStore on SQLite.
type TaskStore struct {
	db *gorm.DB
}

// NewTaskStore creates a task store.
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	m := taskFromDomain(task)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return fmt.Errorf("create task: %w", mapError(err, store.ErrTaskNotFound))
	}
	task.ID = m.ID
	task.CreatedAt = m.CreatedAt.UTC()
	task.UpdatedAt = m.UpdatedAt.UTC()
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return s.get(s.db.WithContext(ctx), ownerID, id)
}

func (s *TaskStore) get(db *gorm.DB, ownerID, id int64) (*domain.Task, error) {
	var m taskModel
	if err := db.Where("owner_id = ? AND id = ?", ownerID, id).First(&m).Error; err != nil {
		return nil, mapError(err, store.ErrTaskNotFound)
	}
	return m.toDomain(), nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context, ownerID int64, filter store.TaskFilter) ([]*domain.Task, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var models []taskModel
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return toDomainTasks(models), nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&taskModel{}).
		Where("owner_id = ? AND id = ?", task.OwnerID, task.ID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"deadline":    utc(task.Deadline),
			"completed":   task.Completed,
			"category_id": task.CategoryID,
			"updated_at":  now,
		})
	if result.Error != nil {
		return fmt.Errorf("update task: %w", mapError(result.Error, store.ErrTaskNotFound))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	task.UpdatedAt = now
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	result := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&taskModel{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// SetReminder implements store.TaskStore.SetReminder.
func (s *TaskStore) SetReminder(ctx context.Context, ownerID, id int64, at time.Time) (*domain.Task, error) {
	var task *domain.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = s.get(tx, ownerID, id)
		if err != nil {
			return err
		}
		previous := task.ReminderVersion
		if err := task.Arm(at); err != nil {
			return err
		}

		result := tx.Model(&taskModel{}).
			Where("owner_id = ? AND id = ? AND reminder_version = ?", ownerID, id, previous).
			Updates(map[string]any{
				"reminder_time":    *task.ReminderTime,
				"reminder_sent":    false,
				"reminder_version": task.ReminderVersion,
				"updated_at":       task.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("set reminder: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return store.ErrTaskNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// FindDueUnsentReminders implements store.TaskStore.FindDueUnsentReminders.
func (s *TaskStore) FindDueUnsentReminders(ctx context.Context, now time.Time, after store.ReminderCursor, limit int) ([]*domain.Task, error) {
	q := s.db.WithContext(ctx).
		Where("reminder_time IS NOT NULL AND reminder_time <= ? AND reminder_sent = ? AND completed = ?",
			now.UTC(), false, false)
	if !after.IsZero() {
		t := after.Time.UTC()
		q = q.Where("(reminder_time > ? OR (reminder_time = ? AND id > ?))", t, t, after.ID)
	}

	var models []taskModel
	err := q.Order("reminder_time ASC").
		Order("id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, store.NewStoreError("task", "find_due_reminders", "query failed", err)
	}
	return toDomainTasks(models), nil
}

// MarkReminderSent implements store.TaskStore.MarkReminderSent.
func (s *TaskStore) MarkReminderSent(ctx context.Context, id, version int64) (bool, error) {
	result := s.db.WithContext(ctx).Model(&taskModel{}).
		Where("id = ? AND reminder_version = ? AND reminder_sent = ?", id, version, false).
		Updates(map[string]any{
			"reminder_sent": true,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return false, store.NewStoreError("task", "mark_sent", "update failed", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetOwnerEmail implements store.TaskStore.GetOwnerEmail.
func (s *TaskStore) GetOwnerEmail(ctx context.Context, id int64) (string, error) {
	var emails []string
	err := s.db.WithContext(ctx).
		Table("tasks").
		Joins("JOIN users ON users.id = tasks.owner_id").
		Where("tasks.id = ?", id).
		Limit(1).
		Pluck("users.email", &emails).Error
	if err != nil {
		return "", fmt.Errorf("find owner email: %w", err)
	}
	if len(emails) == 0 {
		return "", store.ErrTaskNotFound
	}
	return emails[0], nil
}

func toDomainTasks(models []taskModel) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(models))
	for i := range models {
		tasks = append(tasks, models[i].toDomain())
	}
	return tasks
}
