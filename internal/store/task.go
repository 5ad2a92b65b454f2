package store

import (
	"context"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// DefaultListLimit is applied when a TaskFilter has no limit.
const DefaultListLimit = 10

// TaskFilter pages through an owner's tasks.
type TaskFilter struct {
	Offset int
	Limit  int
}

// ReminderCursor marks a position in the (reminder_time, id) order of due
// reminders. The zero value is the start of the order.
type ReminderCursor struct {
	Time time.Time
	ID   int64
}

// IsZero reports whether c is the start of the order.
func (c ReminderCursor) IsZero() bool {
	return c.ID == 0 && c.Time.IsZero()
}

// TaskStore defines the interface for task persistence, including the
// reminder queries used by the scheduler.
type TaskStore interface {
	// Create saves a new task. On success task.ID is set.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns ErrTaskNotFound if the task does not exist or belongs
	// to another owner.
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// List returns a page of the owner's tasks ordered by ID.
	List(ctx context.Context, ownerID int64, filter TaskFilter) ([]*domain.Task, error)

	// Update persists the owner-editable fields of task (title, description,
	// deadline, completed, category). Reminder fields are not written.
	// Returns ErrTaskNotFound when not owned.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task. Returns ErrTaskNotFound when not owned.
	Delete(ctx context.Context, ownerID, id int64) error

	// SetReminder atomically sets reminder_time, clears reminder_sent and
	// bumps reminder_version, returning the updated task.
	// Returns ErrTaskNotFound when not owned.
	SetReminder(ctx context.Context, ownerID, id int64, at time.Time) (*domain.Task, error)

	// FindDueUnsentReminders returns up to limit tasks with
	// reminder_time <= now, reminder_sent = false and completed = false,
	// ordered by (reminder_time, id) and strictly after the cursor.
	FindDueUnsentReminders(ctx context.Context, now time.Time, after ReminderCursor, limit int) ([]*domain.Task, error)

	// MarkReminderSent sets reminder_sent for a single task, but only if its
	// reminder_version still equals version. It reports whether a row was
	// changed; a stale or repeated call is a successful no-op returning false.
	MarkReminderSent(ctx context.Context, id, version int64) (bool, error)

	// GetOwnerEmail resolves the email of the task's owner.
	// Returns ErrTaskNotFound if the task no longer exists.
	GetOwnerEmail(ctx context.Context, id int64) (string, error)
}
