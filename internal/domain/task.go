package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ReminderState is the lifecycle position of a task's one-shot reminder.
type ReminderState string

const (
	// ReminderUnarmed means no reminder time is set.
	ReminderUnarmed ReminderState = "unarmed"
	// ReminderArmed means a reminder time is set and no delivery has succeeded for it.
	ReminderArmed ReminderState = "armed"
	// ReminderSent means delivery succeeded for the current reminder time.
	ReminderSent ReminderState = "sent"
	// ReminderFrozen means the task was completed while a reminder was set;
	// the scheduler no longer considers it.
	ReminderFrozen ReminderState = "frozen"
)

// Task is the central reminder-bearing entity. OwnerID never changes after
// creation.
//
// ReminderVersion is bumped every time the reminder is armed. The store's
// mark-sent operation is conditioned on it, so a sweep that read the task
// before a re-arm cannot mark the new reminder as sent.
type Task struct {
	ID              int64      `json:"id"`
	OwnerID         int64      `json:"owner_id"`
	CategoryID      *int64     `json:"category_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Deadline        *time.Time `json:"deadline"`
	Completed       bool       `json:"completed"`
	ReminderTime    *time.Time `json:"reminder_time"`
	ReminderSent    bool       `json:"reminder_sent"`
	ReminderVersion int64      `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TaskInput holds the fields accepted when a task is created.
type TaskInput struct {
	Title       string
	Description *string
	Completed   bool
	Deadline    *time.Time
	CategoryID  *int64
}

// TaskPatch is a partial update of a task's owner-editable fields.
// Reminder fields are deliberately absent: they change only through
// set-reminder and the scheduler.
type TaskPatch struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	Completed   Optional[bool]      `json:"completed"`
	Deadline    Optional[time.Time] `json:"deadline"`
	CategoryID  Optional[int64]     `json:"category_id"`
}

// NewTask creates an unarmed Task owned by ownerID.
func NewTask(ownerID int64, in TaskInput) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		OwnerID:     ownerID,
		CategoryID:  in.CategoryID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Deadline:    utcPtr(in.Deadline),
		Completed:   in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.OwnerID <= 0 {
		return ErrInvalidOwner
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(t.Title) > 200 {
		return ErrTitleTooLong
	}
	if t.CategoryID != nil && *t.CategoryID <= 0 {
		return ErrInvalidCategoryID
	}
	return nil
}

// Apply merges a partial update into the task. Absent fields are left alone,
// null clears nullable fields.
func (t *Task) Apply(p TaskPatch) error {
	if p.Title.IsSet() {
		title, ok := p.Title.Get()
		if !ok {
			return ErrNullTitle
		}
		t.Title = strings.TrimSpace(title)
	}
	if p.Description.IsSet() {
		t.Description = p.Description.Ptr()
	}
	if p.Completed.IsSet() {
		completed, ok := p.Completed.Get()
		if !ok {
			return ErrNullCompleted
		}
		t.Completed = completed
	}
	if p.Deadline.IsSet() {
		t.Deadline = utcPtr(p.Deadline.Ptr())
	}
	if p.CategoryID.IsSet() {
		t.CategoryID = p.CategoryID.Ptr()
	}
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Arm sets a new reminder time and re-arms the reminder regardless of its
// previous state.
func (t *Task) Arm(at time.Time) error {
	if at.IsZero() {
		return ErrZeroReminderTime
	}
	at = at.UTC()
	t.ReminderTime = &at
	t.ReminderSent = false
	t.ReminderVersion++
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ReminderState reports where the task is in the reminder lifecycle.
func (t *Task) ReminderState() ReminderState {
	switch {
	case t.ReminderTime == nil:
		return ReminderUnarmed
	case t.Completed:
		return ReminderFrozen
	case t.ReminderSent:
		return ReminderSent
	default:
		return ReminderArmed
	}
}

// IsDue reports whether the scheduler should deliver this task's reminder at now.
func (t *Task) IsDue(now time.Time) bool {
	return t.ReminderState() == ReminderArmed && !t.ReminderTime.After(now)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
