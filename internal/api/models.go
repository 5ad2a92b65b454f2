package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest defines the payload for the token endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse defines the successful response for the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Deadline    *Timestamp `json:"deadline"`
	CategoryID  *int64     `json:"category_id" validate:"omitempty,gte=1"`
}

// SetReminderRequest defines the payload for arming a reminder.
type SetReminderRequest struct {
	ReminderTime *Timestamp `json:"reminder_time" validate:"required"`
}

// timestampLayouts are tried in order. Layouts without an offset parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Timestamp is an ISO 8601 date-time in a request body. A value with no
// zone offset is taken as UTC.
type Timestamp time.Time

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = Timestamp(t)
	return nil
}

// Time returns the timestamp as a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Time(ts)
}

// timePtr converts an optional timestamp.
func (ts *Timestamp) timePtr() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time()
	return &t
}

// ParseTimestamp parses an ISO 8601 date-time, with or without a zone offset.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected an ISO 8601 date-time", s)
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID           int64      `json:"id"`
	OwnerID      int64      `json:"owner_id"`
	CategoryID   *int64     `json:"category_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Deadline     *time.Time `json:"deadline"`
	Completed    bool       `json:"completed"`
	ReminderTime *time.Time `json:"reminder_time"`
	ReminderSent bool       `json:"reminder_sent"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		OwnerID:      t.OwnerID,
		CategoryID:   t.CategoryID,
		Title:        t.Title,
		Description:  t.Description,
		Deadline:     t.Deadline,
		Completed:    t.Completed,
		ReminderTime: t.ReminderTime,
		ReminderSent: t.ReminderSent,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
