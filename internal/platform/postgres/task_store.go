package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
)

// PostgresTaskStore implements store.TaskStore backed by PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store. db may be a *sql.DB or a *sql.Tx.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a store that runs its queries inside tx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

const taskColumns = `id, owner_id, category_id, title, description, deadline, completed,
	reminder_time, reminder_sent, reminder_version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t            domain.Task
		categoryID   sql.NullInt64
		description  sql.NullString
		deadline     sql.NullTime
		reminderTime sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.OwnerID, &categoryID, &t.Title, &description, &deadline, &t.Completed,
		&reminderTime, &t.ReminderSent, &t.ReminderVersion, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	if description.Valid {
		t.Description = &description.String
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		t.Deadline = &d
	}
	if reminderTime.Valid {
		r := reminderTime.Time.UTC()
		t.ReminderTime = &r
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func (s *PostgresTaskStore) queryOne(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}
	return t, nil
}

func (s *PostgresTaskStore) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (owner_id, category_id, title, description, deadline, completed,
		                    reminder_time, reminder_sent, reminder_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		task.OwnerID, task.CategoryID, task.Title, task.Description, nullTime(task.Deadline),
		task.Completed, nullTime(task.ReminderTime), task.ReminderSent, task.ReminderVersion,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task", "error", err, "owner_id", task.OwnerID)
		return MapError(err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return s.queryOne(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context, ownerID int64, filter store.TaskFilter) ([]*domain.Task, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	return s.queryMany(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	err := s.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = $3, description = $4, deadline = $5, completed = $6, category_id = $7,
		     updated_at = NOW()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		task.ID, task.OwnerID, task.Title, task.Description, nullTime(task.Deadline),
		task.Completed, task.CategoryID,
	).Scan(&task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTaskNotFound
	}
	if err != nil {
		return MapError(err)
	}
	task.UpdatedAt = task.UpdatedAt.UTC()
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// SetReminder implements store.TaskStore.SetReminder.
func (s *PostgresTaskStore) SetReminder(ctx context.Context, ownerID, id int64, at time.Time) (*domain.Task, error) {
	return s.queryOne(ctx,
		`UPDATE tasks
		 SET reminder_time = $3, reminder_sent = FALSE,
		     reminder_version = reminder_version + 1, updated_at = NOW()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+taskColumns,
		id, ownerID, at.UTC())
}

// FindDueUnsentReminders implements store.TaskStore.FindDueUnsentReminders.
func (s *PostgresTaskStore) FindDueUnsentReminders(ctx context.Context, now time.Time, after store.ReminderCursor, limit int) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		 WHERE reminder_time IS NOT NULL AND reminder_time <= $1
		   AND reminder_sent = FALSE AND completed = FALSE`
	args := []any{now.UTC(), limit}
	if !after.IsZero() {
		query += `
		   AND (reminder_time, id) > ($3, $4)`
		args = append(args, after.Time.UTC(), after.ID)
	}
	query += `
		 ORDER BY reminder_time, id
		 LIMIT $2`

	tasks, err := s.queryMany(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("task", "find_due_reminders", "query failed", err)
	}
	return tasks, nil
}

// clearCategory detaches the owner's tasks from a category.
func (s *PostgresTaskStore) clearCategory(ctx context.Context, ownerID, categoryID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET category_id = NULL, updated_at = NOW()
		 WHERE category_id = $1 AND owner_id = $2`, categoryID, ownerID); err != nil {
		return MapError(err)
	}
	return nil
}

// MarkReminderSent implements store.TaskStore.MarkReminderSent.
func (s *PostgresTaskStore) MarkReminderSent(ctx context.Context, id, version int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET reminder_sent = TRUE, updated_at = NOW()
		 WHERE id = $1 AND reminder_version = $2 AND reminder_sent = FALSE`,
		id, version)
	if err != nil {
		return false, store.NewStoreError("task", "mark_sent", "update failed", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, store.NewStoreError("task", "mark_sent", "rows affected", MapError(err))
	}
	if n == 0 {
		s.logger.DebugContext(ctx, "mark sent was a no-op", "task_id", id, "version", version)
	}
	return n > 0, nil
}

// GetOwnerEmail implements store.TaskStore.GetOwnerEmail.
func (s *PostgresTaskStore) GetOwnerEmail(ctx context.Context, id int64) (string, error) {
	var email string
	err := s.db.QueryRowContext(ctx,
		`SELECT u.email FROM tasks t JOIN users u ON u.id = t.owner_id WHERE t.id = $1`, id,
	).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrTaskNotFound
	}
	if err != nil {
		return "", MapError(err)
	}
	return email, nil
}
