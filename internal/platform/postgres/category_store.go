package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
)

// PostgresCategoryStore implements store.CategoryStore backed by PostgreSQL.
// It holds the pool rather than a DBTX because Delete needs its own
// transaction.
type PostgresCategoryStore struct {
	db     *sql.DB
	tasks  *PostgresTaskStore
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a category store.
func NewPostgresCategoryStore(db *sql.DB, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCategoryStore{
		db:     db,
		tasks:  NewPostgresTaskStore(db, logger),
		logger: logger.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

const categoryColumns = `id, owner_id, name, created_at`

// Create implements store.CategoryStore.Create.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (owner_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		category.OwnerID, category.Name,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return MapError(err)
	}
	category.CreatedAt = category.CreatedAt.UTC()
	return nil
}

// GetByID implements store.CategoryStore.GetByID.
func (s *PostgresCategoryStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Category, error) {
	return scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND owner_id = $2`, id, ownerID))
}

// List implements store.CategoryStore.List.
func (s *PostgresCategoryStore) List(ctx context.Context, ownerID int64) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		categories = append(categories, &c)
	}
	return categories, MapError(rows.Err())
}

// Delete implements store.CategoryStore.Delete. Task references are cleared
// and the category removed in one transaction.
func (s *PostgresCategoryStore) Delete(ctx context.Context, ownerID, id int64) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).clearCategory(ctx, ownerID, id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM categories WHERE id = $1 AND owner_id = $2`, id, ownerID)
		if err != nil {
			return MapError(err)
		}
		if err := CheckRowsAffected(result, store.ErrCategoryNotFound); err != nil {
			return err
		}

		s.logger.DebugContext(ctx, "category deleted", "category_id", id, "owner_id", ownerID)
		return nil
	})
}

func scanCategory(row *sql.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCategoryNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
