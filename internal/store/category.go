package store

import (
	"context"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// CategoryStore defines the interface for category persistence. Every
// lookup is scoped by owner.
type CategoryStore interface {
	// Create saves a new category. Returns ErrCategoryExists when the owner
	// already has a category with the same name.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID returns ErrCategoryNotFound if the category does not exist or
	// belongs to another owner.
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Category, error)

	// List returns the owner's categories ordered by name.
	List(ctx context.Context, ownerID int64) ([]*domain.Category, error)

	// Delete removes the category and clears the category reference of every
	// task that pointed at it. Returns ErrCategoryNotFound when not owned.
	Delete(ctx context.Context, ownerID, id int64) error
}
