package sqlite

import (
	"context"
	"fmt"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryStore implements store.CategoryStore on SQLite.
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a category store.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

var _ store.CategoryStore = (*CategoryStore)(nil)

// Create implements store.CategoryStore.Create.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	m := categoryModel{OwnerID: category.OwnerID, Name: category.Name}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		mapped := mapError(err, store.ErrCategoryNotFound)
		if store.IsDuplicateError(mapped) {
			return store.ErrCategoryExists
		}
		return fmt.Errorf("create category: %w", mapped)
	}
	category.ID = m.ID
	category.CreatedAt = m.CreatedAt.UTC()
	return nil
}

// GetByID implements store.CategoryStore.GetByID.
func (s *CategoryStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Category, error) {
	var m categoryModel
	err := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&m).Error
	if err != nil {
		return nil, mapError(err, store.ErrCategoryNotFound)
	}
	return m.toDomain(), nil
}

// List implements store.CategoryStore.List.
func (s *CategoryStore) List(ctx context.Context, ownerID int64) ([]*domain.Category, error) {
	var models []categoryModel
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]*domain.Category, 0, len(models))
	for i := range models {
		categories = append(categories, models[i].toDomain())
	}
	return categories, nil
}

// Delete implements store.CategoryStore.Delete.
func (s *CategoryStore) Delete(ctx context.Context, ownerID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&taskModel{}).
			Where("owner_id = ? AND category_id = ?", ownerID, id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("clear category references: %w", err)
		}

		result := tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&categoryModel{})
		if result.Error != nil {
			return fmt.Errorf("delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return store.ErrCategoryNotFound
		}
		return nil
	})
}
