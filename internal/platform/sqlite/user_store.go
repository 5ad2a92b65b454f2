package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
	"gorm.io/gorm"
)

// UserStore implements store.UserStore on SQLite.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user has no password digest", store.ErrInvalidEntity)
	}

	m := userModel{
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		IsActive:       user.IsActive,
	}
	db := s.db.WithContext(ctx)
	if err := db.Create(&m).Error; err != nil {
		mapped := mapError(err, store.ErrUserNotFound)
		if store.IsDuplicateError(mapped) {
			return s.duplicateCause(db, user)
		}
		return fmt.Errorf("create user: %w", mapped)
	}

	user.ID = m.ID
	user.CreatedAt = m.CreatedAt.UTC()
	user.Password = ""
	return nil
}

// duplicateCause determines which unique column a failed insert collided on.
func (s *UserStore) duplicateCause(db *gorm.DB, user *domain.User) error {
	var n int64
	if err := db.Model(&userModel{}).Where("email = ?", user.Email).Count(&n).Error; err == nil && n > 0 {
		return store.ErrEmailExists
	}
	return store.ErrUsernameExists
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapError(err, store.ErrUserNotFound)
	}
	return m.toDomain(), nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}
