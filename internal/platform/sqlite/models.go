package sqlite

import (
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
)

type userModel struct {
	ID             int64  `gorm:"primaryKey"`
	Username       string `gorm:"not null;uniqueIndex"`
	Email          string `gorm:"not null;uniqueIndex"`
	HashedPassword string `gorm:"not null"`
	IsActive       bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
}

func (userModel) TableName() string { return "users" }

type categoryModel struct {
	ID        int64      `gorm:"primaryKey"`
	OwnerID   int64      `gorm:"not null;uniqueIndex:idx_categories_owner_name"`
	Owner     *userModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name      string     `gorm:"not null;uniqueIndex:idx_categories_owner_name"`
	CreatedAt time.Time
}

func (categoryModel) TableName() string { return "categories" }

type taskModel struct {
	ID              int64          `gorm:"primaryKey"`
	OwnerID         int64          `gorm:"not null;index"`
	Owner           *userModel     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CategoryID      *int64         `gorm:"index"`
	Category        *categoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Title           string         `gorm:"not null"`
	Description     *string
	Deadline        *time.Time
	Completed       bool       `gorm:"not null;default:false"`
	ReminderTime    *time.Time `gorm:"index"`
	ReminderSent    bool       `gorm:"not null;default:false"`
	ReminderVersion int64      `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (taskModel) TableName() string { return "tasks" }

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

func (m *categoryModel) toDomain() *domain.Category {
	return &domain.Category{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func taskFromDomain(t *domain.Task) *taskModel {
	return &taskModel{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		CategoryID:      t.CategoryID,
		Title:           t.Title,
		Description:     t.Description,
		Deadline:        utc(t.Deadline),
		Completed:       t.Completed,
		ReminderTime:    utc(t.ReminderTime),
		ReminderSent:    t.ReminderSent,
		ReminderVersion: t.ReminderVersion,
	}
}

func (m *taskModel) toDomain() *domain.Task {
	return &domain.Task{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		CategoryID:      m.CategoryID,
		Title:           m.Title,
		Description:     m.Description,
		Deadline:        utc(m.Deadline),
		Completed:       m.Completed,
		ReminderTime:    utc(m.ReminderTime),
		ReminderSent:    m.ReminderSent,
		ReminderVersion: m.ReminderVersion,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}
