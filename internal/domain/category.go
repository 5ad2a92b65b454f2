package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Category groups tasks for a single owner. Names are unique per owner,
// not globally.
type Category struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategory creates a Category owned by ownerID.
func NewCategory(ownerID int64, name string) (*Category, error) {
	c := &Category{
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.OwnerID <= 0 {
		return ErrInvalidOwner
	}
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	if utf8.RuneCountInString(c.Name) > 100 {
		return ErrCategoryNameTooLong
	}
	return nil
}
