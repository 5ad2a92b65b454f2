package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/tasktracker/internal/store"
	"gorm.io/gorm"
)

// mapError translates gorm errors into store errors. notFound is returned
// for gorm.ErrRecordNotFound.
func mapError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	}
	return err
}
