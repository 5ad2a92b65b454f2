package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every domain validation failure so callers can
// detect the whole family with errors.Is.
var ErrValidation = errors.New("validation failed")

// User validation errors
var (
	ErrEmptyEmail       = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyUsername    = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooLong  = fmt.Errorf("%w: username must be at most 50 characters long", ErrValidation)
	ErrEmptyPassword    = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must be at most 72 bytes long", ErrValidation)
	ErrEmptyPasswordSet = fmt.Errorf("%w: user has neither a password nor a password hash", ErrValidation)
)

// Task and category validation errors
var (
	ErrInvalidOwner        = fmt.Errorf("%w: owner ID must be positive", ErrValidation)
	ErrEmptyTitle          = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrTitleTooLong        = fmt.Errorf("%w: title must be at most 200 characters long", ErrValidation)
	ErrNullTitle           = fmt.Errorf("%w: title cannot be null", ErrValidation)
	ErrNullCompleted       = fmt.Errorf("%w: completed cannot be null", ErrValidation)
	ErrInvalidCategoryID   = fmt.Errorf("%w: category ID must be positive", ErrValidation)
	ErrEmptyCategoryName   = fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	ErrCategoryNameTooLong = fmt.Errorf("%w: category name must be at most 100 characters long", ErrValidation)
	ErrZeroReminderTime    = fmt.Errorf("%w: reminder time must be set", ErrValidation)
)
