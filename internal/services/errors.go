package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Validation and conflict kinds.
var (
	ErrValidation         = errors.New("invalid input")
	ErrUserAlreadyExists  = errors.New("an account with this email already exists")
	ErrDuplicateProfile   = errors.New("this user already has an expert profile")
	ErrNonEditableField   = errors.New("field is not editable")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidMembership  = errors.New("invalid membership type")
	ErrInvalidAmount      = errors.New("invalid credit amount")
	ErrIllegalTransition  = errors.New("session cannot move to the requested status")
	ErrSessionNotEligible = errors.New("session does not exist or is not completed")
	ErrDuplicateRating    = errors.New("this session has already been rated")
)

// Auth and lookup kinds.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation not allowed for this user")
	ErrUserNotFound       = errors.New("user not found")
	ErrExpertNotFound     = errors.New("expert profile not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// InsufficientCreditsError carries the balance so callers can offer a top-up.
type InsufficientCreditsError struct {
	Balance  int
	Required int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: balance %d, required %d", e.Balance, e.Required)
}

// duplicateAs reports a unique index violation as sentinel. The index is the
// only check, so concurrent inserts of the same key resolve to one winner.
func duplicateAs(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return sentinel
	}
	return err
}

// validationError wraps ErrValidation with a field-specific reason.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
