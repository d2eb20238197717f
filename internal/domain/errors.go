package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrStaleRecord      = errors.New("record no longer matches the expected state")
)

// ConflictError reports a uniqueness violation. Constraint is the index name
// reported by the store, e.g. idx_users_email.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unique constraint violated: %s", e.Constraint)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// ConflictConstraint returns the violated constraint name, or "" when err is
// not a conflict.
func ConflictConstraint(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}
