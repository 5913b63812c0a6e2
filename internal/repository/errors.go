package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by errors.Is for any missing-record
// failure raised by a mutation
var ErrNotFound = errors.New("record not found")

// NotFoundError identifies which record a mutation failed to find.
// Lookups (GetByID) return nil instead; only mutation-of-missing is
// exceptional.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IsNotFound reports whether err is a missing-record failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
