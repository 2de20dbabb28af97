package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error categories returned by the services. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation    = errors.New("validation failed")
	ErrSelfVote      = errors.New("cannot vote on own entry")
	ErrNotFound      = errors.New("not found")
	ErrLoginRequired = errors.New("login required")
	ErrForbidden     = errors.New("forbidden")
	ErrPersistence   = errors.New("persistence failure")
)

// storeError converts a gorm error into ErrNotFound or ErrPersistence.
func storeError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrPersistence, what, err)
}

// txError makes sure whatever escapes a transaction is one of the categories
// above. Commit failures come back from gorm unwrapped.
func txError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrValidation, ErrSelfVote, ErrNotFound, ErrLoginRequired, ErrForbidden, ErrPersistence} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
