package models

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrContactNotFound = errors.New("no farmer contact has been set")

// ValidationError is returned when a contact fails validation, nothing is written
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid contact: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps any failure from the underlying store
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
