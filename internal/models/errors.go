package models

import "errors"

var (
	// ErrNotFound is returned by the repository when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert hits a unique constraint.
	ErrConflict = errors.New("unique constraint conflict")
)
