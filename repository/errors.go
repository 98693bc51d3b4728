package repository

import "errors"

var (
	// ErrNotFound is returned when a requested document doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses a concurrency check:
	// finalizing a period that is no longer active, or inserting a second
	// active period for the same entity.
	ErrConflict = errors.New("conflict: document was modified by another operation")
)
