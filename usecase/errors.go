package usecase

import "errors"

var (
	// ErrAlreadyCompleted is returned when a completion is attempted for a
	// window that was already fulfilled.
	ErrAlreadyCompleted = errors.New("already completed for the current period")

	// ErrNotYetAvailable is returned when a count is recorded against an
	// entity whose next window hasn't opened.
	ErrNotYetAvailable = errors.New("not yet available")
)
