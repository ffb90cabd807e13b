package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrInvalidTransition means the booking exists but is not in the state
	// the guarded update expected.
	ErrInvalidTransition = errors.New("booking is not in the required state")
)
