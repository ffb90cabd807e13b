package errors

import "errors"

var (
	ErrRecordNotFound = errors.New("payment record not found")

	ErrInvalidID = errors.New("invalid payment record ID format")

	// ErrAlreadySettled means the record already left the created state; the
	// settlement carrying this error was a duplicate delivery.
	ErrAlreadySettled = errors.New("payment record already settled")

	ErrProviderNotOnboarded = errors.New("owner has not completed payout onboarding")
)
