package ledger

import "errors"

var (
	ErrAlreadyClaimed = errors.New("asset exclusivity already held")

	ErrNotFound = errors.New("asset not found")

	ErrInvalidID = errors.New("invalid asset ID format")
)
