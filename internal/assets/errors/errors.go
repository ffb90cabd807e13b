package errors

import "errors"

var (
	ErrNotFound = errors.New("asset not found")

	ErrInvalidID = errors.New("invalid asset ID format")

	ErrAlreadyFeatured = errors.New("asset is already featured")
)
