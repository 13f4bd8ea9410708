package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingID          = errors.New("id is required")
	ErrMissingType        = errors.New("node_type is required")
	ErrMissingName        = errors.New("name is required")
	ErrMissingIdentity    = errors.New("source and source_id are required")
	ErrMissingSource      = errors.New("source_id is required")
	ErrMissingTarget      = errors.New("target_id is required")
	ErrTimestampOrder     = errors.New("created_at must not be after modified_at")
	ErrPartialCoordinates = errors.New("latitude and longitude must be set together")
)

// Sentinel errors for entity lookups.
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
