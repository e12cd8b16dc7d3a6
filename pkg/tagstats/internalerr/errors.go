package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidValue  = errors.New("invalid value")
	ErrEmptyTags     = errors.New("empty tags")
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid configuration")
)
