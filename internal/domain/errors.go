package domain

import "errors"

// Sentinel errors wrapped throughout the module with fmt.Errorf("%w: ...").
var (
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups for unknown job ids.
	ErrNotFound = errors.New("not found")
	// ErrParse marks recipient files that are neither CSV nor spreadsheet.
	ErrParse = errors.New("parse error")
)
