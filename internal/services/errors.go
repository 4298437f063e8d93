package services

import (
	"strings"

	"bistro/internal/validation"
)

// ParseError means an uploaded buffer could not be read as CSV at all. Nothing is imported.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "invalid CSV: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid CSV: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileError rejects an upload before its content is read (type, size, name).
type FileError struct {
	Reason string
}

func (e *FileError) Error() string { return "invalid file: " + e.Reason }

// FilterError lists every malformed filter parameter of one request.
type FilterError struct {
	Problems []string
}

func (e *FilterError) Error() string {
	return "invalid filters: " + strings.Join(e.Problems, "; ")
}

// ValidationError wraps the schema violations of a single create or update.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Violations.Error()
}
