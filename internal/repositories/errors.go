package repositories

import "errors"

var (
	// ErrNotFound is returned when a record with the requested identifier does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)
