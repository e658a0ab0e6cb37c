package storage

import "errors"

// Storage errors shared by all store implementations. Stores are
// append-only: a run never mutates previously written rows.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key already
	// exists. Re-running against the same store surfaces this instead of
	// silently overwriting.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
