package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict is returned when a write is refused because the row is in the wrong state.
	ErrConflict    = errors.New("state conflict")
	ErrLockTimeout = errors.New("lock wait timeout")
)
