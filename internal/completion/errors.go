package completion

import "errors"

var (
	// ErrInvalidOperation means the task does not support the requested
	// action, e.g. a bad tick on a good-only habit. Rejected before any
	// mutation.
	ErrInvalidOperation = errors.New("task does not support this operation")

	// ErrNotFound means the task or user row is missing.
	ErrNotFound = errors.New("record not found")
)
