package repo_errors

import "errors"

var (
	// ErrNotFound is returned when the requested record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional update matched no rows
	// because the record's status changed under the caller. Losing the
	// race is an expected outcome, not a storage failure.
	ErrConflict = errors.New("conditional update lost: status already changed")
)
