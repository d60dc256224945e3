package repository

import "github.com/feedtrack/feedtrack/internal/repoerr"

// The sentinel errors live in the leaf package repoerr to avoid an import
// cycle with the domain packages; these are the same error values.
var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = repoerr.ErrNotFound

	// ErrDuplicate is returned when a uniqueness constraint fails
	ErrDuplicate = repoerr.ErrDuplicate

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = repoerr.ErrForeignKeyViolation
)
