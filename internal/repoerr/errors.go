// Package repoerr holds the shared persistence sentinel errors. They are
// defined here, in a leaf package, so that both the domain services and the
// repository interfaces can reference them without an import cycle; the
// repository package re-exports the same variables.
package repoerr

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint fails
	ErrDuplicate = errors.New("duplicate entity")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
