package feedback

import "errors"

var (
	// ErrNotFound indicates the feedback item doesn't exist.
	ErrNotFound = errors.New("feedback item not found")
	// ErrInvalidInput indicates invalid submission input.
	ErrInvalidInput = errors.New("invalid feedback input")
	// ErrInvalidStatus indicates a status outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid feedback status")
	// ErrForbidden indicates the caller lacks the developer role.
	ErrForbidden = errors.New("developer role required")
)
