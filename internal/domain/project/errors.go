package project

import "errors"

var (
	// ErrNotFound indicates the project doesn't exist.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
)
