package identity

import "errors"

var (
	// ErrInvalidCredentials indicates a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidInput indicates invalid registration input.
	ErrInvalidInput = errors.New("invalid registration input")
)
