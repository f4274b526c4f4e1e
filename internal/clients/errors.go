package clients

import "errors"

var (
	// ErrNotFound indicates no client matches the lookup.
	ErrNotFound = errors.New("client not found")

	// ErrDuplicateEmail indicates a registration with an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidInput indicates a missing name or email.
	ErrInvalidInput = errors.New("name and email required")
)
