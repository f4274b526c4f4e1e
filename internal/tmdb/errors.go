package tmdb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a movie doesn't exist in TMDB.
	ErrNotFound = errors.New("movie not found")

	// ErrTimeout is returned when an upstream call exceeds its deadline.
	ErrTimeout = errors.New("tmdb request timed out")

	// ErrUnreachable is returned when the upstream cannot be reached.
	ErrUnreachable = errors.New("cannot connect to tmdb")
)

// StatusError is returned for non-2xx upstream responses other than 404.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb request failed with status %d", e.Code)
}
