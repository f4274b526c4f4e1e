package movies

import "errors"

var (
	// ErrInvalidID indicates a non-positive movie ID.
	ErrInvalidID = errors.New("movie id must be a positive integer")

	// ErrInvalidLanguage indicates an unparseable language tag.
	ErrInvalidLanguage = errors.New("invalid language tag")

	// ErrMissingQuery indicates a blank search query.
	ErrMissingQuery = errors.New("query parameter required")
)
