package domain

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrMovieNotFound = errors.New("movie not found")
	ErrEmptyKeyword  = errors.New("keyword is empty")

	// ErrModelUnavailable marks a failure of the embedding model dependency.
	// Only the keyword pipeline can fail with it.
	ErrModelUnavailable = errors.New("embedding model unavailable")
)
