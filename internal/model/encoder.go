package model

import (
	"context"
	"errors"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// Encoder turns text into a fixed-size embedding. The same text must always
// yield the same vector within one process.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float64, error)
}

// ModelInferenceError reports a failed call into the embedding model. It
// matches domain.ErrModelUnavailable under errors.Is.
type ModelInferenceError struct {
	Msg string
	Err error
}

func (e *ModelInferenceError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ModelInferenceError) Unwrap() error {
	return e.Err
}

func (e *ModelInferenceError) Is(target error) bool {
	return target == domain.ErrModelUnavailable
}

func IsModelInferenceError(err error) bool {
	var target *ModelInferenceError
	return errors.As(err, &target)
}
