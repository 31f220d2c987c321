package model

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/actuallystonmai/movie-recommender/internal/config"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
)

// BreakerEncoder guards an Encoder with a circuit breaker. An open breaker
// surfaces as a ModelInferenceError.
type BreakerEncoder struct {
	next Encoder
	cb   *gobreaker.CircuitBreaker[[]float64]
}

func NewBreakerEncoder(next Encoder, cfg config.BreakerConfig, logger *logrus.Logger) *BreakerEncoder {
	name := "embedding-model"
	metrics.ModelBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("embedding model circuit breaker state change")
			metrics.ModelBreakerState.WithLabelValues(name).Set(float64(to))
		},
		// A caller giving up is not a model failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerEncoder{next: next, cb: cb}
}

func (b *BreakerEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	vec, err := b.cb.Execute(func() ([]float64, error) {
		return b.next.Encode(ctx, text)
	})
	if err == nil {
		return vec, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &ModelInferenceError{Msg: "embedding model circuit open", Err: err}
	}
	if IsModelInferenceError(err) {
		return nil, err
	}
	return nil, &ModelInferenceError{Msg: "embedding model failed", Err: err}
}

func (b *BreakerEncoder) State() gobreaker.State {
	return b.cb.State()
}
