package model

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actuallystonmai/movie-recommender/internal/metrics"
)

// KeywordStore persists keyword embeddings across requests and processes.
type KeywordStore interface {
	Get(ctx context.Context, text string) ([]float64, bool, error)
	Set(ctx context.Context, text string, vec []float64) error
}

// CachedEncoder consults a KeywordStore before the wrapped Encoder. Store
// failures are logged and bypassed.
type CachedEncoder struct {
	next   Encoder
	store  KeywordStore
	logger *logrus.Logger

	// bounds each store call so a dead store costs at most this per request
	storeTimeout time.Duration
}

const defaultStoreTimeout = 200 * time.Millisecond

func NewCachedEncoder(next Encoder, store KeywordStore, logger *logrus.Logger) *CachedEncoder {
	return &CachedEncoder{next: next, store: store, logger: logger, storeTimeout: defaultStoreTimeout}
}

func (c *CachedEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	getCtx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	vec, found, err := c.store.Get(getCtx, text)
	cancel()
	switch {
	case err != nil:
		metrics.KeywordCacheLookups.WithLabelValues("error").Inc()
		c.logger.WithError(err).Warn("keyword cache get failed")
	case found:
		metrics.KeywordCacheLookups.WithLabelValues("hit").Inc()
		return vec, nil
	default:
		metrics.KeywordCacheLookups.WithLabelValues("miss").Inc()
	}

	vec, err = c.next.Encode(ctx, text)
	if err != nil {
		return nil, err
	}

	setCtx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()
	if err := c.store.Set(setCtx, text, vec); err != nil {
		c.logger.WithError(err).Warn("keyword cache set failed")
	}
	return vec, nil
}
