package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "movierec"

var (
	EmbeddingCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "embedding_cache_lookups_total",
		Help:      "Per-movie embedding cache lookups by result (hit or miss).",
	}, []string{"result"})

	EmbeddingCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "embedding_cache_entries",
		Help:      "Number of movies with cached title/overview embeddings.",
	})

	KeywordCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keyword_cache_lookups_total",
		Help:      "Keyword embedding cache lookups by result (hit, miss or error).",
	}, []string{"result"})

	ScoringDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Time spent ranking the catalog per pipeline.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pipeline"})

	PipelineFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_failures_total",
		Help:      "Recommendation pipeline failures.",
	}, []string{"pipeline"})

	ModelBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "model_breaker_state",
		Help:      "Embedding model circuit breaker state (0=closed, 1=half-open, 2=open).",
	}, []string{"name"})
)

const (
	PipelinePersonalized = "personalized"
	PipelineKeyword      = "keyword"
)

// Register adds every collector to reg. Collectors that are already
// registered are skipped so tests and restarts can call it repeatedly.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		EmbeddingCacheLookups,
		EmbeddingCacheEntries,
		KeywordCacheLookups,
		ScoringDuration,
		PipelineFailures,
		ModelBreakerState,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}
