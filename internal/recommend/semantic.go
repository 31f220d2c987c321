package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/model"
)

const (
	TitleWeight    = 0.6
	OverviewWeight = 0.4
)

// Blend combines title and overview similarity. Raw cosine values are kept,
// so the blend can be negative.
func Blend(titleSim, overviewSim float64) float64 {
	return TitleWeight*titleSim + OverviewWeight*overviewSim
}

type SemanticScorer struct {
	keywords    model.Encoder
	cache       *EmbeddingCache
	limit       int
	concurrency int
}

// NewSemanticScorer encodes keywords with keywords and movies through cache.
// The two may share one model; keywords is usually wrapped with a keyword cache.
func NewSemanticScorer(keywords model.Encoder, cache *EmbeddingCache, limit, concurrency int) *SemanticScorer {
	if limit <= 0 {
		limit = domain.RecommendationLimit
	}
	return &SemanticScorer{
		keywords:    keywords,
		cache:       cache,
		limit:       limit,
		concurrency: concurrency,
	}
}

// Rank returns the catalog movies closest to keyword. Callers must skip this
// pipeline for an empty keyword; Rank refuses one with domain.ErrEmptyKeyword.
func (s *SemanticScorer) Rank(ctx context.Context, keyword string, catalog []domain.Movie) ([]domain.ScoredMovie, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, domain.ErrEmptyKeyword
	}
	if len(catalog) == 0 {
		return []domain.ScoredMovie{}, nil
	}

	query, err := s.keywords.Encode(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("encode keyword: %w", err)
	}

	embeddings, err := s.cache.GetOrComputeAll(ctx, catalog, s.concurrency)
	if err != nil {
		return nil, fmt.Errorf("movie embeddings: %w", err)
	}

	titles := make([][]float64, len(embeddings))
	overviews := make([][]float64, len(embeddings))
	for i, e := range embeddings {
		titles[i] = e.Title
		overviews[i] = e.Overview
	}

	titleSims, err := CosineSimilarities(query, titles)
	if err != nil {
		return nil, fmt.Errorf("title similarity: %w", err)
	}
	overviewSims, err := CosineSimilarities(query, overviews)
	if err != nil {
		return nil, fmt.Errorf("overview similarity: %w", err)
	}

	scored := make([]domain.ScoredMovie, len(catalog))
	for i, m := range catalog {
		scored[i] = domain.ScoredMovie{
			Movie: m,
			Score: Blend(titleSims[i], overviewSims[i]),
		}
	}
	return rankTop(scored, s.limit), nil
}
