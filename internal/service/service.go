package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
	"github.com/actuallystonmai/movie-recommender/internal/recommend"
)

const relatedMoviesLimit = 8

// Store is the persistence the service reads from. *repository.Repository
// satisfies it.
type Store interface {
	GetUserPreferences(ctx context.Context, userID int64) (*domain.Preferences, error)
	GetMovieCatalog(ctx context.Context) ([]domain.Movie, error)
	GetUsersLikedMovies(ctx context.Context, userIDs []int64) (domain.IDSet, error)
	GetGenres(ctx context.Context) (map[int64]string, error)
	GetRelatedMovies(ctx context.Context, movieID int64, limit int) ([]domain.Movie, error)
	GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error)
	CountUsers(ctx context.Context) (int, error)
}

type Service struct {
	store            Store
	relational       *recommend.RelationalScorer
	semantic         *recommend.SemanticScorer
	batchConcurrency int
	logger           *logrus.Logger

	genresMu sync.RWMutex
	genres   map[int64]string
}

func NewService(store Store, relational *recommend.RelationalScorer, semantic *recommend.SemanticScorer,
	batchConcurrency int, logger *logrus.Logger) *Service {
	if batchConcurrency <= 0 {
		batchConcurrency = 1
	}
	return &Service{
		store:            store,
		relational:       relational,
		semantic:         semantic,
		batchConcurrency: batchConcurrency,
		logger:           logger,
	}
}

// GetRecommendations runs the personalized pipeline and, for a non-blank
// keyword, the keyword pipeline. A keyword pipeline failure is reported in
// KeywordStatus and never fails the request.
func (s *Service) GetRecommendations(ctx context.Context, userID int64, keyword string) (*domain.RecommendationResult, error) {
	catalog, err := s.store.GetMovieCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	result := &domain.RecommendationResult{
		Keyword:       strings.TrimSpace(keyword),
		KeywordStatus: domain.KeywordSkipped,
		KeywordBased:  []domain.ScoredMovie{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		personalized, err := s.personalized(gctx, userID, catalog)
		if err != nil {
			return err
		}
		result.Personalized = personalized
		return nil
	})

	if result.Keyword != "" {
		g.Go(func() error {
			ranked, err := s.keywordBased(gctx, result.Keyword, catalog)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"user_id": userID,
					"keyword": result.Keyword,
				}).WithError(err).Warn("Keyword recommendations unavailable")
				result.KeywordStatus = domain.KeywordUnavailable
				return nil
			}
			result.KeywordBased = ranked
			result.KeywordStatus = domain.KeywordOK
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchByKeyword runs the keyword pipeline alone. Model failures surface
// as domain.ErrModelUnavailable.
func (s *Service) SearchByKeyword(ctx context.Context, keyword string) ([]domain.ScoredMovie, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.ErrEmptyKeyword
	}

	catalog, err := s.store.GetMovieCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	ranked, err := s.keywordBased(ctx, keyword, catalog)
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

// personalized returns an empty list for an unknown user.
func (s *Service) personalized(ctx context.Context, userID int64, catalog []domain.Movie) ([]domain.ScoredMovie, error) {
	timer := prometheus.NewTimer(metrics.ScoringDuration.WithLabelValues(metrics.PipelinePersonalized))
	defer timer.ObserveDuration()

	prefs, err := s.store.GetUserPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.WithField("user_id", userID).Info("Unknown user, no personalized recommendations")
			return []domain.ScoredMovie{}, nil
		}
		metrics.PipelineFailures.WithLabelValues(metrics.PipelinePersonalized).Inc()
		return nil, fmt.Errorf("fetch preferences: %w", err)
	}

	friendLiked, err := s.store.GetUsersLikedMovies(ctx, prefs.Following.Sorted())
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(metrics.PipelinePersonalized).Inc()
		return nil, fmt.Errorf("fetch friends' liked movies: %w", err)
	}

	profile := recommend.NewProfile(prefs, friendLiked, catalog)
	return s.relational.Rank(profile, catalog), nil
}

func (s *Service) keywordBased(ctx context.Context, keyword string, catalog []domain.Movie) ([]domain.ScoredMovie, error) {
	timer := prometheus.NewTimer(metrics.ScoringDuration.WithLabelValues(metrics.PipelineKeyword))
	defer timer.ObserveDuration()

	ranked, err := s.semantic.Rank(ctx, keyword, catalog)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(metrics.PipelineKeyword).Inc()
		return nil, err
	}
	return ranked, nil
}

// GetRelatedMovies returns up to 8 movies sharing a genre with movieID.
func (s *Service) GetRelatedMovies(ctx context.Context, movieID int64) ([]domain.MovieCard, error) {
	movies, err := s.store.GetRelatedMovies(ctx, movieID, relatedMoviesLimit)
	if err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch related movies: %w", err)
	}

	scored := make([]domain.ScoredMovie, len(movies))
	for i, m := range movies {
		scored[i] = domain.ScoredMovie{Movie: m}
	}
	return s.MovieCards(ctx, scored, false)
}

// MovieCards projects ranked movies for serialization, resolving genre names.
func (s *Service) MovieCards(ctx context.Context, scored []domain.ScoredMovie, withScores bool) ([]domain.MovieCard, error) {
	names, err := s.genreNames(ctx, false)
	if err != nil {
		return nil, err
	}
	if hasUnknownGenre(scored, names) {
		if names, err = s.genreNames(ctx, true); err != nil {
			return nil, err
		}
	}

	cards := make([]domain.MovieCard, len(scored))
	for i, sm := range scored {
		cards[i] = domain.NewMovieCard(sm.Movie, names)
		if withScores {
			score := sm.Score
			cards[i].Score = &score
		}
	}
	return cards, nil
}

// genreNames returns the cached genre names, loading them on first use or
// when reload is set.
func (s *Service) genreNames(ctx context.Context, reload bool) (map[int64]string, error) {
	if !reload {
		s.genresMu.RLock()
		names := s.genres
		s.genresMu.RUnlock()
		if names != nil {
			return names, nil
		}
	}

	names, err := s.store.GetGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}

	s.genresMu.Lock()
	s.genres = names
	s.genresMu.Unlock()
	return names, nil
}

func hasUnknownGenre(scored []domain.ScoredMovie, names map[int64]string) bool {
	for _, sm := range scored {
		for id := range sm.Movie.Genres {
			if _, ok := names[id]; !ok {
				return true
			}
		}
	}
	return false
}

func (s *Service) GetBatchRecommendations(ctx context.Context, page, limit int) (*domain.BatchResponse, error) {
	start := time.Now()

	// Fetch paginated user IDs
	userIDs, err := s.store.GetUserIDsPaginated(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch user ids: %w", err)
	}

	// Fetch total user
	totalUsers, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count user: %w", err)
	}

	catalog, err := s.store.GetMovieCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	// Process users concurrently with bounded worker pool
	results := make([]domain.BatchUserResult, len(userIDs))
	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)

	for i, userID := range userIDs {
		i, userID := i, userID
		g.Go(func() error {
			results[i] = s.processUserForBatch(ctx, userID, catalog)
			return nil
		})
	}
	_ = g.Wait()

	// summary
	successCount := 0
	failedCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}

	return &domain.BatchResponse{
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      failedCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Generates recommendations for a single user, capturing errors.
func (s *Service) processUserForBatch(ctx context.Context, userID int64, catalog []domain.Movie) domain.BatchUserResult {
	fail := func(err error) domain.BatchUserResult {
		s.logger.WithField("user_id", userID).WithError(err).Error("Batch recommendation failed")
		code, msg := categorizeError(err)
		return domain.BatchUserResult{
			UserID:  userID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}

	recs, err := s.personalized(ctx, userID, catalog)
	if err != nil {
		return fail(err)
	}
	cards, err := s.MovieCards(ctx, recs, false)
	if err != nil {
		return fail(err)
	}

	return domain.BatchUserResult{
		UserID:          userID,
		Recommendations: recs,
		Cards:           cards,
		Status:          domain.StatusSuccess,
	}
}

// Handle response error
func categorizeError(err error) (string, string) {
	if errors.Is(err, domain.ErrUserNotFound) {
		return "user_not_found", "user not found"
	}
	if errors.Is(err, domain.ErrModelUnavailable) {
		return "model_unavailable", "embedding model failed to generate a response"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "request_timeout", "request timed out"
	}
	return "internal_error", "an unexpected error occurred"
}
