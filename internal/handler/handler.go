package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/logging"
)

// RecommendationService is what the handlers need from *service.Service.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID int64, keyword string) (*domain.RecommendationResult, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]domain.ScoredMovie, error)
	GetBatchRecommendations(ctx context.Context, page, limit int) (*domain.BatchResponse, error)
	GetRelatedMovies(ctx context.Context, movieID int64) ([]domain.MovieCard, error)
	MovieCards(ctx context.Context, scored []domain.ScoredMovie, withScores bool) ([]domain.MovieCard, error)
}

type Handler struct {
	service  RecommendationService
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewHandler(svc RecommendationService, logger *logrus.Logger) *Handler {
	return &Handler{
		service:  svc,
		validate: validator.New(),
		logger:   logger,
	}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WithFields(logrus.Fields{
		"request_id": logging.RequestIDFromContext(r.Context()),
		"path":       r.URL.Path,
	}).WithError(err).Error("Request failed")
	writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
