package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

const maxBodyBytes = 1 << 20

// GET  /users/{userID}/recommendations?keyword=
// POST /users/{userID}/recommendations {"keyword": "..."}
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	// Parse and validate user_id
	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	var req RecommendationRequest
	if r.Method == http.MethodPost {
		if !decodeOptionalBody(w, r, &req) {
			return
		}
	} else {
		req.Keyword = r.URL.Query().Get("keyword")
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Keyword must be at most 200 characters")
		return
	}

	withScores, ok := parseIncludeScores(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetRecommendations(r.Context(), userID, req.Keyword)
	if err != nil {
		if isTimeout(err) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		h.internalError(w, r, err)
		return
	}

	personalized, err := h.service.MovieCards(r.Context(), result.Personalized, withScores)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	keywordBased, err := h.service.MovieCards(r.Context(), result.KeywordBased, withScores)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		UserID:                      userID,
		PersonalizedRecommendations: personalized,
		KeywordBasedRecommendations: keywordBased,
		Metadata: domain.RecommendationMeta{
			Keyword:           result.Keyword,
			KeywordStatus:     result.KeywordStatus,
			GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
			PersonalizedCount: len(personalized),
			KeywordCount:      len(keywordBased),
		},
	})
}

// GET /recommendations/search?keyword=
func (h *Handler) SearchRecommendations(w http.ResponseWriter, r *http.Request) {
	req := RecommendationRequest{Keyword: r.URL.Query().Get("keyword")}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Keyword must be at most 200 characters")
		return
	}

	withScores, ok := parseIncludeScores(w, r)
	if !ok {
		return
	}

	ranked, err := h.service.SearchByKeyword(r.Context(), req.Keyword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyKeyword):
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Keyword is required")
		case errors.Is(err, domain.ErrModelUnavailable):
			writeError(w, http.StatusServiceUnavailable, "model_unavailable",
				"Embedding model is temporarily unavailable")
		case isTimeout(err):
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
		default:
			h.internalError(w, r, err)
		}
		return
	}

	cards, err := h.service.MovieCards(r.Context(), ranked, withScores)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Keyword:         req.Keyword,
		Recommendations: cards,
		Metadata: SearchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(cards),
		},
	})
}

// GET /movies/{movieID}/related
func (h *Handler) GetRelatedMovies(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieID"), 10, 64)
	if err != nil || movieID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie_id parameter")
		return
	}

	related, err := h.service.GetRelatedMovies(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) {
			writeError(w, http.StatusNotFound, "movie_not_found",
				fmt.Sprintf("Movie with ID %d does not exist", movieID))
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RelatedResponse{MovieID: movieID, Related: related})
}

func parseIncludeScores(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("include_scores")
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid include_scores parameter")
		return false, false
	}
	return v, true
}

// decodeOptionalBody accepts an empty body and leaves v untouched.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Could not read request body")
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a JSON object")
		return false
	}
	return true
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
