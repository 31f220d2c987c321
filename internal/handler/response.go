package handler

import "github.com/actuallystonmai/movie-recommender/internal/domain"

type RecommendationRequest struct {
	Keyword string `json:"keyword" validate:"max=200"`
}

type RecommendationResponse struct {
	UserID                      int64                     `json:"user_id"`
	PersonalizedRecommendations []domain.MovieCard        `json:"personalized_recommendations"`
	KeywordBasedRecommendations []domain.MovieCard        `json:"keyword_based_recommendations"`
	Metadata                    domain.RecommendationMeta `json:"metadata"`
}

type SearchResponse struct {
	Keyword         string             `json:"keyword"`
	Recommendations []domain.MovieCard `json:"recommendations"`
	Metadata        SearchMeta         `json:"metadata"`
}

type SearchMeta struct {
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type RelatedResponse struct {
	MovieID int64              `json:"movie_id"`
	Related []domain.MovieCard `json:"related_movies"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
