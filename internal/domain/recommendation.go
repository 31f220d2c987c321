package domain

import "time"

const RecommendationLimit = 10

type ScoredMovie struct {
	Movie Movie
	Score float64
}

type KeywordStatus string

const (
	KeywordSkipped     KeywordStatus = "skipped"
	KeywordOK          KeywordStatus = "ok"
	KeywordUnavailable KeywordStatus = "unavailable"
)

type RecommendationResult struct {
	Personalized  []ScoredMovie
	KeywordBased  []ScoredMovie
	Keyword       string
	KeywordStatus KeywordStatus
}

// MovieCard is the transport projection of a recommended movie.
// Score is only set when the caller asks for it.
type MovieCard struct {
	ID                   int64    `json:"id"`
	Title                string   `json:"title"`
	PosterPath           *string  `json:"poster_path"`
	ReleaseDate          *string  `json:"release_date"`
	Popularity           *float64 `json:"popularity"`
	NormalizedPopularity float64  `json:"normalized_popularity"`
	Genres               []Genre  `json:"genres"`
	Score                *float64 `json:"score,omitempty"`
}

// NewMovieCard projects a movie; genre names are resolved from names and
// unknown ids are skipped.
func NewMovieCard(m Movie, names map[int64]string) MovieCard {
	card := MovieCard{
		ID:                   m.ID,
		Title:                m.Title,
		PosterPath:           m.PosterPath,
		Popularity:           m.Popularity,
		NormalizedPopularity: m.NormalizedPopularity(),
		Genres:               make([]Genre, 0, len(m.Genres)),
	}
	if m.ReleaseDate != nil {
		d := m.ReleaseDate.Format(time.DateOnly)
		card.ReleaseDate = &d
	}
	for _, id := range m.Genres.Sorted() {
		if name, ok := names[id]; ok {
			card.Genres = append(card.Genres, Genre{ID: id, Name: name})
		}
	}
	return card
}

type RecommendationMeta struct {
	Keyword           string        `json:"keyword,omitempty"`
	KeywordStatus     KeywordStatus `json:"keyword_status"`
	GeneratedAt       string        `json:"generated_at"`
	PersonalizedCount int           `json:"personalized_count"`
	KeywordCount      int           `json:"keyword_count"`
}

type BatchUserResult struct {
	UserID          int64         `json:"user_id"`
	Recommendations []ScoredMovie `json:"-"`
	Cards           []MovieCard   `json:"recommendations,omitempty"`
	Status          BatchStatus   `json:"status"`
	Error           string        `json:"error,omitempty"`
	Message         string        `json:"message,omitempty"`
}

type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
)

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalUsers int               `json:"total_users"`
	Results    []BatchUserResult `json:"results"`
	Summary    BatchSummary      `json:"summary"`
	Metadata   BatchMeta         `json:"metadata"`
}
