package domain

import (
	"math"
	"time"
)

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is one catalog entry. Genres, Cast and Crew hold genre, actor and
// director ids respectively.
type Movie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	PosterPath  *string    `json:"poster_path"`
	ReleaseDate *time.Time `json:"release_date"`
	Popularity  *float64   `json:"popularity"`
	Genres      IDSet      `json:"-"`
	Cast        IDSet      `json:"-"`
	Crew        IDSet      `json:"-"`
}

const popularityLogBase = 1000

// NormalizedPopularity maps the raw popularity onto 0-10 on a log scale,
// rounded to one decimal.
func (m Movie) NormalizedPopularity() float64 {
	if m.Popularity == nil {
		return 0
	}
	normalized := math.Log(*m.Popularity+1) / math.Log(popularityLogBase+1) * 7
	return math.Min(roundTenth(normalized), 10)
}

// roundTenth rounds to one decimal, halves to even.
func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
