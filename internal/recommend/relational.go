// Package recommend ranks catalog movies for a user (relational signals) and
// for a free-text keyword (semantic similarity over cached embeddings).
package recommend

import (
	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// Relational weights. They sum to 1 so the total stays in [0,1].
const (
	GenreWeight          = 0.3
	LikedMoviesWeight    = 0.2
	ActorWeight          = 0.2
	DirectorWeight       = 0.2
	FriendActivityWeight = 0.1
)

type SubScores struct {
	Genre          float64
	LikedMovies    float64
	Actor          float64
	Director       float64
	FriendActivity float64
}

func (s SubScores) Total() float64 {
	return GenreWeight*s.Genre +
		LikedMoviesWeight*s.LikedMovies +
		ActorWeight*s.Actor +
		DirectorWeight*s.Director +
		FriendActivityWeight*s.FriendActivity
}

type RelationalScorer struct {
	limit int
}

func NewRelationalScorer(limit int) *RelationalScorer {
	if limit <= 0 {
		limit = domain.RecommendationLimit
	}
	return &RelationalScorer{limit: limit}
}

// Profile is everything the relational signals need for one user: the
// preference snapshot, the genres of each liked movie, and the movies liked
// by anyone the user follows.
type Profile struct {
	prefs       *domain.Preferences
	likedGenres []domain.IDSet
	friendLiked domain.IDSet
}

// NewProfile resolves liked movies against the catalog. Liked ids missing from
// the catalog are dropped from both the numerator and the denominator of the
// liked-movies score.
func NewProfile(prefs *domain.Preferences, friendLiked domain.IDSet, catalog []domain.Movie) *Profile {
	if prefs == nil {
		prefs = domain.EmptyPreferences(0)
	}
	p := &Profile{prefs: prefs, friendLiked: friendLiked}
	if len(prefs.LikedMovies) == 0 {
		return p
	}
	for _, m := range catalog {
		if prefs.LikedMovies.Contains(m.ID) {
			p.likedGenres = append(p.likedGenres, m.Genres)
		}
	}
	return p
}

func (p *Profile) Score(m domain.Movie) SubScores {
	return SubScores{
		Genre:          ratio(p.prefs.FavoriteGenres.IntersectionSize(m.Genres), len(p.prefs.FavoriteGenres)),
		LikedMovies:    p.likedMoviesScore(m),
		Actor:          ratio(p.prefs.FavoriteActors.IntersectionSize(m.Cast), len(p.prefs.FavoriteActors)),
		Director:       ratio(p.prefs.FavoriteDirectors.IntersectionSize(m.Crew), len(p.prefs.FavoriteDirectors)),
		FriendActivity: p.friendActivityScore(m),
	}
}

// likedMoviesScore counts liked movies sharing any genre with m, not the
// number of shared genres.
func (p *Profile) likedMoviesScore(m domain.Movie) float64 {
	shared := 0
	for _, genres := range p.likedGenres {
		if genres.Intersects(m.Genres) {
			shared++
		}
	}
	return ratio(shared, len(p.likedGenres))
}

func (p *Profile) friendActivityScore(m domain.Movie) float64 {
	if p.friendLiked.Contains(m.ID) {
		return 1
	}
	return 0
}

// Rank scores every catalog movie and returns the top results. Equal scores
// keep catalog order.
func (s *RelationalScorer) Rank(profile *Profile, catalog []domain.Movie) []domain.ScoredMovie {
	scored := make([]domain.ScoredMovie, 0, len(catalog))
	for _, m := range catalog {
		scored = append(scored, domain.ScoredMovie{
			Movie: m,
			Score: profile.Score(m).Total(),
		})
	}
	return rankTop(scored, s.limit)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
