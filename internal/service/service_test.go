package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/model"
	"github.com/actuallystonmai/movie-recommender/internal/recommend"
)

type fakeStore struct {
	catalog    []domain.Movie
	catalogErr error
	prefs      map[int64]*domain.Preferences
	prefsErr   map[int64]error
	likes      map[int64][]int64
	genres     map[int64]string
	genreCalls int
	users      []int64
}

func (f *fakeStore) GetUserPreferences(_ context.Context, userID int64) (*domain.Preferences, error) {
	if err := f.prefsErr[userID]; err != nil {
		return nil, err
	}
	p, ok := f.prefs[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return p, nil
}

func (f *fakeStore) GetMovieCatalog(context.Context) ([]domain.Movie, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeStore) GetUsersLikedMovies(_ context.Context, userIDs []int64) (domain.IDSet, error) {
	liked := domain.NewIDSet()
	for _, id := range userIDs {
		for _, m := range f.likes[id] {
			liked.Add(m)
		}
	}
	return liked, nil
}

func (f *fakeStore) GetGenres(context.Context) (map[int64]string, error) {
	f.genreCalls++
	return f.genres, nil
}

func (f *fakeStore) GetRelatedMovies(_ context.Context, movieID int64, limit int) ([]domain.Movie, error) {
	var src *domain.Movie
	for i := range f.catalog {
		if f.catalog[i].ID == movieID {
			src = &f.catalog[i]
		}
	}
	if src == nil {
		return nil, domain.ErrMovieNotFound
	}
	var related []domain.Movie
	for _, m := range f.catalog {
		if m.ID != movieID && m.Genres.Intersects(src.Genres) && len(related) < limit {
			related = append(related, m)
		}
	}
	return related, nil
}

func (f *fakeStore) GetUserIDsPaginated(context.Context, int, int) ([]int64, error) {
	return f.users, nil
}

func (f *fakeStore) CountUsers(context.Context) (int, error) {
	return len(f.users), nil
}

type downEncoder struct{}

func (downEncoder) Encode(context.Context, string) ([]float64, error) {
	return nil, &model.ModelInferenceError{Msg: "embedding server unreachable"}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testCatalog() []domain.Movie {
	return []domain.Movie{
		{ID: 1, Title: "Interstellar", Overview: "Explorers travel through a wormhole in space.",
			Genres: domain.NewIDSet(1), Cast: domain.NewIDSet(100), Crew: domain.NewIDSet(200)},
		{ID: 2, Title: "Superbad", Overview: "Two teens try to enjoy a party.",
			Genres: domain.NewIDSet(2), Cast: domain.NewIDSet(101), Crew: domain.NewIDSet(201)},
		{ID: 3, Title: "Gravity", Overview: "Astronauts are stranded in space.",
			Genres: domain.NewIDSet(1, 3), Cast: domain.NewIDSet(102), Crew: domain.NewIDSet(202)},
	}
}

func newTestService(store Store, enc model.Encoder) *Service {
	semantic := recommend.NewSemanticScorer(enc, recommend.NewEmbeddingCache(enc), 0, 2)
	return NewService(store, recommend.NewRelationalScorer(0), semantic, 2, quietLogger())
}

func sciFiFan() *domain.Preferences {
	p := domain.EmptyPreferences(7)
	p.FavoriteGenres = domain.NewIDSet(1)
	p.FavoriteActors = domain.NewIDSet(102)
	p.Following = domain.NewIDSet(8)
	return p
}

func TestGetRecommendationsWithoutKeyword(t *testing.T) {
	store := &fakeStore{
		catalog: testCatalog(),
		prefs:   map[int64]*domain.Preferences{7: sciFiFan()},
		likes:   map[int64][]int64{8: {2}},
	}
	svc := newTestService(store, model.NewHashingEncoder(64))

	result, err := svc.GetRecommendations(context.Background(), 7, "  ")
	require.NoError(t, err)

	assert.Equal(t, domain.KeywordSkipped, result.KeywordStatus)
	assert.Empty(t, result.KeywordBased)
	require.Len(t, result.Personalized, 3)
	// genre + actor, genre only, friend only
	assert.Equal(t, int64(3), result.Personalized[0].Movie.ID)
	assert.InDelta(t, 0.5, result.Personalized[0].Score, 1e-9)
	assert.Equal(t, int64(1), result.Personalized[1].Movie.ID)
	assert.InDelta(t, 0.3, result.Personalized[1].Score, 1e-9)
	assert.Equal(t, int64(2), result.Personalized[2].Movie.ID)
	assert.InDelta(t, 0.1, result.Personalized[2].Score, 1e-9)
}

func TestGetRecommendationsWithKeyword(t *testing.T) {
	store := &fakeStore{
		catalog: testCatalog(),
		prefs:   map[int64]*domain.Preferences{7: sciFiFan()},
	}
	svc := newTestService(store, model.NewHashingEncoder(128))

	result, err := svc.GetRecommendations(context.Background(), 7, "space")
	require.NoError(t, err)

	assert.Equal(t, domain.KeywordOK, result.KeywordStatus)
	assert.Equal(t, "space", result.Keyword)
	require.Len(t, result.KeywordBased, 3)
	assert.Equal(t, int64(2), result.KeywordBased[2].Movie.ID)
	assert.Len(t, result.Personalized, 3)
}

func TestGetRecommendationsModelDownKeepsPersonalized(t *testing.T) {
	store := &fakeStore{
		catalog: testCatalog(),
		prefs:   map[int64]*domain.Preferences{7: sciFiFan()},
	}
	svc := newTestService(store, downEncoder{})

	result, err := svc.GetRecommendations(context.Background(), 7, "space")
	require.NoError(t, err)

	assert.Equal(t, domain.KeywordUnavailable, result.KeywordStatus)
	assert.Empty(t, result.KeywordBased)
	assert.Len(t, result.Personalized, 3)
}

func TestGetRecommendationsUnknownUser(t *testing.T) {
	store := &fakeStore{catalog: testCatalog()}
	svc := newTestService(store, model.NewHashingEncoder(64))

	result, err := svc.GetRecommendations(context.Background(), 404, "")
	require.NoError(t, err)
	assert.NotNil(t, result.Personalized)
	assert.Empty(t, result.Personalized)
}

func TestGetRecommendationsEmptyCatalog(t *testing.T) {
	store := &fakeStore{prefs: map[int64]*domain.Preferences{7: sciFiFan()}}
	svc := newTestService(store, model.NewHashingEncoder(64))

	result, err := svc.GetRecommendations(context.Background(), 7, "space")
	require.NoError(t, err)
	assert.Empty(t, result.Personalized)
	assert.Empty(t, result.KeywordBased)
	assert.Equal(t, domain.KeywordOK, result.KeywordStatus)
}

func TestGetRecommendationsStoreFailure(t *testing.T) {
	store := &fakeStore{catalogErr: errors.New("pool closed")}
	svc := newTestService(store, model.NewHashingEncoder(64))

	_, err := svc.GetRecommendations(context.Background(), 7, "")
	assert.ErrorContains(t, err, "pool closed")
}

func TestSearchByKeyword(t *testing.T) {
	store := &fakeStore{catalog: testCatalog()}

	_, err := newTestService(store, model.NewHashingEncoder(64)).SearchByKeyword(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrEmptyKeyword)

	_, err = newTestService(store, downEncoder{}).SearchByKeyword(context.Background(), "space")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	ranked, err := newTestService(store, model.NewHashingEncoder(64)).SearchByKeyword(context.Background(), "space")
	require.NoError(t, err)
	assert.Len(t, ranked, 3)
}

func TestGetRelatedMovies(t *testing.T) {
	store := &fakeStore{
		catalog: testCatalog(),
		genres:  map[int64]string{1: "Science Fiction", 2: "Comedy", 3: "Drama"},
	}
	svc := newTestService(store, model.NewHashingEncoder(64))

	cards, err := svc.GetRelatedMovies(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Gravity", cards[0].Title)
	assert.Equal(t, []domain.Genre{{ID: 1, Name: "Science Fiction"}, {ID: 3, Name: "Drama"}}, cards[0].Genres)
	assert.Nil(t, cards[0].Score)

	_, err = svc.GetRelatedMovies(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func TestMovieCardsLoadsGenresOnce(t *testing.T) {
	store := &fakeStore{genres: map[int64]string{1: "Science Fiction"}}
	svc := newTestService(store, model.NewHashingEncoder(64))
	scored := []domain.ScoredMovie{{Movie: testCatalog()[0], Score: 0.42}}

	cards, err := svc.MovieCards(context.Background(), scored, true)
	require.NoError(t, err)
	require.NotNil(t, cards[0].Score)
	assert.Equal(t, 0.42, *cards[0].Score)

	_, err = svc.MovieCards(context.Background(), scored, false)
	require.NoError(t, err)
	assert.Equal(t, 1, store.genreCalls)
}

func TestMovieCardsReloadsGenresAddedLater(t *testing.T) {
	store := &fakeStore{genres: map[int64]string{1: "Science Fiction"}}
	svc := newTestService(store, model.NewHashingEncoder(64))
	catalog := testCatalog()

	_, err := svc.MovieCards(context.Background(), []domain.ScoredMovie{{Movie: catalog[0]}}, false)
	require.NoError(t, err)

	store.genres = map[int64]string{1: "Science Fiction", 3: "Drama"}
	cards, err := svc.MovieCards(context.Background(), []domain.ScoredMovie{{Movie: catalog[2]}}, false)
	require.NoError(t, err)

	assert.Equal(t, []domain.Genre{{ID: 1, Name: "Science Fiction"}, {ID: 3, Name: "Drama"}}, cards[0].Genres)
	assert.Equal(t, 2, store.genreCalls)
}

func TestGetBatchRecommendations(t *testing.T) {
	store := &fakeStore{
		catalog:  testCatalog(),
		prefs:    map[int64]*domain.Preferences{7: sciFiFan(), 9: domain.EmptyPreferences(9)},
		prefsErr: map[int64]error{8: errors.New("connection reset")},
		genres:   map[int64]string{1: "Science Fiction"},
		users:    []int64{7, 8, 9},
	}
	svc := newTestService(store, model.NewHashingEncoder(64))

	resp, err := svc.GetBatchRecommendations(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalUsers)
	assert.Equal(t, 2, resp.Summary.SuccessCount)
	assert.Equal(t, 1, resp.Summary.FailedCount)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, int64(7), resp.Results[0].UserID)
	assert.Equal(t, domain.StatusSuccess, resp.Results[0].Status)
	assert.Len(t, resp.Results[0].Cards, 3)

	assert.Equal(t, domain.StatusFailed, resp.Results[1].Status)
	assert.Equal(t, "internal_error", resp.Results[1].Error)
}

func TestCategorizeError(t *testing.T) {
	code, _ := categorizeError(domain.ErrUserNotFound)
	assert.Equal(t, "user_not_found", code)

	code, _ = categorizeError(&model.ModelInferenceError{Msg: "down"})
	assert.Equal(t, "model_unavailable", code)

	code, _ = categorizeError(context.DeadlineExceeded)
	assert.Equal(t, "request_timeout", code)

	code, _ = categorizeError(errors.New("boom"))
	assert.Equal(t, "internal_error", code)
}
