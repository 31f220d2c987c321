package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	numActors    = 30
	numDirectors = 15
	numUsers     = 20
	castSize     = 3
)

// Dataset is the generated demo data. Serial ids follow slice order starting at 1.
type Dataset struct {
	Movies         []MovieRow
	Actors         []string
	Directors      []string
	Users          []UserRow
	MovieGenres    [][2]int64
	MovieActors    [][2]int64
	MovieDirectors [][2]int64
}

type MovieRow struct {
	Title       string
	Overview    string
	PosterPath  string
	ReleaseDate time.Time
	Popularity  float64
}

type UserRow struct {
	Username          string
	FavoriteGenres    []int64
	LikedMovies       []int64
	FavoriteActors    []int64
	FavoriteDirectors []int64
	Following         []int64
}

// Setup truncates every table and inserts a deterministic dataset.
func Setup(ctx context.Context, db Execer, logger *logrus.Logger) error {
	ds := Generate(rand.New(rand.NewSource(42)))

	// Truncate existing data before insert
	logger.Info("[seed] truncating existing data")
	if _, err := db.Exec(ctx, `
		TRUNCATE user_follows, user_favorite_directors, user_favorite_actors, user_liked_movies,
			user_favorite_genres, users, movie_directors, directors, movie_actors, actors,
			movie_genres, movies, genres RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	steps := []struct {
		name    string
		table   string
		columns []string
		rows    [][]any
	}{
		{"genres", "genres", []string{"id", "name"}, genreRows()},
		{"movies", "movies", []string{"title", "overview", "poster_path", "release_date", "popularity"}, movieRows(ds.Movies)},
		{"actors", "actors", []string{"name"}, nameRows(ds.Actors)},
		{"directors", "directors", []string{"name"}, nameRows(ds.Directors)},
		{"movie genres", "movie_genres", []string{"movie_id", "genre_id"}, pairRows(ds.MovieGenres)},
		{"movie actors", "movie_actors", []string{"movie_id", "actor_id"}, pairRows(ds.MovieActors)},
		{"movie directors", "movie_directors", []string{"movie_id", "director_id"}, pairRows(ds.MovieDirectors)},
		{"users", "users", []string{"username"}, usernameRows(ds.Users)},
		{"favorite genres", "user_favorite_genres", []string{"user_id", "genre_id"}, userPairs(ds.Users, func(u UserRow) []int64 { return u.FavoriteGenres })},
		{"liked movies", "user_liked_movies", []string{"user_id", "movie_id"}, userPairs(ds.Users, func(u UserRow) []int64 { return u.LikedMovies })},
		{"favorite actors", "user_favorite_actors", []string{"user_id", "actor_id"}, userPairs(ds.Users, func(u UserRow) []int64 { return u.FavoriteActors })},
		{"favorite directors", "user_favorite_directors", []string{"user_id", "director_id"}, userPairs(ds.Users, func(u UserRow) []int64 { return u.FavoriteDirectors })},
		{"follows", "user_follows", []string{"follower_id", "followee_id"}, userPairs(ds.Users, func(u UserRow) []int64 { return u.Following })},
	}

	for _, step := range steps {
		logger.WithField("rows", len(step.rows)).Infof("[seed] inserting %s", step.name)
		if err := insertRows(ctx, db, step.table, step.columns, step.rows); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	logger.Info("[seed] seeding complete")
	return nil
}

// Generate builds the demo dataset from rng. The same seed yields the same data.
func Generate(rng *rand.Rand) Dataset {
	var ds Dataset

	for i := 0; i < numActors; i++ {
		ds.Actors = append(ds.Actors, personName(i))
	}
	for i := 0; i < numDirectors; i++ {
		ds.Directors = append(ds.Directors, personName(i+numActors))
	}

	for _, g := range genres {
		for _, m := range moviesByGenre[g.ID] {
			movieID := int64(len(ds.Movies) + 1)
			ds.Movies = append(ds.Movies, MovieRow{
				Title:       m.Title,
				Overview:    m.Overview,
				PosterPath:  fmt.Sprintf("/posters/%d.jpg", movieID),
				ReleaseDate: time.Date(1970+rng.Intn(54), time.Month(rng.Intn(12)+1), rng.Intn(28)+1, 0, 0, 0, 0, time.UTC),
				Popularity:  math.Round(powerLawScore(rng)*500*100) / 100,
			})

			ds.MovieGenres = append(ds.MovieGenres, [2]int64{movieID, g.ID})
			if rng.Float64() < 0.2 {
				if second := genres[rng.Intn(len(genres))].ID; second != g.ID {
					ds.MovieGenres = append(ds.MovieGenres, [2]int64{movieID, second})
				}
			}

			for _, actor := range pick(rng, numActors, castSize) {
				ds.MovieActors = append(ds.MovieActors, [2]int64{movieID, actor})
			}
			ds.MovieDirectors = append(ds.MovieDirectors, [2]int64{movieID, int64(rng.Intn(numDirectors) + 1)})
		}
	}

	for i := 0; i < numUsers; i++ {
		userID := int64(i + 1)
		u := UserRow{Username: fmt.Sprintf("user%02d", userID)}

		for _, idx := range pick(rng, len(genres), rng.Intn(2)+1) {
			u.FavoriteGenres = append(u.FavoriteGenres, genres[idx-1].ID)
		}
		u.LikedMovies = pick(rng, len(ds.Movies), rng.Intn(6)+3)
		u.FavoriteActors = pick(rng, numActors, rng.Intn(4))
		u.FavoriteDirectors = pick(rng, numDirectors, rng.Intn(3))

		for _, followee := range pick(rng, numUsers, rng.Intn(4)) {
			if followee != userID {
				u.Following = append(u.Following, followee)
			}
		}
		ds.Users = append(ds.Users, u)
	}

	return ds
}

// pick returns k distinct ids in [1, n].
func pick(rng *rand.Rand, n, k int) []int64 {
	k = min(k, n)
	ids := make([]int64, 0, k)
	for _, p := range rng.Perm(n)[:k] {
		ids = append(ids, int64(p+1))
	}
	return ids
}

func personName(i int) string {
	return firstNames[i%len(firstNames)] + " " + lastNames[(i/len(firstNames)+i)%len(lastNames)]
}

func insertRows(ctx context.Context, db Execer, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		marks := make([]string, len(row))
		for j := range row {
			marks[j] = fmt.Sprintf("$%d", len(args)+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		args = append(args, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	_, err := db.Exec(ctx, query, args...)
	return err
}

func genreRows() [][]any {
	rows := make([][]any, len(genres))
	for i, g := range genres {
		rows[i] = []any{g.ID, g.Name}
	}
	return rows
}

func movieRows(movies []MovieRow) [][]any {
	rows := make([][]any, len(movies))
	for i, m := range movies {
		rows[i] = []any{m.Title, m.Overview, m.PosterPath, m.ReleaseDate, m.Popularity}
	}
	return rows
}

func nameRows(names []string) [][]any {
	rows := make([][]any, len(names))
	for i, n := range names {
		rows[i] = []any{n}
	}
	return rows
}

func usernameRows(users []UserRow) [][]any {
	rows := make([][]any, len(users))
	for i, u := range users {
		rows[i] = []any{u.Username}
	}
	return rows
}

func pairRows(pairs [][2]int64) [][]any {
	rows := make([][]any, len(pairs))
	for i, p := range pairs {
		rows[i] = []any{p[0], p[1]}
	}
	return rows
}

func userPairs(users []UserRow, ids func(UserRow) []int64) [][]any {
	var rows [][]any
	for i, u := range users {
		for _, id := range ids(u) {
			rows = append(rows, []any{int64(i + 1), id})
		}
	}
	return rows
}

func powerLawScore(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	raw := math.Pow(u, 2.0)
	if raw < 0.01 {
		raw = 0.01
	}
	return math.Round(raw*100) / 100
}
