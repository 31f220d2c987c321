package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// Full catalog with genre, cast and crew ids, in id order.
func (r *Repository) GetMovieCatalog(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.title, COALESCE(m.overview, ''), m.poster_path, m.release_date, m.popularity,
			ARRAY(SELECT mg.genre_id FROM movie_genres mg WHERE mg.movie_id = m.id),
			ARRAY(SELECT ma.actor_id FROM movie_actors ma WHERE ma.movie_id = m.id),
			ARRAY(SELECT md.director_id FROM movie_directors md WHERE md.movie_id = m.id)
		FROM movies m
		ORDER BY m.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query movie catalog: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var (
			m                  domain.Movie
			genres, cast, crew []int64
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Overview, &m.PosterPath, &m.ReleaseDate, &m.Popularity,
			&genres, &cast, &crew); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		m.Genres = domain.NewIDSet(genres...)
		m.Cast = domain.NewIDSet(cast...)
		m.Crew = domain.NewIDSet(crew...)
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over movies: %w", err)
	}
	return movies, nil
}

// Genre id -> name
func (r *Repository) GetGenres(ctx context.Context) (map[int64]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM genres`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	genres := make(map[int64]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over genres: %w", err)
	}
	return genres, nil
}

// Movies sharing at least one genre with movieID, most popular first.
// Ordering by raw popularity matches ordering by normalized popularity,
// which is a monotonic function of it.
func (r *Repository) GetRelatedMovies(ctx context.Context, movieID int64, limit int) ([]domain.Movie, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, movieID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check movie id=%d: %w", movieID, err)
	}
	if !exists {
		return nil, domain.ErrMovieNotFound
	}

	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.title, COALESCE(m.overview, ''), m.poster_path, m.release_date, m.popularity,
			ARRAY(SELECT mg.genre_id FROM movie_genres mg WHERE mg.movie_id = m.id)
		FROM movies m
		WHERE m.id <> $1
			AND EXISTS (
				SELECT 1 FROM movie_genres src
				JOIN movie_genres cand ON cand.genre_id = src.genre_id
				WHERE src.movie_id = $1 AND cand.movie_id = m.id
			)
		ORDER BY m.popularity DESC NULLS LAST, m.id
		LIMIT $2`,
		movieID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query related movies for %d: %w", movieID, err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var (
			m      domain.Movie
			genres []int64
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Overview, &m.PosterPath, &m.ReleaseDate, &m.Popularity, &genres); err != nil {
			return nil, fmt.Errorf("scan related movie: %w", err)
		}
		m.Genres = domain.NewIDSet(genres...)
		m.Cast = domain.NewIDSet()
		m.Crew = domain.NewIDSet()
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over related movies: %w", err)
	}
	return movies, nil
}

// Union of movies liked by any of userIDs.
func (r *Repository) GetUsersLikedMovies(ctx context.Context, userIDs []int64) (domain.IDSet, error) {
	liked := domain.NewIDSet()
	if len(userIDs) == 0 {
		return liked, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT movie_id FROM user_liked_movies WHERE user_id = ANY($1)`, userIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query liked movies of %d users: %w", len(userIDs), err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect liked movies: %w", err)
	}
	for _, id := range ids {
		liked.Add(id)
	}
	return liked, nil
}
