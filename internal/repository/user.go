package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// Preference snapshot for one user
func (r *Repository) GetUserPreferences(ctx context.Context, userID int64) (*domain.Preferences, error) {
	var genres, liked, actors, directors, following []int64

	err := r.pool.QueryRow(ctx,
		`SELECT
			ARRAY(SELECT genre_id FROM user_favorite_genres WHERE user_id = u.id),
			ARRAY(SELECT movie_id FROM user_liked_movies WHERE user_id = u.id),
			ARRAY(SELECT actor_id FROM user_favorite_actors WHERE user_id = u.id),
			ARRAY(SELECT director_id FROM user_favorite_directors WHERE user_id = u.id),
			ARRAY(SELECT followee_id FROM user_follows WHERE follower_id = u.id)
		FROM users u WHERE u.id = $1`,
		userID,
	).Scan(&genres, &liked, &actors, &directors, &following)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query preferences of user id=%d: %w", userID, err)
	}

	return &domain.Preferences{
		UserID:            userID,
		FavoriteGenres:    domain.NewIDSet(genres...),
		LikedMovies:       domain.NewIDSet(liked...),
		FavoriteActors:    domain.NewIDSet(actors...),
		FavoriteDirectors: domain.NewIDSet(directors...),
		Following:         domain.NewIDSet(following...),
	}, nil
}

// Get user ids for page
func (r *Repository) GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error) {
	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query user ids for page %d: %w", page, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}

// Count total users
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users`,
	).Scan(&total)

	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
