package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reelgap/database"
	"reelgap/models"
)

// RatingRepository implements the RatingRepository interface
type RatingRepository struct {
	q queryable
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *database.DB) *RatingRepository {
	return &RatingRepository{q: db.Pool}
}

// newRatingRepositoryWithTx creates a new rating repository with a transaction
func newRatingRepositoryWithTx(tx queryable) *RatingRepository {
	return &RatingRepository{q: tx}
}

const ratingColumns = `user_id, movie_id, pre_rating, post_rating, award_state, created_at, updated_at`

func scanRating(row pgx.Row) (*models.Rating, error) {
	var rating models.Rating
	err := row.Scan(
		&rating.UserID,
		&rating.MovieID,
		&rating.PreRating,
		&rating.PostRating,
		&rating.AwardState,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Get retrieves the rating for a (user, movie) pair, returning nil if none exists
func (r *RatingRepository) Get(ctx context.Context, userID uuid.UUID, movieID int64) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE user_id = $1 AND movie_id = $2`

	rating, err := scanRating(r.q.QueryRow(ctx, query, userID, movieID))
	if err != nil {
		return nil, fmt.Errorf("failed to get rating for user %s movie %d: %w", userID, movieID, err)
	}
	return rating, nil
}

// GetForUpdate retrieves the rating for a (user, movie) pair and takes a row
// lock on it. The points engine reads through this so the award state it
// decides on cannot change underneath the transaction.
func (r *RatingRepository) GetForUpdate(ctx context.Context, userID uuid.UUID, movieID int64) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE user_id = $1 AND movie_id = $2 FOR UPDATE`

	rating, err := scanRating(r.q.QueryRow(ctx, query, userID, movieID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock rating for user %s movie %d: %w", userID, movieID, err)
	}
	return rating, nil
}

// Upsert inserts the rating or fills in the missing score on the existing
// row. Already-set scores are kept: each side of the pair is settable once.
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (user_id, movie_id, pre_rating, post_rating)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			pre_rating = COALESCE(ratings.pre_rating, EXCLUDED.pre_rating),
			post_rating = COALESCE(ratings.post_rating, EXCLUDED.post_rating),
			updated_at = NOW()
		RETURNING ` + ratingColumns

	stored, err := scanRating(r.q.QueryRow(ctx, query,
		rating.UserID,
		rating.MovieID,
		rating.PreRating,
		rating.PostRating,
	))
	if err != nil {
		return fmt.Errorf("failed to upsert rating for user %s movie %d: %w", rating.UserID, rating.MovieID, err)
	}

	*rating = *stored
	return nil
}

// SetAwardState advances the award state marker for a (user, movie) pair
func (r *RatingRepository) SetAwardState(ctx context.Context, userID uuid.UUID, movieID int64, state models.AwardState) error {
	query := `
		UPDATE ratings
		SET award_state = $1, updated_at = NOW()
		WHERE user_id = $2 AND movie_id = $3
	`

	result, err := r.q.Exec(ctx, query, state, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to set award state for user %s movie %d: %w", userID, movieID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rating for user %s movie %d not found", userID, movieID)
	}

	return nil
}

// ListPendingByUser returns the user's ratings still waiting on a post score,
// newest first, joined with the cached movie metadata
func (r *RatingRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PendingRating, error) {
	query := `
		SELECT r.movie_id, m.title, m.poster_url, m.release_year, r.created_at
		FROM ratings r
		JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = $1
		  AND r.pre_rating IS NOT NULL
		  AND r.post_rating IS NULL
		ORDER BY r.created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending ratings for user %s: %w", userID, err)
	}
	defer rows.Close()

	var pending []*models.PendingRating
	for rows.Next() {
		var p models.PendingRating
		err := rows.Scan(
			&p.MovieID,
			&p.Title,
			&p.PosterURL,
			&p.ReleaseYear,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending rating: %w", err)
		}
		pending = append(pending, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending ratings: %w", err)
	}

	return pending, nil
}
