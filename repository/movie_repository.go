package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reelgap/database"
	"reelgap/models"
)

// MovieRepository implements the MovieRepository interface
type MovieRepository struct {
	q queryable
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *database.DB) *MovieRepository {
	return &MovieRepository{q: db.Pool}
}

// newMovieRepositoryWithTx creates a new movie repository with a transaction
func newMovieRepositoryWithTx(tx queryable) *MovieRepository {
	return &MovieRepository{q: tx}
}

// Upsert caches (or refreshes) a movie's metadata locally
func (r *MovieRepository) Upsert(ctx context.Context, movie *models.Movie) error {
	query := `
		INSERT INTO movies (id, title, poster_url, description, release_year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			poster_url = EXCLUDED.poster_url,
			description = EXCLUDED.description,
			release_year = EXCLUDED.release_year
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		movie.ID,
		movie.Title,
		movie.PosterURL,
		movie.Description,
		movie.ReleaseYear,
	).Scan(&movie.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert movie %d: %w", movie.ID, err)
	}

	return nil
}

// GetByID retrieves a cached movie, returning nil if it has never been cached
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	query := `
		SELECT id, title, poster_url, description, release_year, created_at
		FROM movies
		WHERE id = $1
	`

	var movie models.Movie
	err := r.q.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.PosterURL,
		&movie.Description,
		&movie.ReleaseYear,
		&movie.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	return &movie, nil
}
