package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reelgap/database"
	"reelgap/models"
)

// GapRepository reads the movie_expectation_gap view: the per-movie average
// of (post - pre) across users who completed both ratings.
type GapRepository struct {
	q queryable
}

// NewGapRepository creates a new gap repository
func NewGapRepository(db *database.DB) *GapRepository {
	return &GapRepository{q: db.Pool}
}

// newGapRepositoryWithTx creates a new gap repository with a transaction
func newGapRepositoryWithTx(tx queryable) *GapRepository {
	return &GapRepository{q: tx}
}

const gapColumns = `movie_id, title, poster_url, release_year, gap, pre_avg, post_avg, ratings_count`

// List returns a page of the aggregate, sorted by gap. Underrated mode puts
// the biggest positive gaps first, overrated the most negative.
func (r *GapRepository) List(ctx context.Context, mode models.DiscoverMode, limit, offset int) ([]*models.MovieGap, error) {
	direction := "DESC"
	if mode == models.DiscoverModeOverrated {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT `+gapColumns+`
		FROM movie_expectation_gap
		ORDER BY gap %s, ratings_count DESC
		LIMIT $1 OFFSET $2
	`, direction)

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query expectation gap view: %w", err)
	}
	defer rows.Close()

	var gaps []*models.MovieGap
	for rows.Next() {
		g, err := scanMovieGap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gap row: %w", err)
		}
		gaps = append(gaps, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gap rows: %w", err)
	}

	return gaps, nil
}

// GetByMovie returns the aggregate for a single movie, nil if nobody has
// completed a rating pair for it yet
func (r *GapRepository) GetByMovie(ctx context.Context, movieID int64) (*models.MovieGap, error) {
	query := `SELECT ` + gapColumns + ` FROM movie_expectation_gap WHERE movie_id = $1`

	g, err := scanMovieGap(r.q.QueryRow(ctx, query, movieID))
	if err != nil {
		return nil, fmt.Errorf("failed to get gap for movie %d: %w", movieID, err)
	}
	return g, nil
}

func scanMovieGap(row pgx.Row) (*models.MovieGap, error) {
	var g models.MovieGap
	err := row.Scan(
		&g.MovieID,
		&g.Title,
		&g.PosterURL,
		&g.ReleaseYear,
		&g.Gap,
		&g.PreAvg,
		&g.PostAvg,
		&g.RatingsCount,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
