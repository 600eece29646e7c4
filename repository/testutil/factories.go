package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"reelgap/database"
	"reelgap/models"
)

// CreateTestProfile creates a test profile with zero balances
func CreateTestProfile(id uuid.UUID) *models.Profile {
	now := time.Now()
	return &models.Profile{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestProfileWithPoints creates a test profile with specific balances
func CreateTestProfileWithPoints(id uuid.UUID, available, onHold int64) *models.Profile {
	p := CreateTestProfile(id)
	p.PointsAvailable = available
	p.PointsOnHold = onHold
	return p
}

// CreateTestMovie creates a test movie cache entry
func CreateTestMovie(id int64, title string) *models.Movie {
	year := 2010
	return &models.Movie{
		ID:          id,
		Title:       title,
		ReleaseYear: &year,
	}
}

// SeedProfile inserts a profile row directly, bypassing the repositories
func SeedProfile(t *testing.T, db *database.DB, profile *models.Profile) {
	t.Helper()
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO profiles (id, username, avatar_url, points_available, points_on_hold)
			 VALUES ($1, $2, $3, $4, $5)`,
			profile.ID, profile.Username, profile.AvatarURL,
			profile.PointsAvailable, profile.PointsOnHold)
		return err
	})
	require.NoError(t, err)
}

// SeedMovie inserts a movie row directly
func SeedMovie(t *testing.T, db *database.DB, movie *models.Movie) {
	t.Helper()
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO movies (id, title, poster_url, description, release_year)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			movie.ID, movie.Title, movie.PosterURL, movie.Description, movie.ReleaseYear)
		return err
	})
	require.NoError(t, err)
}

// SeedRating inserts a rating row directly with an explicit award state
func SeedRating(t *testing.T, db *database.DB, rating *models.Rating) {
	t.Helper()
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO ratings (user_id, movie_id, pre_rating, post_rating, award_state)
			 VALUES ($1, $2, $3, $4, $5)`,
			rating.UserID, rating.MovieID, rating.PreRating, rating.PostRating, rating.AwardState)
		return err
	})
	require.NoError(t, err)
}
