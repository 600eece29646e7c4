package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reelgap/database"
	"reelgap/models"
)

// ProfileRepository implements the ProfileRepository interface
type ProfileRepository struct {
	q queryable
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{q: db.Pool}
}

// newProfileRepositoryWithTx creates a new profile repository with a transaction
func newProfileRepositoryWithTx(tx queryable) *ProfileRepository {
	return &ProfileRepository{q: tx}
}

const profileColumns = `id, username, avatar_url, points_available, points_on_hold, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.AvatarURL,
		&p.PointsAvailable,
		&p.PointsOnHold,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile by its user ID, returning nil if none exists
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return p, nil
}

// GetByIDForUpdate retrieves a profile and takes a row lock on it for the
// duration of the surrounding transaction. Serializes concurrent points
// mutations for the same user.
func (r *ProfileRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 FOR UPDATE`

	p, err := scanProfile(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile %s: %w", id, err)
	}
	return p, nil
}

// Create creates a new profile with zero balances
func (r *ProfileRepository) Create(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (id)
		VALUES ($1)
		RETURNING ` + profileColumns

	p, err := scanProfile(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", id, err)
	}
	return p, nil
}

// SetUsername sets the onboarding username for a profile
func (r *ProfileRepository) SetUsername(ctx context.Context, id uuid.UUID, username string) error {
	query := `
		UPDATE profiles
		SET username = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, username, id)
	if err != nil {
		return fmt.Errorf("failed to set username for profile %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", id)
	}

	return nil
}

// UpdatePoints sets both balances for a profile atomically
func (r *ProfileRepository) UpdatePoints(ctx context.Context, id uuid.UUID, available, onHold int64) error {
	query := `
		UPDATE profiles
		SET points_available = $1, points_on_hold = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, available, onHold, id)
	if err != nil {
		return fmt.Errorf("failed to update points for profile %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", id)
	}

	return nil
}

// Leaderboard returns profiles ordered by available points, highest first
func (r *ProfileRepository) Leaderboard(ctx context.Context, limit int) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY points_available DESC, created_at ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}
