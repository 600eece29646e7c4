package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"reelgap/database"
	"reelgap/models"
)

// PointsHistoryRepository implements the PointsHistoryRepository interface
type PointsHistoryRepository struct {
	q queryable
}

// NewPointsHistoryRepository creates a new points history repository
func NewPointsHistoryRepository(db *database.DB) *PointsHistoryRepository {
	return &PointsHistoryRepository{q: db.Pool}
}

// newPointsHistoryRepositoryWithTx creates a new points history repository with a transaction
func newPointsHistoryRepositoryWithTx(tx queryable) *PointsHistoryRepository {
	return &PointsHistoryRepository{q: tx}
}

// Record creates a new points history entry
func (r *PointsHistoryRepository) Record(ctx context.Context, entry *models.PointsHistory) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal points history metadata: %w", err)
	}

	query := `
		INSERT INTO points_history
		(user_id, movie_id, entry_type, available_before, available_after, on_hold_before, on_hold_after, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.MovieID,
		entry.EntryType,
		entry.AvailableBefore,
		entry.AvailableAfter,
		entry.OnHoldBefore,
		entry.OnHoldAfter,
		metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record points history for user %s: %w", entry.UserID, err)
	}

	return nil
}

// GetByUser returns the most recent points history entries for a user
func (r *PointsHistoryRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PointsHistory, error) {
	query := `
		SELECT id, user_id, movie_id, entry_type, available_before, available_after,
		       on_hold_before, on_hold_after, metadata, created_at
		FROM points_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query points history for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.PointsHistory
	for rows.Next() {
		var entry models.PointsHistory
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.MovieID,
			&entry.EntryType,
			&entry.AvailableBefore,
			&entry.AvailableAfter,
			&entry.OnHoldBefore,
			&entry.OnHoldAfter,
			&metadataJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan points history entry: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal points history metadata: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate points history: %w", err)
	}

	return entries, nil
}
