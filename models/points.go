package models

import (
	"time"

	"github.com/google/uuid"
)

// PointsEntryType classifies a points_history row.
type PointsEntryType string

const (
	// PointsEntryPreHold credits the on-hold balance for a pre-rating.
	PointsEntryPreHold PointsEntryType = "pre_hold"
	// PointsEntryRelease converts a pending reward into available points.
	PointsEntryRelease PointsEntryType = "release"
)

// PointsResult describes what the points engine did for one invocation:
// the resulting balances and which transitions fired. Both flags false
// means the call was an idempotent no-op.
type PointsResult struct {
	PointsAvailable int64 `json:"points_available"`
	PointsOnHold    int64 `json:"points_on_hold"`
	DidPreHold      bool  `json:"did_pre_hold"`
	DidRelease      bool  `json:"did_release"`
}

// PointsHistory is an append-only audit record of a balance mutation.
// Every change to a profile's balances writes one of these in the same
// transaction.
type PointsHistory struct {
	ID              int64           `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	MovieID         int64           `db:"movie_id"`
	EntryType       PointsEntryType `db:"entry_type"`
	AvailableBefore int64           `db:"available_before"`
	AvailableAfter  int64           `db:"available_after"`
	OnHoldBefore    int64           `db:"on_hold_before"`
	OnHoldAfter     int64           `db:"on_hold_after"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}
