package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a rated-movies user with their point balances.
// The identity itself lives in the hosted auth provider; this row is
// created on first authenticated touch.
type Profile struct {
	ID              uuid.UUID `db:"id"`
	Username        *string   `db:"username"`
	AvatarURL       *string   `db:"avatar_url"`
	PointsAvailable int64     `db:"points_available"`
	PointsOnHold    int64     `db:"points_on_hold"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DisplayName returns the username, falling back to a short identifier
// for profiles that have not completed onboarding yet.
func (p *Profile) DisplayName() string {
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	id := p.ID.String()
	if len(id) > 6 {
		id = id[:6]
	}
	return "User " + id
}

// LeaderboardEntry is a profile row annotated with its rank by available points.
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	AvatarURL       *string   `json:"avatar_url"`
	PointsAvailable int64     `json:"points_available"`
	PointsOnHold    int64     `json:"points_on_hold"`
}
