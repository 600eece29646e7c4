package models

import (
	"time"

	"github.com/google/uuid"
)

// AwardState tracks which point transitions have already fired for a
// (user, movie) pair. Stored explicitly on the rating row so a transition
// can never be re-derived (and re-fired) from the nullable score columns.
type AwardState string

const (
	// AwardStateNone means neither a pre-hold nor a release has been credited.
	AwardStateNone AwardState = "none"
	// AwardStatePreHeld means the pre-rating hold has been credited.
	AwardStatePreHeld AwardState = "pre_held"
	// AwardStateReleased is terminal: the release fired, no further credit.
	AwardStateReleased AwardState = "released"
)

// Rating is one user's pre/post score pair for a movie. At most one row
// exists per (user, movie); each score is settable once.
type Rating struct {
	UserID     uuid.UUID  `db:"user_id"`
	MovieID    int64      `db:"movie_id"`
	PreRating  *int       `db:"pre_rating"`
	PostRating *int       `db:"post_rating"`
	AwardState AwardState `db:"award_state"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// Gap returns post - pre for a completed pair, or nil while either side
// is missing.
func (r *Rating) Gap() *int {
	if r.PreRating == nil || r.PostRating == nil {
		return nil
	}
	g := *r.PostRating - *r.PreRating
	return &g
}

// PendingRating is a rating awaiting its post score (pre set, post null),
// joined with the cached movie for display.
type PendingRating struct {
	MovieID     int64     `db:"movie_id" json:"movie_id"`
	Title       string    `db:"title" json:"title"`
	PosterURL   *string   `db:"poster_url" json:"poster_url"`
	ReleaseYear *int      `db:"release_year" json:"release_year"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
