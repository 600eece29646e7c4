package models

import (
	"time"
)

// Movie is a locally cached copy of TMDB movie metadata. Rows are upserted
// before a rating save so the ratings foreign key always resolves.
type Movie struct {
	ID          int64     `db:"id"` // TMDB movie id
	Title       string    `db:"title"`
	PosterURL   *string   `db:"poster_url"`
	Description *string   `db:"description"`
	ReleaseYear *int      `db:"release_year"`
	CreatedAt   time.Time `db:"created_at"`
}

// DiscoverMode selects the sort direction over the expectation gap.
type DiscoverMode string

const (
	// DiscoverModeUnderrated surfaces movies that beat expectations (gap desc).
	DiscoverModeUnderrated DiscoverMode = "underrated"
	// DiscoverModeOverrated surfaces movies that fell short (gap asc).
	DiscoverModeOverrated DiscoverMode = "overrated"
)

// MovieGap is one row of the per-movie expectation gap aggregate: the average
// of (post - pre) across all users who completed both ratings.
type MovieGap struct {
	MovieID      int64    `db:"movie_id" json:"movie_id"`
	Title        string   `db:"title" json:"title"`
	PosterURL    *string  `db:"poster_url" json:"poster_url"`
	ReleaseYear  *int     `db:"release_year" json:"release_year"`
	Gap          float64  `db:"gap" json:"gap"`
	PreAvg       float64  `db:"pre_avg" json:"pre_avg"`
	PostAvg      float64  `db:"post_avg" json:"post_avg"`
	RatingsCount int64    `db:"ratings_count" json:"ratings_count"`
}
