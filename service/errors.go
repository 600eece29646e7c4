package service

import "errors"

// Error taxonomy surfaced by the services. Everything else coming out of a
// service is a wrapped storage error: nothing was applied and the call is
// safe to retry.
var (
	// ErrIdentityMismatch means the verified caller identity does not match
	// the target user. Never retryable; nothing was mutated.
	ErrIdentityMismatch = errors.New("caller identity does not match target user")

	// ErrProfileNotFound means the target user has no profile row.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrRatingNotFound means no rating row exists for the (user, movie)
	// pair. The caller must save a rating before applying points.
	ErrRatingNotFound = errors.New("rating not found")

	// ErrMovieNotFound means the movie has never been cached locally and no
	// metadata was supplied to cache it.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidState means the stored award state and balances disagree.
	// The engine fails loudly instead of guessing: silently repairing could
	// double- or under-credit.
	ErrInvalidState = errors.New("award state is inconsistent with balances")

	// ErrInvalidRating means a score was outside 1..10 or the save carried
	// no score at all.
	ErrInvalidRating = errors.New("rating must be between 1 and 10")

	// ErrRatingImmutable means the save tried to change an already-set
	// pre or post score. Each side of the pair is settable once.
	ErrRatingImmutable = errors.New("rating already set")

	// ErrUsernameTaken means the onboarding username is already in use.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidUsername means the username failed validation.
	ErrInvalidUsername = errors.New("username must be 3-24 characters of a-z, 0-9 or _")

	// ErrNoMovies means the gap aggregate has no rows for the request.
	ErrNoMovies = errors.New("no movies with completed rating pairs")
)
