package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"reelgap/config"
	"reelgap/events"
	"reelgap/models"
)

// pointsService implements the PointsService interface.
//
// The award state machine, per (user, movie) pair:
//
//	none ──pre saved, no post──────────▶ pre_held   (+hold on_hold)
//	none ──post saved──────────────────▶ released   (+release available)
//	pre_held ──post saved──────────────▶ released   (-hold on_hold, +release available)
//	released ──anything────────────────▶ released   (no-op)
//
// Each transition fires at most once per pair regardless of how many times
// ApplyPoints runs. The read-decide-write sequence executes inside a single
// transaction holding row locks on both the profile and the rating, so
// concurrent duplicate invocations serialize and the second one observes the
// already-advanced state.
type pointsService struct {
	uowFactory UnitOfWorkFactory
	holdPoints int64
	release    int64
}

// NewPointsService creates a new points service
func NewPointsService(uowFactory UnitOfWorkFactory, cfg *config.Config) PointsService {
	return &pointsService{
		uowFactory: uowFactory,
		holdPoints: cfg.PreHoldPoints,
		release:    cfg.ReleasePoints,
	}
}

func (s *pointsService) ApplyPoints(ctx context.Context, callerID, userID uuid.UUID, movieID int64) (*models.PointsResult, error) {
	// The engine only ever receives a pre-verified identity; a mismatch is
	// an attempt to credit someone else's account.
	if callerID != userID {
		return nil, ErrIdentityMismatch
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Lock the account row first. All mutations for one user serialize
	// here; other users' rows are untouched.
	profile, err := uow.ProfileRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	// Re-read the rating under the same transaction. Caller-supplied rating
	// values are never trusted: the persisted row decides the transition.
	rating, err := uow.RatingRepository().GetForUpdate(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	if rating == nil {
		return nil, ErrRatingNotFound
	}

	result := &models.PointsResult{
		PointsAvailable: profile.PointsAvailable,
		PointsOnHold:    profile.PointsOnHold,
	}

	switch rating.AwardState {
	case models.AwardStateReleased:
		// Terminal: re-rating after release never re-triggers points.
		return result, nil

	case models.AwardStatePreHeld:
		if rating.PostRating == nil {
			// Duplicate invocation before the post-rating landed.
			return result, nil
		}
		if profile.PointsOnHold < s.holdPoints {
			return nil, fmt.Errorf("%w: state pre_held but on_hold=%d < hold amount %d",
				ErrInvalidState, profile.PointsOnHold, s.holdPoints)
		}
		// Release supersedes the hold rather than stacking with it.
		if err := s.apply(ctx, uow, profile, rating, models.PointsEntryRelease,
			profile.PointsAvailable+s.release, profile.PointsOnHold-s.holdPoints); err != nil {
			return nil, err
		}
		result.PointsAvailable = profile.PointsAvailable + s.release
		result.PointsOnHold = profile.PointsOnHold - s.holdPoints
		result.DidRelease = true

	case models.AwardStateNone:
		switch {
		case rating.PostRating != nil:
			// Completed pair with no prior hold (post arrived first, or
			// both scores landed in one save): full release directly.
			if err := s.apply(ctx, uow, profile, rating, models.PointsEntryRelease,
				profile.PointsAvailable+s.release, profile.PointsOnHold); err != nil {
				return nil, err
			}
			result.PointsAvailable = profile.PointsAvailable + s.release
			result.DidRelease = true

		case rating.PreRating != nil:
			if err := s.apply(ctx, uow, profile, rating, models.PointsEntryPreHold,
				profile.PointsAvailable, profile.PointsOnHold+s.holdPoints); err != nil {
				return nil, err
			}
			result.PointsOnHold = profile.PointsOnHold + s.holdPoints
			result.DidPreHold = true

		default:
			// Row exists but carries no score yet. Nothing to award.
			return result, nil
		}

	default:
		return nil, fmt.Errorf("%w: unknown award state %q", ErrInvalidState, rating.AwardState)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":      userID,
		"movieID":     movieID,
		"didPreHold":  result.DidPreHold,
		"didRelease":  result.DidRelease,
		"available":   result.PointsAvailable,
		"onHold":      result.PointsOnHold,
	}).Info("Applied points transition")

	return result, nil
}

// apply performs one transition's writes: balances, award state marker,
// audit entry and the event queued for post-commit flush. Runs entirely
// inside the caller's unit of work.
func (s *pointsService) apply(ctx context.Context, uow UnitOfWork, profile *models.Profile, rating *models.Rating,
	entryType models.PointsEntryType, newAvailable, newOnHold int64) error {

	if err := uow.ProfileRepository().UpdatePoints(ctx, profile.ID, newAvailable, newOnHold); err != nil {
		return fmt.Errorf("failed to update points: %w", err)
	}

	newState := models.AwardStatePreHeld
	if entryType == models.PointsEntryRelease {
		newState = models.AwardStateReleased
	}
	if err := uow.RatingRepository().SetAwardState(ctx, profile.ID, rating.MovieID, newState); err != nil {
		return fmt.Errorf("failed to advance award state: %w", err)
	}

	entry := &models.PointsHistory{
		UserID:          profile.ID,
		MovieID:         rating.MovieID,
		EntryType:       entryType,
		AvailableBefore: profile.PointsAvailable,
		AvailableAfter:  newAvailable,
		OnHoldBefore:    profile.PointsOnHold,
		OnHoldAfter:     newOnHold,
		Metadata: map[string]any{
			"from_state": string(rating.AwardState),
			"to_state":   string(newState),
		},
	}
	if err := uow.PointsHistoryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record points history: %w", err)
	}

	uow.EventBus().Publish(events.PointsChangeEvent{
		UserID:          profile.ID,
		MovieID:         rating.MovieID,
		EntryType:       entryType,
		AvailableBefore: profile.PointsAvailable,
		AvailableAfter:  newAvailable,
		OnHoldBefore:    profile.PointsOnHold,
		OnHoldAfter:     newOnHold,
	})

	return nil
}

func (s *pointsService) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PointsHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.PointsHistoryRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get points history: %w", err)
	}

	return entries, nil
}
