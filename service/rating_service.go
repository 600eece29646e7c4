package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reelgap/events"
	"reelgap/models"
)

// ratingService implements the RatingService interface
type ratingService struct {
	uowFactory UnitOfWorkFactory
	points     PointsService
}

// NewRatingService creates a new rating service
func NewRatingService(uowFactory UnitOfWorkFactory, points PointsService) RatingService {
	return &ratingService{
		uowFactory: uowFactory,
		points:     points,
	}
}

// SaveRating persists a pre- or post-rating for the caller, then invokes the
// points engine. The rating upsert commits before the engine runs: the engine
// re-reads persisted state and must never act on an uncommitted save.
func (s *ratingService) SaveRating(ctx context.Context, callerID, userID uuid.UUID, movieID int64, pre, post *int, movie *models.Movie) (*SaveRatingResult, error) {
	if callerID != userID {
		return nil, ErrIdentityMismatch
	}
	if pre == nil && post == nil {
		return nil, fmt.Errorf("%w: no score supplied", ErrInvalidRating)
	}
	for _, score := range []*int{pre, post} {
		if score != nil && (*score < 1 || *score > 10) {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, *score)
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	profile, err := uow.ProfileRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	// Keep the movies cache fresh so the rating's foreign key resolves.
	if movie != nil {
		movie.ID = movieID
		if err := uow.MovieRepository().Upsert(ctx, movie); err != nil {
			return nil, fmt.Errorf("failed to cache movie: %w", err)
		}
	} else {
		cached, err := uow.MovieRepository().GetByID(ctx, movieID)
		if err != nil {
			return nil, fmt.Errorf("failed to check movie cache: %w", err)
		}
		if cached == nil {
			return nil, ErrMovieNotFound
		}
	}

	existing, err := uow.RatingRepository().Get(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing rating: %w", err)
	}
	if existing != nil {
		// Scores are settable once. Re-sending the same value is an
		// idempotent retry and allowed.
		if pre != nil && existing.PreRating != nil && *existing.PreRating != *pre {
			return nil, fmt.Errorf("%w: pre_rating is already %d", ErrRatingImmutable, *existing.PreRating)
		}
		if post != nil && existing.PostRating != nil && *existing.PostRating != *post {
			return nil, fmt.Errorf("%w: post_rating is already %d", ErrRatingImmutable, *existing.PostRating)
		}
	}

	rating := &models.Rating{
		UserID:     userID,
		MovieID:    movieID,
		PreRating:  pre,
		PostRating: post,
	}
	if err := uow.RatingRepository().Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	uow.EventBus().Publish(events.RatingSavedEvent{
		UserID:  userID,
		MovieID: movieID,
		Pre:     pre,
		Post:    post,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The save is durable; now let the engine decide what, if anything,
	// this rating earns.
	pointsResult, err := s.points.ApplyPoints(ctx, callerID, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply points: %w", err)
	}

	return &SaveRatingResult{
		Rating: rating,
		Points: pointsResult,
	}, nil
}

func (s *ratingService) GetRating(ctx context.Context, callerID, userID uuid.UUID, movieID int64) (*models.Rating, error) {
	if callerID != userID {
		return nil, ErrIdentityMismatch
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rating, err := uow.RatingRepository().Get(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return rating, nil
}

func (s *ratingService) ListPending(ctx context.Context, callerID, userID uuid.UUID, limit int) ([]*models.PendingRating, error) {
	if callerID != userID {
		return nil, ErrIdentityMismatch
	}
	if limit <= 0 || limit > 50 {
		limit = 8
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pending, err := uow.RatingRepository().ListPendingByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending ratings: %w", err)
	}

	return pending, nil
}
