package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"reelgap/events"
	"reelgap/models"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,24}$`)

// profileService implements the ProfileService interface
type profileService struct {
	uowFactory       UnitOfWorkFactory
	leaderboardLimit int
}

// NewProfileService creates a new profile service
func NewProfileService(uowFactory UnitOfWorkFactory, leaderboardLimit int) ProfileService {
	return &profileService{
		uowFactory:       uowFactory,
		leaderboardLimit: leaderboardLimit,
	}
}

// GetOrCreateProfile retrieves an existing profile or creates one with zero
// balances on the user's first authenticated touch
func (s *profileService) GetOrCreateProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	profile, err := uow.ProfileRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	// Primary key constraint prevents duplicate profiles under concurrent
	// first requests; the loser surfaces a retryable error.
	profile, err = uow.ProfileRepository().Create(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	uow.EventBus().Publish(events.ProfileCreatedEvent{UserID: id})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return profile, nil
}

// SetUsername completes onboarding for a profile
func (s *profileService) SetUsername(ctx context.Context, callerID, userID uuid.UUID, username string) error {
	if callerID != userID {
		return ErrIdentityMismatch
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ProfileRepository().SetUsername(ctx, userID, username); err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to set username: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Leaderboard returns the top profiles ranked by available points
func (s *profileService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > s.leaderboardLimit {
		limit = s.leaderboardLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	profiles, err := uow.ProfileRepository().Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:            i + 1,
			UserID:          p.ID,
			Username:        p.DisplayName(),
			AvatarURL:       p.AvatarURL,
			PointsAvailable: p.PointsAvailable,
			PointsOnHold:    p.PointsOnHold,
		})
	}

	return entries, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
