package service

import (
	"context"

	"github.com/google/uuid"

	"reelgap/events"
	"reelgap/models"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// GetByID retrieves a profile by user ID, nil if none exists
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// GetByIDForUpdate retrieves a profile under a row lock held until the
	// surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// Create creates a new profile with zero balances
	Create(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// SetUsername sets the onboarding username
	SetUsername(ctx context.Context, id uuid.UUID, username string) error

	// UpdatePoints sets both balances atomically
	UpdatePoints(ctx context.Context, id uuid.UUID, available, onHold int64) error

	// Leaderboard returns profiles ordered by available points desc
	Leaderboard(ctx context.Context, limit int) ([]*models.Profile, error)
}

// RatingRepository defines the interface for rating data access
type RatingRepository interface {
	// Get retrieves the rating for a (user, movie) pair, nil if none exists
	Get(ctx context.Context, userID uuid.UUID, movieID int64) (*models.Rating, error)

	// GetForUpdate retrieves the rating under a row lock
	GetForUpdate(ctx context.Context, userID uuid.UUID, movieID int64) (*models.Rating, error)

	// Upsert inserts the rating or fills the missing score on the existing row
	Upsert(ctx context.Context, rating *models.Rating) error

	// SetAwardState advances the award state marker
	SetAwardState(ctx context.Context, userID uuid.UUID, movieID int64, state models.AwardState) error

	// ListPendingByUser returns ratings with a pre score but no post score yet
	ListPendingByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PendingRating, error)
}

// MovieRepository defines the interface for the local movie metadata cache
type MovieRepository interface {
	// Upsert caches or refreshes a movie's metadata
	Upsert(ctx context.Context, movie *models.Movie) error

	// GetByID retrieves a cached movie, nil if never cached
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
}

// PointsHistoryRepository defines the interface for the points audit trail
type PointsHistoryRepository interface {
	// Record creates a new points history entry
	Record(ctx context.Context, entry *models.PointsHistory) error

	// GetByUser returns the most recent entries for a user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PointsHistory, error)
}

// GapRepository defines the interface for the expectation gap aggregate
type GapRepository interface {
	// List returns a page of the aggregate sorted by gap
	List(ctx context.Context, mode models.DiscoverMode, limit, offset int) ([]*models.MovieGap, error)

	// GetByMovie returns the aggregate for one movie, nil if no completed pairs
	GetByMovie(ctx context.Context, movieID int64) (*models.MovieGap, error)
}

// PointsService defines the interface for the points engine
type PointsService interface {
	// ApplyPoints inspects the rating and award state for (userID, movieID)
	// and applies at most one state transition, atomically. callerID is the
	// verified identity of the requester and must match userID.
	ApplyPoints(ctx context.Context, callerID, userID uuid.UUID, movieID int64) (*models.PointsResult, error)

	// GetHistory returns the most recent points history entries for a user
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PointsHistory, error)
}

// SaveRatingResult carries the stored rating and, when the points engine
// was invoked after the save, its outcome.
type SaveRatingResult struct {
	Rating *models.Rating       `json:"rating"`
	Points *models.PointsResult `json:"points"`
}

// RatingService defines the interface for rating operations
type RatingService interface {
	// SaveRating upserts a pre- or post-rating, then runs the points engine
	SaveRating(ctx context.Context, callerID, userID uuid.UUID, movieID int64, pre, post *int, movie *models.Movie) (*SaveRatingResult, error)

	// GetRating returns the caller's rating for a movie, nil if none
	GetRating(ctx context.Context, callerID, userID uuid.UUID, movieID int64) (*models.Rating, error)

	// ListPending returns the caller's ratings still waiting on a post score
	ListPending(ctx context.Context, callerID, userID uuid.UUID, limit int) ([]*models.PendingRating, error)
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	// GetOrCreateProfile retrieves the profile or creates it on first touch
	GetOrCreateProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// SetUsername completes onboarding for a profile
	SetUsername(ctx context.Context, callerID, userID uuid.UUID, username string) error

	// Leaderboard returns ranked profiles by available points
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// DiscoveryService defines the interface for expectation gap discovery
type DiscoveryService interface {
	// Discover picks a random movie from the top of the gap ranking
	Discover(ctx context.Context, mode models.DiscoverMode, top, page int) (*models.MovieGap, error)

	// Ranking returns the sorted gap listing
	Ranking(ctx context.Context, mode models.DiscoverMode, limit int) ([]*models.MovieGap, error)

	// MovieGap returns the aggregate for one movie, nil if nobody completed a pair
	MovieGap(ctx context.Context, movieID int64) (*models.MovieGap, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	ProfileRepository() ProfileRepository
	RatingRepository() RatingRepository
	MovieRepository() MovieRepository
	PointsHistoryRepository() PointsHistoryRepository
	GapRepository() GapRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
