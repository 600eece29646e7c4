package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"reelgap/events"
	"reelgap/models"
)

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) SetUsername(ctx context.Context, id uuid.UUID, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdatePoints(ctx context.Context, id uuid.UUID, available, onHold int64) error {
	args := m.Called(ctx, id, available, onHold)
	return args.Error(0)
}

func (m *MockProfileRepository) Leaderboard(ctx context.Context, limit int) ([]*models.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

// MockRatingRepository is a mock implementation of RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Get(ctx context.Context, userID uuid.UUID, movieID int64) (*models.Rating, error) {
	args := m.Called(ctx, userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetForUpdate(ctx context.Context, userID uuid.UUID, movieID int64) (*models.Rating, error) {
	args := m.Called(ctx, userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) SetAwardState(ctx context.Context, userID uuid.UUID, movieID int64, state models.AwardState) error {
	args := m.Called(ctx, userID, movieID, state)
	return args.Error(0)
}

func (m *MockRatingRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PendingRating, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingRating), args.Error(1)
}

// MockMovieRepository is a mock implementation of MovieRepository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Upsert(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

// MockPointsHistoryRepository is a mock implementation of PointsHistoryRepository
type MockPointsHistoryRepository struct {
	mock.Mock
}

func (m *MockPointsHistoryRepository) Record(ctx context.Context, entry *models.PointsHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPointsHistoryRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PointsHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointsHistory), args.Error(1)
}

// MockGapRepository is a mock implementation of GapRepository
type MockGapRepository struct {
	mock.Mock
}

func (m *MockGapRepository) List(ctx context.Context, mode models.DiscoverMode, limit, offset int) ([]*models.MovieGap, error) {
	args := m.Called(ctx, mode, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MovieGap), args.Error(1)
}

func (m *MockGapRepository) GetByMovie(ctx context.Context, movieID int64) (*models.MovieGap, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovieGap), args.Error(1)
}

// MockPointsService is a mock implementation of PointsService
type MockPointsService struct {
	mock.Mock
}

func (m *MockPointsService) ApplyPoints(ctx context.Context, callerID, userID uuid.UUID, movieID int64) (*models.PointsResult, error) {
	args := m.Called(ctx, callerID, userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PointsResult), args.Error(1)
}

func (m *MockPointsService) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PointsHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointsHistory), args.Error(1)
}

// RecordingPublisher collects published events for assertions
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(e events.Event) {
	p.Events = append(p.Events, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories; Begin/Commit/Rollback are testify-mocked.
type MockUnitOfWork struct {
	mock.Mock

	profileRepo   ProfileRepository
	ratingRepo    RatingRepository
	movieRepo     MovieRepository
	pointsHistory PointsHistoryRepository
	gapRepo       GapRepository
	publisher     *RecordingPublisher
}

// SetRepositories wires the mock repositories this unit of work hands out.
// Nil arguments are fine for repositories a test never touches.
func (m *MockUnitOfWork) SetRepositories(profiles ProfileRepository, ratings RatingRepository,
	movies MovieRepository, history PointsHistoryRepository, gaps GapRepository) {
	m.profileRepo = profiles
	m.ratingRepo = ratings
	m.movieRepo = movies
	m.pointsHistory = history
	m.gapRepo = gaps
	m.publisher = &RecordingPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ProfileRepository() ProfileRepository { return m.profileRepo }

func (m *MockUnitOfWork) RatingRepository() RatingRepository { return m.ratingRepo }

func (m *MockUnitOfWork) MovieRepository() MovieRepository { return m.movieRepo }

func (m *MockUnitOfWork) PointsHistoryRepository() PointsHistoryRepository { return m.pointsHistory }

func (m *MockUnitOfWork) GapRepository() GapRepository { return m.gapRepo }

func (m *MockUnitOfWork) EventBus() EventPublisher { return m.publisher }

// Published returns the events captured by the mock's transactional bus
func (m *MockUnitOfWork) Published() []events.Event {
	if m.publisher == nil {
		return nil
	}
	return m.publisher.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
