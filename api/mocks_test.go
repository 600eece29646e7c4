package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"reelgap/models"
	"reelgap/service"
	"reelgap/tmdb"
)

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) SaveRating(ctx context.Context, callerID, userID uuid.UUID, movieID int64, pre, post *int, movie *models.Movie) (*service.SaveRatingResult, error) {
	args := m.Called(ctx, callerID, userID, movieID, pre, post, movie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveRatingResult), args.Error(1)
}

func (m *MockRatingService) GetRating(ctx context.Context, callerID, userID uuid.UUID, movieID int64) (*models.Rating, error) {
	args := m.Called(ctx, callerID, userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) ListPending(ctx context.Context, callerID, userID uuid.UUID, limit int) ([]*models.PendingRating, error) {
	args := m.Called(ctx, callerID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingRating), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetOrCreateProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) SetUsername(ctx context.Context, callerID, userID uuid.UUID, username string) error {
	args := m.Called(ctx, callerID, userID, username)
	return args.Error(0)
}

func (m *MockProfileService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

type MockDiscoveryService struct {
	mock.Mock
}

func (m *MockDiscoveryService) Discover(ctx context.Context, mode models.DiscoverMode, top, page int) (*models.MovieGap, error) {
	args := m.Called(ctx, mode, top, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovieGap), args.Error(1)
}

func (m *MockDiscoveryService) Ranking(ctx context.Context, mode models.DiscoverMode, limit int) ([]*models.MovieGap, error) {
	args := m.Called(ctx, mode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MovieGap), args.Error(1)
}

func (m *MockDiscoveryService) MovieGap(ctx context.Context, movieID int64) (*models.MovieGap, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovieGap), args.Error(1)
}

var tmdbProvidersFixture = tmdb.Providers{
	Link: "https://www.themoviedb.org/movie/550/watch?locale=BE",
	Flatrate: []tmdb.Provider{
		{ProviderID: 8, ProviderName: "Netflix", LogoPath: "/n.jpg"},
	},
}

type MockTMDBClient struct {
	mock.Mock
}

func (m *MockTMDBClient) SearchMovies(ctx context.Context, query string, page int) (*tmdb.SearchResponse, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.SearchResponse), args.Error(1)
}

func (m *MockTMDBClient) GetMovie(ctx context.Context, movieID int64) (*tmdb.MovieDetail, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.MovieDetail), args.Error(1)
}

func (m *MockTMDBClient) GetVideos(ctx context.Context, movieID int64) (*tmdb.VideosResponse, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.VideosResponse), args.Error(1)
}

func (m *MockTMDBClient) GetProviders(ctx context.Context, movieID int64, region string) (*tmdb.Providers, error) {
	args := m.Called(ctx, movieID, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.Providers), args.Error(1)
}

func (m *MockTMDBClient) GetCredits(ctx context.Context, movieID int64) (*tmdb.Credits, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.Credits), args.Error(1)
}
