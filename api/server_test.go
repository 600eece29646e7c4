package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reelgap/config"
	"reelgap/models"
	"reelgap/service"
)

const testSecret = "test-secret"

type testServer struct {
	router    *gin.Engine
	points    *service.MockPointsService
	ratings   *MockRatingService
	profiles  *MockProfileService
	discovery *MockDiscoveryService
	tmdb      *MockTMDBClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		points:    new(service.MockPointsService),
		ratings:   new(MockRatingService),
		profiles:  new(MockProfileService),
		discovery: new(MockDiscoveryService),
		tmdb:      new(MockTMDBClient),
	}

	cfg := &config.Config{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:3000"},
		ProviderRegion: "BE",
		Environment:    "test",
	}

	server := NewServer(cfg, ts.profiles, ts.ratings, ts.points, ts.discovery, ts.tmdb, nil)
	ts.router = server.Router()
	return ts
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (ts *testServer) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()

	t.Run("missing token", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID.String()})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		rec := ts.request(t, http.MethodGet, "/api/me", nil, signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("subject not a uuid", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "not-a-uuid"})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		rec := ts.request(t, http.MethodGet, "/api/me", nil, signed)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		ts.profiles.On("GetOrCreateProfile", mock.Anything, userID).
			Return(&models.Profile{ID: userID}, nil)

		rec := ts.request(t, http.MethodGet, "/api/me", nil, signToken(t, userID))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestApplyPointsHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t)
		ts.points.On("ApplyPoints", mock.Anything, userID, userID, int64(550)).
			Return(&models.PointsResult{PointsAvailable: 10, DidRelease: true}, nil)

		rec := ts.request(t, http.MethodPost, "/api/points/apply",
			gin.H{"movie_id": 550}, signToken(t, userID))

		assert.Equal(t, http.StatusOK, rec.Code)

		var result models.PointsResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, int64(10), result.PointsAvailable)
		assert.True(t, result.DidRelease)
	})

	t.Run("missing movie_id", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.request(t, http.MethodPost, "/api/points/apply", gin.H{}, signToken(t, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no rating yet", func(t *testing.T) {
		ts := newTestServer(t)
		ts.points.On("ApplyPoints", mock.Anything, userID, userID, int64(550)).
			Return(nil, service.ErrRatingNotFound)

		rec := ts.request(t, http.MethodPost, "/api/points/apply",
			gin.H{"movie_id": 550}, signToken(t, userID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSaveRatingHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("pre rating with movie payload", func(t *testing.T) {
		ts := newTestServer(t)
		ts.ratings.On("SaveRating", mock.Anything, userID, userID, int64(550),
			mock.AnythingOfType("*int"), (*int)(nil), mock.AnythingOfType("*models.Movie")).
			Return(&service.SaveRatingResult{
				Rating: &models.Rating{UserID: userID, MovieID: 550},
				Points: &models.PointsResult{PointsOnHold: 5, DidPreHold: true},
			}, nil)

		rec := ts.request(t, http.MethodPut, "/api/ratings", gin.H{
			"movie_id":   550,
			"pre_rating": 8,
			"movie":      gin.H{"title": "Fight Club", "release_year": 1999},
		}, signToken(t, userID))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"did_pre_hold":true`)
	})

	t.Run("immutable score conflict", func(t *testing.T) {
		ts := newTestServer(t)
		ts.ratings.On("SaveRating", mock.Anything, userID, userID, int64(550),
			mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.ErrRatingImmutable)

		rec := ts.request(t, http.MethodPut, "/api/ratings", gin.H{
			"movie_id":   550,
			"pre_rating": 3,
		}, signToken(t, userID))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetRatingHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		ts := newTestServer(t)
		pre := 8
		ts.ratings.On("GetRating", mock.Anything, userID, userID, int64(550)).
			Return(&models.Rating{UserID: userID, MovieID: 550, PreRating: &pre}, nil)

		rec := ts.request(t, http.MethodGet, "/api/ratings/550", nil, signToken(t, userID))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("absent is 404", func(t *testing.T) {
		ts := newTestServer(t)
		ts.ratings.On("GetRating", mock.Anything, userID, userID, int64(999)).
			Return(nil, nil)

		rec := ts.request(t, http.MethodGet, "/api/ratings/999", nil, signToken(t, userID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad movie id", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.request(t, http.MethodGet, "/api/ratings/abc", nil, signToken(t, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLeaderboardHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.profiles.On("Leaderboard", mock.Anything, 0).Return([]*models.LeaderboardEntry{
		{Rank: 1, Username: "alice", PointsAvailable: 100},
	}, nil)

	rec := ts.request(t, http.MethodGet, "/api/leaderboard", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)
}

func TestDiscoverHandler(t *testing.T) {
	t.Run("default params", func(t *testing.T) {
		ts := newTestServer(t)
		ts.discovery.On("Discover", mock.Anything, models.DiscoverModeUnderrated, 20, 0).
			Return(&models.MovieGap{MovieID: 550, Title: "Fight Club", Gap: 2.5}, nil)

		rec := ts.request(t, http.MethodGet, "/api/discover", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Fight Club")
	})

	t.Run("empty catalog", func(t *testing.T) {
		ts := newTestServer(t)
		ts.discovery.On("Discover", mock.Anything, models.DiscoverModeOverrated, 50, 1).
			Return(nil, service.ErrNoMovies)

		rec := ts.request(t, http.MethodGet, "/api/discover?mode=overrated&top=50&page=1", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSetUsernameHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("taken", func(t *testing.T) {
		ts := newTestServer(t)
		ts.profiles.On("SetUsername", mock.Anything, userID, userID, "taken").
			Return(service.ErrUsernameTaken)

		rec := ts.request(t, http.MethodPost, "/api/me/username",
			gin.H{"username": "taken"}, signToken(t, userID))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		ts := newTestServer(t)
		ts.profiles.On("SetUsername", mock.Anything, userID, userID, "x").
			Return(service.ErrInvalidUsername)

		rec := ts.request(t, http.MethodPost, "/api/me/username",
			gin.H{"username": "x"}, signToken(t, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTMDBProxyHandlers(t *testing.T) {
	t.Run("search requires query", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.request(t, http.MethodGet, "/api/tmdb/search", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("providers default to configured region", func(t *testing.T) {
		ts := newTestServer(t)
		ts.tmdb.On("GetProviders", mock.Anything, int64(550), "BE").
			Return(&tmdbProvidersFixture, nil)

		rec := ts.request(t, http.MethodGet, "/api/tmdb/movie/550/providers", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Netflix")
		ts.tmdb.AssertExpectations(t)
	})
}
