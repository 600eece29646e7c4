package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reelgap/models"
)

type ratingTestEnv struct {
	service     RatingService
	factory     *MockUnitOfWorkFactory
	uow         *MockUnitOfWork
	profileRepo *MockProfileRepository
	ratingRepo  *MockRatingRepository
	movieRepo   *MockMovieRepository
	points      *MockPointsService
}

func newRatingTestEnv() *ratingTestEnv {
	env := &ratingTestEnv{
		factory:     new(MockUnitOfWorkFactory),
		uow:         new(MockUnitOfWork),
		profileRepo: new(MockProfileRepository),
		ratingRepo:  new(MockRatingRepository),
		movieRepo:   new(MockMovieRepository),
		points:      new(MockPointsService),
	}
	env.uow.SetRepositories(env.profileRepo, env.ratingRepo, env.movieRepo, nil, nil)
	env.service = NewRatingService(env.factory, env.points)
	return env
}

func (env *ratingTestEnv) expectTransaction(ctx context.Context, committed bool) {
	env.factory.On("Create").Return(env.uow)
	env.uow.On("Begin", ctx).Return(nil)
	env.uow.On("Rollback").Return(nil)
	if committed {
		env.uow.On("Commit").Return(nil)
	}
}

func TestRatingService_SaveRating_NewPreRating(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	movieID := int64(550)
	movie := &models.Movie{Title: "Fight Club", ReleaseYear: intPtr(1999)}

	env := newRatingTestEnv()
	env.expectTransaction(ctx, true)

	env.profileRepo.On("GetByID", ctx, userID).Return(&models.Profile{ID: userID}, nil)
	env.movieRepo.On("Upsert", ctx, movie).Return(nil)
	env.ratingRepo.On("Get", ctx, userID, movieID).Return(nil, nil)
	env.ratingRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.Rating) bool {
		return r.UserID == userID && r.MovieID == movieID &&
			r.PreRating != nil && *r.PreRating == 8 && r.PostRating == nil
	})).Return(nil)
	env.points.On("ApplyPoints", ctx, userID, userID, movieID).Return(&models.PointsResult{
		PointsOnHold: 5, DidPreHold: true,
	}, nil)

	result, err := env.service.SaveRating(ctx, userID, userID, movieID, intPtr(8), nil, movie)

	assert.NoError(t, err)
	assert.True(t, result.Points.DidPreHold)
	assert.Equal(t, int64(550), movie.ID) // payload id overwritten from the path
	env.uow.AssertExpectations(t)
	env.points.AssertExpectations(t)

	published := env.uow.Published()
	assert.Len(t, published, 1)
}

func TestRatingService_SaveRating_IdempotentRetry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	movieID := int64(550)

	env := newRatingTestEnv()
	env.expectTransaction(ctx, true)

	env.profileRepo.On("GetByID", ctx, userID).Return(&models.Profile{ID: userID}, nil)
	env.movieRepo.On("GetByID", ctx, movieID).Return(&models.Movie{ID: movieID}, nil)
	// Same pre value already stored: retry goes through, not rejected
	env.ratingRepo.On("Get", ctx, userID, movieID).Return(&models.Rating{
		UserID: userID, MovieID: movieID, PreRating: intPtr(8), AwardState: models.AwardStatePreHeld,
	}, nil)
	env.ratingRepo.On("Upsert", ctx, mock.Anything).Return(nil)
	env.points.On("ApplyPoints", ctx, userID, userID, movieID).Return(&models.PointsResult{
		PointsOnHold: 5,
	}, nil)

	_, err := env.service.SaveRating(ctx, userID, userID, movieID, intPtr(8), nil, nil)

	assert.NoError(t, err)
}

func TestRatingService_SaveRating_RejectsScoreChange(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	movieID := int64(550)

	env := newRatingTestEnv()
	env.expectTransaction(ctx, false)

	env.profileRepo.On("GetByID", ctx, userID).Return(&models.Profile{ID: userID}, nil)
	env.movieRepo.On("GetByID", ctx, movieID).Return(&models.Movie{ID: movieID}, nil)
	env.ratingRepo.On("Get", ctx, userID, movieID).Return(&models.Rating{
		UserID: userID, MovieID: movieID, PreRating: intPtr(8),
	}, nil)

	result, err := env.service.SaveRating(ctx, userID, userID, movieID, intPtr(3), nil, nil)

	assert.ErrorIs(t, err, ErrRatingImmutable)
	assert.Nil(t, result)
	env.ratingRepo.AssertNotCalled(t, "Upsert")
	env.points.AssertNotCalled(t, "ApplyPoints")
}

func TestRatingService_SaveRating_Validation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	env := newRatingTestEnv()

	_, err := env.service.SaveRating(ctx, userID, userID, 550, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = env.service.SaveRating(ctx, userID, userID, 550, intPtr(0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = env.service.SaveRating(ctx, userID, userID, 550, nil, intPtr(11), nil)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = env.service.SaveRating(ctx, uuid.New(), userID, 550, intPtr(5), nil, nil)
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	env.factory.AssertNotCalled(t, "Create")
}

func TestRatingService_SaveRating_UnknownMovieWithoutPayload(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	movieID := int64(42)

	env := newRatingTestEnv()
	env.expectTransaction(ctx, false)

	env.profileRepo.On("GetByID", ctx, userID).Return(&models.Profile{ID: userID}, nil)
	env.movieRepo.On("GetByID", ctx, movieID).Return(nil, nil)

	result, err := env.service.SaveRating(ctx, userID, userID, movieID, intPtr(7), nil, nil)

	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Nil(t, result)
}

func TestRatingService_GetRating(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	movieID := int64(550)

	env := newRatingTestEnv()
	env.expectTransaction(ctx, false)

	stored := &models.Rating{UserID: userID, MovieID: movieID, PreRating: intPtr(8)}
	env.ratingRepo.On("Get", ctx, userID, movieID).Return(stored, nil)

	rating, err := env.service.GetRating(ctx, userID, userID, movieID)

	assert.NoError(t, err)
	assert.Equal(t, stored, rating)
}

func TestRatingService_ListPending_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	env := newRatingTestEnv()
	env.expectTransaction(ctx, false)

	env.ratingRepo.On("ListPendingByUser", ctx, userID, 8).Return([]*models.PendingRating{}, nil)

	pending, err := env.service.ListPending(ctx, userID, userID, 0)

	assert.NoError(t, err)
	assert.Empty(t, pending)
	env.ratingRepo.AssertExpectations(t)
}
