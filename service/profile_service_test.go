package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"reelgap/models"
)

type profileTestEnv struct {
	service     ProfileService
	factory     *MockUnitOfWorkFactory
	uow         *MockUnitOfWork
	profileRepo *MockProfileRepository
}

func newProfileTestEnv() *profileTestEnv {
	env := &profileTestEnv{
		factory:     new(MockUnitOfWorkFactory),
		uow:         new(MockUnitOfWork),
		profileRepo: new(MockProfileRepository),
	}
	env.uow.SetRepositories(env.profileRepo, nil, nil, nil, nil)
	env.service = NewProfileService(env.factory, 50)
	return env
}

func (env *profileTestEnv) expectTransaction(ctx context.Context, committed bool) {
	env.factory.On("Create").Return(env.uow)
	env.uow.On("Begin", ctx).Return(nil)
	env.uow.On("Rollback").Return(nil)
	if committed {
		env.uow.On("Commit").Return(nil)
	}
}

func TestProfileService_GetOrCreateProfile_Existing(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	env := newProfileTestEnv()
	env.expectTransaction(ctx, false)

	existing := &models.Profile{ID: userID, PointsAvailable: 30}
	env.profileRepo.On("GetByID", ctx, userID).Return(existing, nil)

	profile, err := env.service.GetOrCreateProfile(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, existing, profile)
	env.profileRepo.AssertNotCalled(t, "Create")
	assert.Empty(t, env.uow.Published())
}

func TestProfileService_GetOrCreateProfile_CreatesOnFirstTouch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	env := newProfileTestEnv()
	env.expectTransaction(ctx, true)

	env.profileRepo.On("GetByID", ctx, userID).Return(nil, nil)
	env.profileRepo.On("Create", ctx, userID).Return(&models.Profile{ID: userID}, nil)

	profile, err := env.service.GetOrCreateProfile(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, int64(0), profile.PointsAvailable)
	assert.Len(t, env.uow.Published(), 1)
	env.uow.AssertExpectations(t)
}

func TestProfileService_SetUsername(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	env := newProfileTestEnv()
	env.expectTransaction(ctx, true)

	env.profileRepo.On("SetUsername", ctx, userID, "movie_buff_42").Return(nil)

	err := env.service.SetUsername(ctx, userID, userID, "  Movie_Buff_42  ")

	assert.NoError(t, err)
	env.profileRepo.AssertExpectations(t)
}

func TestProfileService_SetUsername_Invalid(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	env := newProfileTestEnv()

	for _, name := range []string{"ab", "has space", "way_too_long_for_a_username_here", "emoji🍿"} {
		err := env.service.SetUsername(ctx, userID, userID, name)
		assert.ErrorIs(t, err, ErrInvalidUsername, "username %q", name)
	}

	err := env.service.SetUsername(ctx, uuid.New(), userID, "fine_name")
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	env.factory.AssertNotCalled(t, "Create")
}

func TestProfileService_SetUsername_Taken(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	env := newProfileTestEnv()
	env.expectTransaction(ctx, false)

	env.profileRepo.On("SetUsername", ctx, userID, "taken_name").
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "profiles_username_key"})

	err := env.service.SetUsername(ctx, userID, userID, "taken_name")

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestProfileService_Leaderboard(t *testing.T) {
	ctx := context.Background()

	env := newProfileTestEnv()
	env.expectTransaction(ctx, false)

	alice := "alice"
	anonID := uuid.MustParse("b3f1c8aa-0000-4000-8000-000000000000")
	env.profileRepo.On("Leaderboard", ctx, 50).Return([]*models.Profile{
		{ID: uuid.New(), Username: &alice, PointsAvailable: 120},
		{ID: anonID, PointsAvailable: 45, PointsOnHold: 5},
	}, nil)

	entries, err := env.service.Leaderboard(ctx, 0)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 2, entries[1].Rank)
	// Profiles that never finished onboarding get a stable placeholder
	assert.Equal(t, "User b3f1c8", entries[1].Username)
}
