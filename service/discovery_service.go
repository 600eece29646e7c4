package service

import (
	"context"
	"fmt"
	"math/rand"

	"reelgap/models"
)

const (
	discoverTopMin = 5
	discoverTopMax = 200
)

// discoveryService implements the DiscoveryService interface
type discoveryService struct {
	uowFactory UnitOfWorkFactory
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(uowFactory UnitOfWorkFactory) DiscoveryService {
	return &discoveryService{
		uowFactory: uowFactory,
	}
}

// Discover fetches a page of the gap ranking and picks one movie at random
// from it, so repeated visits surface different titles
func (s *discoveryService) Discover(ctx context.Context, mode models.DiscoverMode, top, page int) (*models.MovieGap, error) {
	mode = normalizeMode(mode)
	if top < discoverTopMin {
		top = discoverTopMin
	}
	if top > discoverTopMax {
		top = discoverTopMax
	}
	if page < 0 {
		page = 0
	}

	rows, err := s.listGaps(ctx, mode, top, page*top)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoMovies
	}

	return rows[rand.Intn(len(rows))], nil
}

// Ranking returns the sorted gap listing for the ranking page
func (s *discoveryService) Ranking(ctx context.Context, mode models.DiscoverMode, limit int) ([]*models.MovieGap, error) {
	mode = normalizeMode(mode)
	if limit <= 0 || limit > discoverTopMax {
		limit = 50
	}

	return s.listGaps(ctx, mode, limit, 0)
}

// MovieGap returns the aggregate for one movie
func (s *discoveryService) MovieGap(ctx context.Context, movieID int64) (*models.MovieGap, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	gap, err := uow.GapRepository().GetByMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie gap: %w", err)
	}

	return gap, nil
}

func (s *discoveryService) listGaps(ctx context.Context, mode models.DiscoverMode, limit, offset int) ([]*models.MovieGap, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rows, err := uow.GapRepository().List(ctx, mode, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list expectation gaps: %w", err)
	}

	return rows, nil
}

func normalizeMode(mode models.DiscoverMode) models.DiscoverMode {
	if mode == models.DiscoverModeOverrated {
		return mode
	}
	return models.DiscoverModeUnderrated
}
