package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"reelgap/database"
	"reelgap/events"
	"reelgap/service"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	profileRepo      service.ProfileRepository
	ratingRepo       service.RatingRepository
	movieRepo        service.MovieRepository
	pointsHistory    service.PointsHistoryRepository
	gapRepo          service.GapRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.profileRepo = newProfileRepositoryWithTx(tx)
	u.ratingRepo = newRatingRepositoryWithTx(tx)
	u.movieRepo = newMovieRepositoryWithTx(tx)
	u.pointsHistory = newPointsHistoryRepositoryWithTx(tx)
	u.gapRepo = newGapRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// ProfileRepository returns the profile repository for this unit of work
func (u *unitOfWork) ProfileRepository() service.ProfileRepository {
	if u.profileRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.profileRepo
}

// RatingRepository returns the rating repository for this unit of work
func (u *unitOfWork) RatingRepository() service.RatingRepository {
	if u.ratingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ratingRepo
}

// MovieRepository returns the movie repository for this unit of work
func (u *unitOfWork) MovieRepository() service.MovieRepository {
	if u.movieRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.movieRepo
}

// PointsHistoryRepository returns the points history repository for this unit of work
func (u *unitOfWork) PointsHistoryRepository() service.PointsHistoryRepository {
	if u.pointsHistory == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pointsHistory
}

// GapRepository returns the gap repository for this unit of work
func (u *unitOfWork) GapRepository() service.GapRepository {
	if u.gapRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gapRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
