package repository

import (
	"context"
	"fmt"

	"parking-booking/pkg/database"

	"go.uber.org/zap"
)

// TxRepos are repositories bound to one open transaction.
type TxRepos struct {
	Location    LocationRepository
	Reservation ReservationRepository
	Transaction TransactionRepository
}

// UnitOfWork runs fn inside a single storage transaction: every write made
// through the supplied repositories commits together or not at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepos) error) error
}

type pgUnitOfWork struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUnitOfWork(db database.PgxIface, log *zap.Logger) UnitOfWork {
	return &pgUnitOfWork{
		db:  db,
		log: log.With(zap.String("repository", "uow")),
	}
}

func (u *pgUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepos) error) (err error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		u.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			u.log.Warn("Failed to roll back transaction", zap.Error(rbErr))
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	repos := TxRepos{
		Location:    NewLocationRepository(tx, u.log),
		Reservation: NewReservationRepository(tx, u.log),
		Transaction: NewTransactionRepository(tx, u.log),
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		u.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	return nil
}
