package repository

import (
	"parking-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Location    LocationRepository
	Reservation ReservationRepository
	Transaction TransactionRepository
	Session     SessionRepository
	User        UserRepository
	UoW         UnitOfWork
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Location:    NewLocationRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Transaction: NewTransactionRepository(db, log),
		Session:     NewSessionRepository(db, log),
		User:        NewUserRepository(db, log),
		UoW:         NewUnitOfWork(db, log),
	}
}
