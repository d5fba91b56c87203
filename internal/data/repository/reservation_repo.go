package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id int64) (*entity.Reservation, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Reservation, error)
	FindByCustomerID(ctx context.Context, userID int64, limit, offset int) ([]*entity.Reservation, error)
	CountByCustomerID(ctx context.Context, userID int64) (int64, error)
	FindByLocationID(ctx context.Context, locationID int64) ([]*entity.Reservation, error)

	// FindConfirmedOverlapping returns confirmed reservations whose window
	// intersects [start, end).
	FindConfirmedOverlapping(ctx context.Context, locationID int64, start, end time.Time) ([]*entity.Reservation, error)

	// UpdateStatus moves a reservation from one status to another and reports
	// false when the reservation was no longer in the from status.
	UpdateStatus(ctx context.Context, id int64, from, to entity.ReservationStatus) (bool, error)
}

type reservationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationRepository(db database.Querier, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, location_id, customer_user_id, vehicle_number, start_time, end_time,
		       duration_minutes, price_paise, status, created_at, updated_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.LocationID,
		&reservation.CustomerUserID,
		&reservation.VehicleNumber,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.DurationMinutes,
		&reservation.PricePaise,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (location_id, customer_user_id, vehicle_number, start_time, end_time,
		                          duration_minutes, price_paise, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		reservation.LocationID,
		reservation.CustomerUserID,
		reservation.VehicleNumber,
		reservation.StartTime,
		reservation.EndTime,
		reservation.DurationMinutes,
		reservation.PricePaise,
		string(reservation.Status),
		reservation.CreatedAt,
		reservation.UpdatedAt,
	).Scan(&reservation.ID)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.Int64("location_id", reservation.LocationID),
			zap.Int64("customer_user_id", reservation.CustomerUserID),
		)
		return fmt.Errorf("create reservation for location %d: %w", reservation.LocationID, err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *reservationRepository) findOne(ctx context.Context, query string, id int64) (*entity.Reservation, error) {
	reservation, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.Int64("reservation_id", id),
		)
		return nil, fmt.Errorf("find reservation by ID %d: %w", id, err)
	}
	return reservation, nil
}

func (r *reservationRepository) FindByCustomerID(ctx context.Context, userID int64, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE customer_user_id = $1
		ORDER BY start_time DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	reservations, err := r.findMany(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by customer",
			zap.Error(err),
			zap.Int64("customer_user_id", userID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reservations by customer %d: %w", userID, err)
	}
	return reservations, nil
}

func (r *reservationRepository) CountByCustomerID(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE customer_user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by customer",
			zap.Error(err),
			zap.Int64("customer_user_id", userID),
		)
		return 0, fmt.Errorf("count reservations by customer %d: %w", userID, err)
	}

	return count, nil
}

func (r *reservationRepository) FindByLocationID(ctx context.Context, locationID int64) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE location_id = $1
		ORDER BY start_time, id
	`

	reservations, err := r.findMany(ctx, query, locationID)
	if err != nil {
		r.log.Error("Failed to find reservations by location",
			zap.Error(err),
			zap.Int64("location_id", locationID),
		)
		return nil, fmt.Errorf("find reservations by location %d: %w", locationID, err)
	}
	return reservations, nil
}

func (r *reservationRepository) FindConfirmedOverlapping(ctx context.Context, locationID int64, start, end time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE location_id = $1
		  AND status = 'confirmed'
		  AND start_time < $3
		  AND end_time > $2
	`

	reservations, err := r.findMany(ctx, query, locationID, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping reservations",
			zap.Error(err),
			zap.Int64("location_id", locationID),
			zap.Time("start_time", start),
			zap.Time("end_time", end),
		)
		return nil, fmt.Errorf("find overlapping reservations for location %d: %w", locationID, err)
	}
	return reservations, nil
}

func (r *reservationRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, from, to entity.ReservationStatus) (bool, error) {
	query := `UPDATE reservations SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.Int64("reservation_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update reservation %d status to %s: %w", id, to, err)
	}

	return result.RowsAffected() == 1, nil
}
