package repository

import (
	"context"
	"errors"
	"fmt"

	"parking-booking/internal/data/entity"
	"parking-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	FindByID(ctx context.Context, id int64) (*entity.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Transaction, error)
	HasPaidForReservation(ctx context.Context, reservationID int64) (bool, error)

	// MarkPaid settles an initiated transaction. It reports false when the
	// transaction was not in the initiated state.
	MarkPaid(ctx context.Context, id int64) (bool, error)
}

type transactionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTransactionRepository(db database.Querier, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	query := `
		INSERT INTO transactions (reservation_id, amount_paise, payment_method, status, qr_payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		transaction.ReservationID,
		transaction.AmountPaise,
		string(transaction.PaymentMethod),
		string(transaction.Status),
		transaction.QRPayload,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.Int64("reservation_id", transaction.ReservationID),
			zap.String("payment_method", string(transaction.PaymentMethod)),
		)
		return fmt.Errorf("create transaction for reservation %d: %w", transaction.ReservationID, err)
	}

	return nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	return r.findOne(ctx, `
		SELECT id, reservation_id, amount_paise, payment_method, status, qr_payload, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`, id)
}

func (r *transactionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Transaction, error) {
	return r.findOne(ctx, `
		SELECT id, reservation_id, amount_paise, payment_method, status, qr_payload, created_at, updated_at
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, id)
}

func (r *transactionRepository) findOne(ctx context.Context, query string, id int64) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&transaction.ID,
		&transaction.ReservationID,
		&transaction.AmountPaise,
		&transaction.PaymentMethod,
		&transaction.Status,
		&transaction.QRPayload,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction by ID",
			zap.Error(err),
			zap.Int64("transaction_id", id),
		)
		return nil, fmt.Errorf("find transaction by ID %d: %w", id, err)
	}

	return &transaction, nil
}

func (r *transactionRepository) HasPaidForReservation(ctx context.Context, reservationID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM transactions WHERE reservation_id = $1 AND status = 'paid')`

	var exists bool
	if err := r.db.QueryRow(ctx, query, reservationID).Scan(&exists); err != nil {
		r.log.Error("Failed to check paid transactions",
			zap.Error(err),
			zap.Int64("reservation_id", reservationID),
		)
		return false, fmt.Errorf("check paid transactions for reservation %d: %w", reservationID, err)
	}

	return exists, nil
}

func (r *transactionRepository) MarkPaid(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE transactions SET status = 'paid', updated_at = NOW() WHERE id = $1 AND status = 'initiated'`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark transaction paid",
			zap.Error(err),
			zap.Int64("transaction_id", id),
		)
		return false, fmt.Errorf("mark transaction %d paid: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}
