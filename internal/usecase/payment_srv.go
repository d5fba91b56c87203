package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/dto/request"
	"parking-booking/internal/dto/response"
	"parking-booking/internal/queue"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, identity utils.Identity, reservationID int64, req *request.InitiatePaymentRequest) (*response.TransactionResponse, error)
	MarkTransactionPaid(ctx context.Context, identity utils.Identity, transactionID int64) (*response.TransactionResponse, error)
	GetTransaction(ctx context.Context, identity utils.Identity, transactionID int64) (*response.TransactionResponse, error)
}

type paymentService struct {
	repo      *repository.Repository
	publisher queue.Publisher
	payment   utils.PaymentConfig
	now       func() time.Time
	log       *zap.Logger
}

func NewPaymentService(repo *repository.Repository, publisher queue.Publisher, payment utils.PaymentConfig, now func() time.Time, log *zap.Logger) PaymentService {
	if now == nil {
		now = time.Now
	}
	return &paymentService{
		repo:      repo,
		publisher: publisher,
		payment:   payment,
		now:       now,
		log:       log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, identity utils.Identity, reservationID int64, req *request.InitiatePaymentRequest) (*response.TransactionResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Initiate payment validation failed", zap.Any("errors", errs))
		return nil, ValidationError("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}

	method := entity.PaymentMethod(req.Method)
	if method == entity.PaymentMethodUPI && s.payment.PayeeVPA == "" {
		return nil, ValidationError("UPI payments are not enabled", map[string]string{
			"method": "UPI payments are not enabled",
		})
	}

	var (
		created     *entity.Transaction
		reservation *entity.Reservation
	)
	err := s.repo.UoW.WithinTx(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		var err error
		reservation, err = tx.Reservation.FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if reservation == nil || reservation.CustomerUserID != identity.UserID {
			return NotFoundError("reservation")
		}
		if !reservation.Status.IsPayable() {
			return InvalidStatusError(fmt.Sprintf("reservation is %s and cannot be paid", reservation.Status))
		}

		paid, err := tx.Transaction.HasPaidForReservation(ctx, reservation.ID)
		if err != nil {
			return err
		}
		if paid {
			return InvalidStatusError("reservation is already paid")
		}

		now := s.now()
		transaction := &entity.Transaction{
			Base: entity.Base{
				CreatedAt: now,
				UpdatedAt: now,
			},
			ReservationID: reservation.ID,
			AmountPaise:   reservation.PricePaise,
			PaymentMethod: method,
			Status:        entity.TransactionStatusInitiated,
		}
		if method == entity.PaymentMethodUPI {
			payload := BuildUPIPayload(s.payment, reservation.ID, reservation.PricePaise)
			transaction.QRPayload = &payload
		}

		if err := tx.Transaction.Create(ctx, transaction); err != nil {
			return err
		}

		created = transaction
		return nil
	})
	if err != nil {
		logFailure(s.log, "initiate payment", err,
			zap.Int64("user_id", identity.UserID),
			zap.Int64("reservation_id", reservationID),
		)
		return nil, asError("initiate payment", err)
	}

	s.log.Info("Payment initiated",
		zap.Int64("transaction_id", created.ID),
		zap.Int64("reservation_id", created.ReservationID),
		zap.String("method", string(created.PaymentMethod)),
		zap.Int64("amount_paise", created.AmountPaise),
	)
	publishEvent(ctx, s.publisher, queue.PaymentEvent(queue.EventPaymentInitiated, created, reservation, s.now()), s.log)

	resp := response.TransactionToResponse(created)
	return &resp, nil
}

// MarkTransactionPaid settles a transaction exactly once and moves the
// reservation to completed when its window has already ended, otherwise to
// confirmed.
func (s *paymentService) MarkTransactionPaid(ctx context.Context, identity utils.Identity, transactionID int64) (*response.TransactionResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var (
		transaction *entity.Transaction
		reservation *entity.Reservation
	)
	err := s.repo.UoW.WithinTx(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		var err error
		transaction, err = tx.Transaction.FindByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if transaction == nil {
			return NotFoundError("transaction")
		}

		reservation, err = tx.Reservation.FindByIDForUpdate(ctx, transaction.ReservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return NotFoundError("reservation")
		}

		if reservation.CustomerUserID != identity.UserID && !identity.IsAdmin() {
			return AuthorizationError("only the customer or an admin can settle this transaction")
		}
		if transaction.Status != entity.TransactionStatusInitiated {
			return InvalidStatusError(fmt.Sprintf("transaction is %s, only initiated transactions can be paid", transaction.Status))
		}
		if reservation.Status == entity.ReservationStatusCancelled {
			return InvalidStatusError("reservation is cancelled")
		}

		// The reservation row lock serializes settlements of sibling transactions.
		paid, err := tx.Transaction.HasPaidForReservation(ctx, reservation.ID)
		if err != nil {
			return err
		}
		if paid {
			return InvalidStatusError("reservation is already paid")
		}

		ok, err := tx.Transaction.MarkPaid(ctx, transaction.ID)
		if err != nil {
			return err
		}
		if !ok {
			return InvalidStatusError("transaction was settled concurrently")
		}

		now := s.now()
		transaction.Status = entity.TransactionStatusPaid
		transaction.UpdatedAt = now

		return s.advanceReservation(ctx, tx, reservation, now)
	})
	if err != nil {
		logFailure(s.log, "mark transaction paid", err,
			zap.Int64("user_id", identity.UserID),
			zap.Int64("transaction_id", transactionID),
		)
		return nil, asError("mark transaction paid", err)
	}

	s.log.Info("Payment settled",
		zap.Int64("transaction_id", transaction.ID),
		zap.Int64("reservation_id", reservation.ID),
		zap.String("reservation_status", string(reservation.Status)),
	)
	publishEvent(ctx, s.publisher, queue.PaymentEvent(queue.EventPaymentSettled, transaction, reservation, s.now()), s.log)

	resp := response.TransactionToResponse(transaction)
	reservationResp := response.ReservationToResponse(reservation)
	resp.Reservation = &reservationResp
	return &resp, nil
}

func (s *paymentService) advanceReservation(ctx context.Context, tx repository.TxRepos, reservation *entity.Reservation, now time.Time) error {
	target := entity.ReservationStatusConfirmed
	if reservation.HasEnded(now) {
		target = entity.ReservationStatusCompleted
	}

	from := reservation.Status
	if from == target || from == entity.ReservationStatusCompleted {
		return nil
	}

	location, err := tx.Location.FindByIDForUpdate(ctx, reservation.LocationID)
	if err != nil {
		return err
	}
	if location == nil {
		return NotFoundError("location")
	}

	// pending never held a slot; confirmed did
	switch {
	case from == entity.ReservationStatusPending && target == entity.ReservationStatusConfirmed:
		ok, err := tx.Location.DecrementAvailableSlots(ctx, location.ID)
		if err != nil {
			return err
		}
		if !ok {
			return CapacityError("no slots available at this location")
		}
	case from == entity.ReservationStatusConfirmed && target == entity.ReservationStatusCompleted:
		if err := releaseSlot(ctx, tx.Location, location, s.log); err != nil {
			return err
		}
	}

	ok, err := tx.Reservation.UpdateStatus(ctx, reservation.ID, from, target)
	if err != nil {
		return err
	}
	if !ok {
		return InvalidStatusError("reservation status changed concurrently")
	}

	reservation.Status = target
	reservation.UpdatedAt = now
	return nil
}

func (s *paymentService) GetTransaction(ctx context.Context, identity utils.Identity, transactionID int64) (*response.TransactionResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	transaction, err := s.repo.Transaction.FindByID(ctx, transactionID)
	if err != nil {
		s.log.Error("Failed to get transaction", zap.Error(err), zap.Int64("transaction_id", transactionID))
		return nil, InternalError("get transaction", err)
	}
	if transaction == nil {
		return nil, NotFoundError("transaction")
	}

	if !identity.IsAdmin() {
		reservation, err := s.repo.Reservation.FindByID(ctx, transaction.ReservationID)
		if err != nil {
			return nil, InternalError("get transaction", err)
		}
		if reservation == nil || reservation.CustomerUserID != identity.UserID {
			return nil, NotFoundError("transaction")
		}
	}

	resp := response.TransactionToResponse(transaction)
	return &resp, nil
}

// BuildUPIPayload renders a upi://pay deep link for amountPaise payable to
// the configured payee. PayeeVPA is expected to be a validated UPI handle.
func BuildUPIPayload(payment utils.PaymentConfig, reservationID, amountPaise int64) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=%s&tn=%s",
		payment.PayeeVPA,
		url.PathEscape(payment.PayeeName),
		utils.FormatMinorUnits(amountPaise),
		payment.Currency,
		url.PathEscape(fmt.Sprintf("Parking reservation #%d", reservationID)),
	)
}
