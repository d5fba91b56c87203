package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/dto/request"
	"parking-booking/internal/dto/response"
	"parking-booking/internal/queue"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReservationService interface {
	CreateReservation(ctx context.Context, identity utils.Identity, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	CompleteReservation(ctx context.Context, identity utils.Identity, reservationID int64) (*response.ReservationResponse, error)
	CancelReservation(ctx context.Context, identity utils.Identity, reservationID int64) (*response.ReservationResponse, error)

	GetReservation(ctx context.Context, identity utils.Identity, reservationID int64) (*response.ReservationResponse, error)
	ListMyReservations(ctx context.Context, identity utils.Identity, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	ListLocationReservations(ctx context.Context, identity utils.Identity, locationID int64) ([]response.ReservationResponse, error)
}

type reservationService struct {
	repo      *repository.Repository
	publisher queue.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewReservationService(repo *repository.Repository, publisher queue.Publisher, now func() time.Time, log *zap.Logger) ReservationService {
	if now == nil {
		now = time.Now
	}
	return &reservationService{
		repo:      repo,
		publisher: publisher,
		now:       now,
		log:       log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, identity utils.Identity, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	// Identity fields in the body are an impersonation attempt, never a hint
	if fields := req.IdentityFields(); len(fields) > 0 {
		errs := make(map[string]string, len(fields))
		for _, field := range fields {
			errs[field] = "Identity is taken from the authenticated caller"
		}
		s.log.Warn("Create reservation rejected: identity in payload",
			zap.Int64("user_id", identity.UserID),
			zap.Strings("fields", fields),
		)
		return nil, ValidationError("identity fields are not accepted", errs)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, ValidationError("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}

	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	vehicle := strings.TrimSpace(req.VehicleNumber)

	var created *entity.Reservation
	err = s.repo.UoW.WithinTx(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		location, err := tx.Location.FindByIDForUpdate(ctx, req.LocationID)
		if err != nil {
			return err
		}
		if location == nil {
			return NotFoundError("location")
		}
		if !location.IsApproved {
			return NotApprovedError()
		}
		if location.AvailableSlots <= 0 {
			return CapacityError("no slots available at this location")
		}

		quote, err := CalculateQuote(location, start, end)
		if err != nil {
			return err
		}

		existing, err := tx.Reservation.FindConfirmedOverlapping(ctx, location.ID, start, end)
		if err != nil {
			return err
		}
		if !IsAvailable(location, start, end, existing) {
			return CapacityError("no slot available for the requested window")
		}

		now := s.now()
		reservation := &entity.Reservation{
			Base: entity.Base{
				CreatedAt: now,
				UpdatedAt: now,
			},
			LocationID:      location.ID,
			CustomerUserID:  identity.UserID,
			VehicleNumber:   vehicle,
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: quote.DurationMinutes,
			PricePaise:      quote.PricePaise,
			Status:          entity.ReservationStatusConfirmed,
		}
		if err := tx.Reservation.Create(ctx, reservation); err != nil {
			return err
		}

		ok, err := tx.Location.DecrementAvailableSlots(ctx, location.ID)
		if err != nil {
			return err
		}
		if !ok {
			return CapacityError("no slots available at this location")
		}

		created = reservation
		return nil
	})
	if err != nil {
		s.logFailure("create reservation", err,
			zap.Int64("user_id", identity.UserID),
			zap.Int64("location_id", req.LocationID),
		)
		return nil, asError("create reservation", err)
	}

	s.log.Info("Reservation created",
		zap.Int64("reservation_id", created.ID),
		zap.Int64("location_id", created.LocationID),
		zap.Int64("user_id", created.CustomerUserID),
		zap.Int64("duration_minutes", created.DurationMinutes),
		zap.Int64("price_paise", created.PricePaise),
	)
	s.publish(ctx, queue.ReservationEvent(queue.EventReservationCreated, created, s.now()))

	resp := response.ReservationToResponse(created)
	return &resp, nil
}

// CompleteReservation is restricted to the location owner or an admin.
func (s *reservationService) CompleteReservation(ctx context.Context, identity utils.Identity, reservationID int64) (*response.ReservationResponse, error) {
	return s.finish(ctx, identity, reservationID, entity.ReservationStatusCompleted, func(identity utils.Identity, r *entity.Reservation, l *entity.Location) bool {
		return identity.IsAdmin() || l.IsOwnedBy(identity.UserID)
	})
}

// CancelReservation is open to the customer as well.
func (s *reservationService) CancelReservation(ctx context.Context, identity utils.Identity, reservationID int64) (*response.ReservationResponse, error) {
	return s.finish(ctx, identity, reservationID, entity.ReservationStatusCancelled, func(identity utils.Identity, r *entity.Reservation, l *entity.Location) bool {
		return identity.IsAdmin() || l.IsOwnedBy(identity.UserID) || r.CustomerUserID == identity.UserID
	})
}

type finishPolicy func(identity utils.Identity, reservation *entity.Reservation, location *entity.Location) bool

// finish moves a confirmed reservation to a terminal status and returns its
// slot to the location, both in one unit of work.
func (s *reservationService) finish(ctx context.Context, identity utils.Identity, reservationID int64, to entity.ReservationStatus, allowed finishPolicy) (*response.ReservationResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	operation := "complete reservation"
	event := queue.EventReservationCompleted
	if to == entity.ReservationStatusCancelled {
		operation = "cancel reservation"
		event = queue.EventReservationCancelled
	}

	var updated *entity.Reservation
	err := s.repo.UoW.WithinTx(ctx, func(ctx context.Context, tx repository.TxRepos) error {
		reservation, err := tx.Reservation.FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return NotFoundError("reservation")
		}

		location, err := tx.Location.FindByIDForUpdate(ctx, reservation.LocationID)
		if err != nil {
			return err
		}
		if location == nil {
			return NotFoundError("location")
		}

		if !allowed(identity, reservation, location) {
			return AuthorizationError("not allowed to " + operation)
		}
		if reservation.Status != entity.ReservationStatusConfirmed {
			return InvalidStatusError(fmt.Sprintf("reservation is %s, only confirmed reservations can be %s", reservation.Status, to))
		}

		ok, err := tx.Reservation.UpdateStatus(ctx, reservation.ID, entity.ReservationStatusConfirmed, to)
		if err != nil {
			return err
		}
		if !ok {
			return InvalidStatusError("reservation status changed concurrently")
		}

		if err := releaseSlot(ctx, tx.Location, location, s.log); err != nil {
			return err
		}

		reservation.Status = to
		reservation.UpdatedAt = s.now()
		updated = reservation
		return nil
	})
	if err != nil {
		s.logFailure(operation, err,
			zap.Int64("user_id", identity.UserID),
			zap.Int64("reservation_id", reservationID),
		)
		return nil, asError(operation, err)
	}

	s.log.Info("Reservation "+string(to),
		zap.Int64("reservation_id", updated.ID),
		zap.Int64("location_id", updated.LocationID),
		zap.Int64("by_user_id", identity.UserID),
	)
	s.publish(ctx, queue.ReservationEvent(event, updated, s.now()))

	resp := response.ReservationToResponse(updated)
	return &resp, nil
}

func (s *reservationService) GetReservation(ctx context.Context, identity utils.Identity, reservationID int64) (*response.ReservationResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		s.log.Error("Failed to get reservation", zap.Error(err), zap.Int64("reservation_id", reservationID))
		return nil, InternalError("get reservation", err)
	}
	if reservation == nil {
		return nil, NotFoundError("reservation")
	}

	if reservation.CustomerUserID != identity.UserID && !identity.IsAdmin() {
		location, err := s.repo.Location.FindByID(ctx, reservation.LocationID)
		if err != nil {
			return nil, InternalError("get reservation", err)
		}
		if location == nil || !location.IsOwnedBy(identity.UserID) {
			return nil, NotFoundError("reservation")
		}
	}

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) ListMyReservations(ctx context.Context, identity utils.Identity, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	limit := req.Limit()
	offset := req.Offset()

	reservations, err := s.repo.Reservation.FindByCustomerID(ctx, identity.UserID, limit, offset)
	if err != nil {
		s.log.Error("Failed to list reservations", zap.Error(err), zap.Int64("user_id", identity.UserID))
		return nil, InternalError("list reservations", err)
	}

	total, err := s.repo.Reservation.CountByCustomerID(ctx, identity.UserID)
	if err != nil {
		s.log.Error("Failed to count reservations", zap.Error(err), zap.Int64("user_id", identity.UserID))
		return nil, InternalError("list reservations", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	return response.NewPaginatedResponse(response.ReservationsToResponse(reservations), page, limit, total), nil
}

func (s *reservationService) ListLocationReservations(ctx context.Context, identity utils.Identity, locationID int64) ([]response.ReservationResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	location, err := s.repo.Location.FindByID(ctx, locationID)
	if err != nil {
		s.log.Error("Failed to get location", zap.Error(err), zap.Int64("location_id", locationID))
		return nil, InternalError("list location reservations", err)
	}
	if location == nil || (!location.IsOwnedBy(identity.UserID) && !identity.IsAdmin()) {
		return nil, NotFoundError("location")
	}

	reservations, err := s.repo.Reservation.FindByLocationID(ctx, locationID)
	if err != nil {
		s.log.Error("Failed to list location reservations", zap.Error(err), zap.Int64("location_id", locationID))
		return nil, InternalError("list location reservations", err)
	}

	return response.ReservationsToResponse(reservations), nil
}

func (s *reservationService) publish(ctx context.Context, event queue.Event) {
	publishEvent(ctx, s.publisher, event, s.log)
}

func (s *reservationService) logFailure(operation string, err error, fields ...zap.Field) {
	logFailure(s.log, operation, err, fields...)
}
