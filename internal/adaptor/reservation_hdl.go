package adaptor

import (
	"net/http"

	"parking-booking/internal/dto/request"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// CreateReservation handles POST /api/reservations (protected)
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req request.CreateReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body: "+err.Error(), nil)
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), identity, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "Reservation created", reservation)
}

// ListMyReservations handles GET /api/reservations (protected)
func (h *ReservationHandler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.service.ListMyReservations(r.Context(), identity, req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// GetReservation handles GET /api/reservations/{id} (protected)
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), identity, reservationID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// CompleteReservation handles POST /api/reservations/{id}/complete (owner or admin)
func (h *ReservationHandler) CompleteReservation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	reservation, err := h.service.CompleteReservation(r.Context(), identity, reservationID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "complete reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation completed", reservation)
}

// CancelReservation handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	reservation, err := h.service.CancelReservation(r.Context(), identity, reservationID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation cancelled", reservation)
}

// ListLocationReservations handles GET /api/owner/locations/{id}/reservations
func (h *ReservationHandler) ListLocationReservations(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	locationID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	reservations, err := h.service.ListLocationReservations(r.Context(), identity, locationID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list location reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}
