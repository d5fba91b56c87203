package adaptor

import (
	"net/http"

	"parking-booking/internal/dto/request"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/reservations/{id}/payments (protected)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	reservationID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	var req request.InitiatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body: "+err.Error(), nil)
		return
	}

	transaction, err := h.service.InitiatePayment(r.Context(), identity, reservationID, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "initiate payment")
		return
	}

	utils.ResponseCreated(w, "Payment initiated", transaction)
}

// MarkTransactionPaid handles POST /api/transactions/{id}/paid (customer or admin)
func (h *PaymentHandler) MarkTransactionPaid(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	transactionID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	transaction, err := h.service.MarkTransactionPaid(r.Context(), identity, transactionID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "mark transaction paid")
		return
	}

	utils.ResponseSuccess(w, "Payment settled", transaction)
}

// GetTransaction handles GET /api/transactions/{id} (protected)
func (h *PaymentHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	transactionID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	transaction, err := h.service.GetTransaction(r.Context(), identity, transactionID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get transaction")
		return
	}

	utils.ResponseSuccess(w, "success", transaction)
}
