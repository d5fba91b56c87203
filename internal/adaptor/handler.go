package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Pricing     *PricingHandler
	Reservation *ReservationHandler
	Payment     *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Pricing:     NewPricingHandler(service.Pricing, log),
		Reservation: NewReservationHandler(service.Reservation, log),
		Payment:     NewPaymentHandler(service.Payment, log),
	}
}

// decodeJSON reads exactly one JSON object and refuses unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// pathID parses the positive numeric chi URL parameter name.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := utils.ParseID(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

func statusForKind(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindValidation:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindAuthorization:
		return http.StatusForbidden
	case usecase.KindNotApproved:
		return http.StatusUnprocessableEntity
	case usecase.KindCapacity, usecase.KindInvalidStatus:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the envelope for err. Internal failures are
// logged and their message is not shown to the client.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, operation string) {
	var appErr *usecase.Error
	if !errors.As(err, &appErr) || appErr.Kind == usecase.KindInternal {
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("request_id", utils.GetRequestIDFromContext(r.Context())),
		)
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.String("kind", appErr.Kind.String()),
		zap.String("code", appErr.Code),
		zap.String("message", appErr.Message),
		zap.String("request_id", utils.GetRequestIDFromContext(r.Context())),
	)

	var fields any
	if len(appErr.Fields) > 0 {
		fields = appErr.Fields
	}
	utils.ResponseError(w, statusForKind(appErr.Kind), appErr.Code, appErr.Message, fields)
}

// requireIdentity writes 401 and reports false when the request carries no
// authenticated caller.
func requireIdentity(w http.ResponseWriter, r *http.Request) (utils.Identity, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.Identity{}, false
	}
	return identity, true
}
