package adaptor

import (
	"net/http"

	"parking-booking/internal/dto/request"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type PricingHandler struct {
	service usecase.PricingService
	log     *zap.Logger
}

func NewPricingHandler(service usecase.PricingService, log *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log.With(zap.String("handler", "pricing")),
	}
}

// QuotePrice handles GET /api/locations/{id}/quote (public)
func (h *PricingHandler) QuotePrice(w http.ResponseWriter, r *http.Request) {
	locationID, err := pathID(r, "id")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	query := r.URL.Query()
	req := &request.QuoteRequest{
		StartTime: query.Get("start_time"),
		EndTime:   query.Get("end_time"),
	}

	quote, err := h.service.QuotePrice(r.Context(), locationID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "quote price")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}
