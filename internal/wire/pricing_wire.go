package wire

import (
	"parking-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePricing(r chi.Router, pricingHandler *adaptor.PricingHandler) {
	// GET /api/locations/{id}/quote - price preview (public)
	r.Get("/api/locations/{id}/quote", pricingHandler.QuotePrice)
}
