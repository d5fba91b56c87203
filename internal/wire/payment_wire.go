package wire

import (
	"net/http"

	"parking-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	auth, limit func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/transactions/{id}", paymentHandler.GetTransaction)

		r.With(limit).Post("/api/reservations/{id}/payments", paymentHandler.InitiatePayment)
		r.With(limit).Post("/api/transactions/{id}/paid", paymentHandler.MarkTransactionPaid)
	})
}
