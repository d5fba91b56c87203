package wire

import (
	"net/http"

	"parking-booking/internal/adaptor"
	"parking-booking/pkg/middleware"
	"parking-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	auth, limit func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/reservations", reservationHandler.ListMyReservations)
		r.Get("/api/reservations/{id}", reservationHandler.GetReservation)

		r.Group(func(r chi.Router) {
			r.Use(limit)

			r.Post("/api/reservations", reservationHandler.CreateReservation)
			// ownership is checked per reservation by the service
			r.Post("/api/reservations/{id}/complete", reservationHandler.CompleteReservation)
			r.Post("/api/reservations/{id}/cancel", reservationHandler.CancelReservation)
		})
	})

	// Owner dashboard feed
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(log, utils.RoleOwner, utils.RoleAdmin))

		r.Get("/api/owner/locations/{id}/reservations", reservationHandler.ListLocationReservations)
	})
}
