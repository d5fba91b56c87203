package usecase

import (
	"time"

	"parking-booking/internal/data/repository"
	"parking-booking/internal/queue"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Pricing     PricingService
	Reservation ReservationService
	Payment     PaymentService
	Identity    IdentityService
}

// NewService wires the services. locations is the reader used for quotes;
// pass repo.Location when no cache is configured.
func NewService(repo *repository.Repository, locations repository.LocationReader, publisher queue.Publisher, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Pricing:     NewPricingService(locations, log),
		Reservation: NewReservationService(repo, publisher, time.Now, log),
		Payment:     NewPaymentService(repo, publisher, config.Payment, time.Now, log),
		Identity:    NewIdentityService(repo, config.Auth, log),
	}
}
