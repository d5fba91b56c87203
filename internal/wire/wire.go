package wire

import (
	"context"
	"net/http"
	"time"

	"parking-booking/internal/adaptor"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/queue"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/middleware"
	"parking-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Wiring builds services, handlers and routes. rdb may be nil.
func Wiring(repo *repository.Repository, db Pinger, rdb *redis.Client, publisher queue.Publisher, config *utils.Config, logger *zap.Logger) *App {
	locations := repository.NewCachedLocationReader(repo.Location, rdb, config.Redis.QuoteCacheTTL, logger)
	service := usecase.NewService(repo, locations, publisher, config, logger)

	return &App{
		Router:  NewRouter(service, db, rdb, config, logger),
		Service: service,
	}
}

func NewRouter(service *usecase.Service, db Pinger, rdb *redis.Client, config *utils.Config, logger *zap.Logger) *chi.Mux {
	handler := adaptor.NewHandler(service, logger)

	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	auth := middleware.Authenticate(service.Identity, logger)
	limit := middleware.RateLimit(rdb, config.RateLimit.PerMinute, logger)

	wirePricing(r, handler.Pricing)
	wireReservation(r, handler.Reservation, auth, limit, logger)
	wirePayment(r, handler.Payment, auth, limit)

	r.Get("/health", healthHandler(db, logger))

	return r
}

func healthHandler(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				utils.ResponseError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable", nil)
				return
			}
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}
