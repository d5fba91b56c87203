package usecase

import (
	"context"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/queue"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

func requireIdentity(identity utils.Identity) error {
	if identity.UserID <= 0 {
		return AuthorizationError("authenticated caller required")
	}
	return nil
}

func parseWindow(startValue, endValue string) (start, end time.Time, err error) {
	start, err = utils.ParseTimestamp(startValue)
	if err != nil {
		return start, end, ValidationError("start_time must be an ISO-8601 timestamp", map[string]string{
			"start_time": "Must be an ISO-8601 timestamp",
		})
	}
	end, err = utils.ParseTimestamp(endValue)
	if err != nil {
		return start, end, ValidationError("end_time must be an ISO-8601 timestamp", map[string]string{
			"end_time": "Must be an ISO-8601 timestamp",
		})
	}
	if !end.After(start) {
		return start, end, ValidationError("end_time must be after start_time", map[string]string{
			"end_time": "Must be after start_time",
		})
	}
	if end.Sub(start) > MaxWindow {
		return start, end, ValidationError("window exceeds the maximum length", map[string]string{
			"end_time": "Window must not exceed 90 days",
		})
	}
	return start, end, nil
}

// releaseSlot returns one slot to location. A counter already at capacity
// is left alone.
func releaseSlot(ctx context.Context, locations repository.LocationRepository, location *entity.Location, log *zap.Logger) error {
	ok, err := locations.IncrementAvailableSlots(ctx, location.ID)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn("Slot counter already at capacity, not incremented",
			zap.Int64("location_id", location.ID),
			zap.Int("total_slots", location.TotalSlots),
		)
	}
	return nil
}

func publishEvent(ctx context.Context, publisher queue.Publisher, event queue.Event, log *zap.Logger) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("event", event.Event),
			zap.Int64("reservation_id", event.ReservationID),
		)
	}
}

// logFailure logs caller mistakes at Warn and everything else at Error.
func logFailure(log *zap.Logger, operation string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if KindOf(err) == KindInternal {
		log.Error(operation+" failed", fields...)
		return
	}
	log.Warn(operation+" rejected", fields...)
}
