package usecase

import (
	"time"

	"parking-booking/internal/data/entity"
)

// IsAvailable reports whether one more reservation fits in [start, end).
// Only confirmed reservations occupy a slot.
func IsAvailable(location *entity.Location, start, end time.Time, existing []*entity.Reservation) bool {
	if location == nil || location.TotalSlots <= 0 {
		return false
	}

	occupied := 0
	for _, r := range existing {
		if r.Status == entity.ReservationStatusConfirmed && r.Overlaps(start, end) {
			occupied++
		}
	}

	return occupied < location.TotalSlots
}
