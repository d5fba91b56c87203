package entity

import "time"

type ReservationStatus string

const (
	// ReservationStatusPending is reserved for payment-first flows; creation
	// never produces it.
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

func (s ReservationStatus) IsPayable() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

type Reservation struct {
	Base
	LocationID      int64             `db:"location_id"`
	CustomerUserID  int64             `db:"customer_user_id"`
	VehicleNumber   string            `db:"vehicle_number"`
	StartTime       time.Time         `db:"start_time"`
	EndTime         time.Time         `db:"end_time"`
	DurationMinutes int64             `db:"duration_minutes"`
	PricePaise      int64             `db:"price_paise"`
	Status          ReservationStatus `db:"status"`
}

// Overlaps uses half-open windows: [s1, e1) and [s2, e2) overlap iff
// s1 < e2 && s2 < e1.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && start.Before(r.EndTime)
}

func (r *Reservation) HasEnded(now time.Time) bool {
	return !now.Before(r.EndTime)
}
