package queue

import (
	"time"

	"parking-booking/internal/data/entity"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCompleted = "reservation.completed"
	EventReservationCancelled = "reservation.cancelled"
	EventPaymentInitiated     = "payment.initiated"
	EventPaymentSettled       = "payment.settled"
)

// Event is the message body published after a state change commits.
type Event struct {
	Event          string    `json:"event"`
	ReservationID  int64     `json:"reservation_id"`
	LocationID     int64     `json:"location_id"`
	CustomerUserID int64     `json:"customer_user_id"`
	TransactionID  *int64    `json:"transaction_id,omitempty"`
	Status         string    `json:"status"`
	AmountPaise    int64     `json:"amount_paise"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func ReservationEvent(name string, reservation *entity.Reservation, at time.Time) Event {
	return Event{
		Event:          name,
		ReservationID:  reservation.ID,
		LocationID:     reservation.LocationID,
		CustomerUserID: reservation.CustomerUserID,
		Status:         string(reservation.Status),
		AmountPaise:    reservation.PricePaise,
		OccurredAt:     at.UTC(),
	}
}

func PaymentEvent(name string, transaction *entity.Transaction, reservation *entity.Reservation, at time.Time) Event {
	id := transaction.ID
	return Event{
		Event:          name,
		ReservationID:  reservation.ID,
		LocationID:     reservation.LocationID,
		CustomerUserID: reservation.CustomerUserID,
		TransactionID:  &id,
		Status:         string(transaction.Status),
		AmountPaise:    transaction.AmountPaise,
		OccurredAt:     at.UTC(),
	}
}
