package response

import (
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/pkg/utils"
)

type TransactionResponse struct {
	ID            int64                    `json:"id"`
	ReservationID int64                    `json:"reservation_id"`
	AmountPaise   int64                    `json:"amount_paise"`
	Amount        string                   `json:"amount"`
	PaymentMethod entity.PaymentMethod     `json:"payment_method"`
	Status        entity.TransactionStatus `json:"status"`
	QRPayload     *string                  `json:"qr_payload,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`

	// Set when the call also moved the reservation.
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}

func TransactionToResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		ReservationID: t.ReservationID,
		AmountPaise:   t.AmountPaise,
		Amount:        utils.FormatMinorUnits(t.AmountPaise),
		PaymentMethod: t.PaymentMethod,
		Status:        t.Status,
		QRPayload:     t.QRPayload,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
