package response

import (
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/pkg/utils"
)

type ReservationResponse struct {
	ID              int64                    `json:"id"`
	LocationID      int64                    `json:"location_id"`
	CustomerUserID  int64                    `json:"customer_user_id"`
	VehicleNumber   string                   `json:"vehicle_number"`
	StartTime       time.Time                `json:"start_time"`
	EndTime         time.Time                `json:"end_time"`
	DurationMinutes int64                    `json:"duration_minutes"`
	PricePaise      int64                    `json:"price_paise"`
	Price           string                   `json:"price"`
	Status          entity.ReservationStatus `json:"status"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

func ReservationToResponse(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		LocationID:      r.LocationID,
		CustomerUserID:  r.CustomerUserID,
		VehicleNumber:   r.VehicleNumber,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationMinutes: r.DurationMinutes,
		PricePaise:      r.PricePaise,
		Price:           utils.FormatMinorUnits(r.PricePaise),
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func ReservationsToResponse(reservations []*entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, ReservationToResponse(r))
	}
	return out
}
