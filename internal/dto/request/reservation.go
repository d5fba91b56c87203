package request

import "encoding/json"

type CreateReservationRequest struct {
	LocationID    int64  `json:"location_id" validate:"required,gt=0"`
	VehicleNumber string `json:"vehicle_number" validate:"required,notblank,max=20"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`

	// Identity always comes from the authenticated caller. These are decoded
	// only so that a payload carrying them can be refused.
	UserID         json.RawMessage `json:"user_id,omitempty"`
	CustomerUserID json.RawMessage `json:"customer_user_id,omitempty"`
	OwnerID        json.RawMessage `json:"owner_id,omitempty"`
	OwnerUserID    json.RawMessage `json:"owner_user_id,omitempty"`
}

// IdentityFields lists the identity fields present in the payload.
func (r *CreateReservationRequest) IdentityFields() []string {
	var present []string
	for _, f := range []struct {
		name  string
		value json.RawMessage
	}{
		{"user_id", r.UserID},
		{"customer_user_id", r.CustomerUserID},
		{"owner_id", r.OwnerID},
		{"owner_user_id", r.OwnerUserID},
	} {
		if len(f.value) > 0 {
			present = append(present, f.name)
		}
	}
	return present
}

type QuoteRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}
