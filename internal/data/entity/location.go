package entity

import "errors"

type PricingMode string

const (
	PricingModeHourly PricingMode = "hourly"
	PricingModeSlab   PricingMode = "slab"
	PricingModeDaily  PricingMode = "daily"
)

// Slab is one duration band of a slab price table. Bounds are inclusive
// minutes.
type Slab struct {
	MinMinutes int64 `json:"minMinutes"`
	MaxMinutes int64 `json:"maxMinutes"`
	PricePaise int64 `json:"pricePaise"`
}

func (s Slab) Validate() error {
	if s.MinMinutes < 0 || s.MaxMinutes < 0 || s.PricePaise < 0 {
		return errors.New("slab values must be non-negative")
	}
	if s.MinMinutes > s.MaxMinutes {
		return errors.New("slab minMinutes must not exceed maxMinutes")
	}
	return nil
}

func (s Slab) Covers(minutes int64) bool {
	return s.MinMinutes <= minutes && minutes <= s.MaxMinutes
}

// Location is owned by the location directory; this service reads it and
// only ever writes AvailableSlots.
type Location struct {
	Base
	OwnerUserID           int64       `db:"owner_user_id"`
	Name                  string      `db:"name"`
	TotalSlots            int         `db:"total_slots"`
	AvailableSlots        int         `db:"available_slots"`
	PricingMode           PricingMode `db:"pricing_mode"`
	BasePricePerHourPaise int64       `db:"base_price_per_hour_paise"`
	DailyPricePaise       *int64      `db:"daily_price_paise"`
	Slabs                 []Slab      `db:"slab_json"`
	IsApproved            bool        `db:"is_approved"`
}

func (l *Location) IsOwnedBy(userID int64) bool {
	return l.OwnerUserID == userID
}
