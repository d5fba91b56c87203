package usecase

import (
	"fmt"
	"time"

	"parking-booking/internal/data/entity"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * 60
)

// MaxWindow is the longest bookable window. It keeps end.Sub(start) far
// from time.Duration saturation.
const MaxWindow = 90 * 24 * time.Hour

// Quote is the priced view of a time window at one location.
type Quote struct {
	DurationMinutes int64
	PricePaise      int64
	Mode            entity.PricingMode
	AppliedRate     int64
	Explanation     string
}

// DurationMinutes rounds the window up to whole minutes.
func DurationMinutes(start, end time.Time) int64 {
	d := end.Sub(start)
	minutes := int64(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// CalculateQuote prices [start, end) at location. It performs no I/O; the
// only failure modes are a missing or unapproved location and an empty
// window.
func CalculateQuote(location *entity.Location, start, end time.Time) (*Quote, error) {
	if location == nil {
		return nil, NotFoundError("location")
	}
	if !location.IsApproved {
		return nil, NotApprovedError()
	}
	if !end.After(start) {
		return nil, ValidationError("end_time must be after start_time", map[string]string{
			"end_time": "end_time must be after start_time",
		})
	}

	if end.Sub(start) > MaxWindow {
		return nil, ValidationError("window exceeds the maximum length", map[string]string{
			"end_time": "Window must not exceed 90 days",
		})
	}

	minutes := DurationMinutes(start, end)

	switch location.PricingMode {
	case entity.PricingModeSlab:
		if len(location.Slabs) == 0 {
			return hourlyQuote(location, minutes, "slab table missing, fell back to hourly"), nil
		}
		for _, slab := range location.Slabs {
			if slab.Covers(minutes) {
				return &Quote{
					DurationMinutes: minutes,
					PricePaise:      slab.PricePaise,
					Mode:            entity.PricingModeSlab,
					AppliedRate:     slab.PricePaise,
					Explanation: fmt.Sprintf("slab %d-%d min flat %d paise",
						slab.MinMinutes, slab.MaxMinutes, slab.PricePaise),
				}, nil
			}
		}
		return hourlyQuote(location, minutes, fmt.Sprintf("no slab covers %d min, fell back to hourly", minutes)), nil

	case entity.PricingModeDaily:
		rate := 24 * location.BasePricePerHourPaise
		source := "24 x hourly rate"
		if location.DailyPricePaise != nil {
			rate = *location.DailyPricePaise
			source = "daily rate"
		}
		days := ceilDiv(minutes, minutesPerDay)
		return &Quote{
			DurationMinutes: minutes,
			PricePaise:      days * rate,
			Mode:            entity.PricingModeDaily,
			AppliedRate:     rate,
			Explanation:     fmt.Sprintf("%d day(s) x %d paise (%s)", days, rate, source),
		}, nil

	case entity.PricingModeHourly:
		return hourlyQuote(location, minutes, ""), nil

	default:
		return hourlyQuote(location, minutes, fmt.Sprintf("unknown pricing mode %q, fell back to hourly", location.PricingMode)), nil
	}
}

func hourlyQuote(location *entity.Location, minutes int64, note string) *Quote {
	hours := ceilDiv(minutes, minutesPerHour)
	explanation := fmt.Sprintf("%d hour(s) x %d paise/hour", hours, location.BasePricePerHourPaise)
	if note != "" {
		explanation = note + ": " + explanation
	}
	return &Quote{
		DurationMinutes: minutes,
		PricePaise:      hours * location.BasePricePerHourPaise,
		Mode:            entity.PricingModeHourly,
		AppliedRate:     location.BasePricePerHourPaise,
		Explanation:     explanation,
	}
}
