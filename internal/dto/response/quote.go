package response

type QuoteResponse struct {
	DurationMinutes int64          `json:"duration_minutes"`
	PricePaise      int64          `json:"price_paise"`
	PricingDetails  PricingDetails `json:"pricing_details"`
}

type PricingDetails struct {
	Mode              string `json:"mode"`
	AppliedRate       int64  `json:"applied_rate"`
	CalculationMethod string `json:"calculation_method"`
}
