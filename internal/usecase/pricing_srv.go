package usecase

import (
	"context"

	"parking-booking/internal/data/repository"
	"parking-booking/internal/dto/request"
	"parking-booking/internal/dto/response"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type PricingService interface {
	QuotePrice(ctx context.Context, locationID int64, req *request.QuoteRequest) (*response.QuoteResponse, error)
}

type pricingService struct {
	locations repository.LocationReader
	log       *zap.Logger
}

// NewPricingService quotes against locations, which may be a cached reader.
func NewPricingService(locations repository.LocationReader, log *zap.Logger) PricingService {
	return &pricingService{
		locations: locations,
		log:       log.With(zap.String("service", "pricing")),
	}
}

func (s *pricingService) QuotePrice(ctx context.Context, locationID int64, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, ValidationError("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}

	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		s.log.Error("Failed to load location for quote", zap.Error(err), zap.Int64("location_id", locationID))
		return nil, InternalError("quote price", err)
	}

	quote, err := CalculateQuote(location, start, end)
	if err != nil {
		logFailure(s.log, "quote price", err, zap.Int64("location_id", locationID))
		return nil, err
	}

	return &response.QuoteResponse{
		DurationMinutes: quote.DurationMinutes,
		PricePaise:      quote.PricePaise,
		PricingDetails: response.PricingDetails{
			Mode:              string(quote.Mode),
			AppliedRate:       quote.AppliedRate,
			CalculationMethod: quote.Explanation,
		},
	}, nil
}
