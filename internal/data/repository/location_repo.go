package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"parking-booking/internal/data/entity"
	"parking-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LocationReader is the read-only view used by the quote path.
type LocationReader interface {
	FindByID(ctx context.Context, id int64) (*entity.Location, error)
}

type LocationRepository interface {
	LocationReader
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Location, error)

	// Slot accounting. Both return false when the guard rejected the update
	// (no slot left / already at capacity) and nothing was written.
	DecrementAvailableSlots(ctx context.Context, id int64) (bool, error)
	IncrementAvailableSlots(ctx context.Context, id int64) (bool, error)
}

type locationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewLocationRepository(db database.Querier, log *zap.Logger) LocationRepository {
	return &locationRepository{
		db:  db,
		log: log.With(zap.String("repository", "location")),
	}
}

const locationColumns = `id, owner_user_id, name, total_slots, available_slots, pricing_mode,
		       base_price_per_hour_paise, daily_price_paise, slab_json, is_approved, created_at, updated_at`

func (r *locationRepository) FindByID(ctx context.Context, id int64) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *locationRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *locationRepository) findOne(ctx context.Context, query string, id int64) (*entity.Location, error) {
	var (
		location entity.Location
		slabJSON []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&location.ID,
		&location.OwnerUserID,
		&location.Name,
		&location.TotalSlots,
		&location.AvailableSlots,
		&location.PricingMode,
		&location.BasePricePerHourPaise,
		&location.DailyPricePaise,
		&slabJSON,
		&location.IsApproved,
		&location.CreatedAt,
		&location.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find location by ID",
			zap.Error(err),
			zap.Int64("location_id", id),
		)
		return nil, fmt.Errorf("find location by ID %d: %w", id, err)
	}

	slabs, err := DecodeSlabs(slabJSON)
	if err != nil {
		r.log.Warn("Ignoring invalid slab table",
			zap.Error(err),
			zap.Int64("location_id", id),
		)
	}
	location.Slabs = slabs

	return &location, nil
}

func (r *locationRepository) DecrementAvailableSlots(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE locations
		SET available_slots = available_slots - 1, updated_at = NOW()
		WHERE id = $1 AND available_slots > 0
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to decrement available slots",
			zap.Error(err),
			zap.Int64("location_id", id),
		)
		return false, fmt.Errorf("decrement available slots for location %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *locationRepository) IncrementAvailableSlots(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE locations
		SET available_slots = available_slots + 1, updated_at = NOW()
		WHERE id = $1 AND available_slots < total_slots
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment available slots",
			zap.Error(err),
			zap.Int64("location_id", id),
		)
		return false, fmt.Errorf("increment available slots for location %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// DecodeSlabs parses and validates a stored slab table. An empty column yields
// nil. On a malformed table nil is returned along with the error, so callers
// price without slabs.
func DecodeSlabs(raw []byte) ([]entity.Slab, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var slabs []entity.Slab
	if err := json.Unmarshal(raw, &slabs); err != nil {
		return nil, fmt.Errorf("decode slab table: %w", err)
	}

	for i, slab := range slabs {
		if err := slab.Validate(); err != nil {
			return nil, fmt.Errorf("slab %d: %w", i, err)
		}
	}

	return slabs, nil
}
