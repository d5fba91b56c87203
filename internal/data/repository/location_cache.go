package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parking-booking/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const locationCachePrefix = "parking:location:"

// cachedLocationReader serves location pricing snapshots from redis for the
// quote path. Writers never go through it. A snapshot, approval included,
// can be up to ttl old; booking reads the locked row instead.
type cachedLocationReader struct {
	next LocationReader
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

// NewCachedLocationReader returns next unchanged when rdb is nil or ttl is
// not positive.
func NewCachedLocationReader(next LocationReader, rdb *redis.Client, ttl time.Duration, log *zap.Logger) LocationReader {
	if rdb == nil || ttl <= 0 {
		return next
	}
	return &cachedLocationReader{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With(zap.String("repository", "location_cache")),
	}
}

func locationCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", locationCachePrefix, id)
}

func (c *cachedLocationReader) FindByID(ctx context.Context, id int64) (*entity.Location, error) {
	key := locationCacheKey(id)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var location entity.Location
		if jsonErr := json.Unmarshal(raw, &location); jsonErr == nil {
			return &location, nil
		}
		c.log.Warn("Discarding undecodable cached location", zap.Int64("location_id", id))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("Location cache read failed", zap.Error(err), zap.Int64("location_id", id))
	}

	location, err := c.next.FindByID(ctx, id)
	if err != nil || location == nil {
		return location, err
	}

	payload, err := json.Marshal(location)
	if err != nil {
		return location, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Location cache write failed", zap.Error(err), zap.Int64("location_id", id))
	}

	return location, nil
}
