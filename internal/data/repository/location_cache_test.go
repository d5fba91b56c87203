package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"parking-booking/internal/data/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReader struct {
	locations map[int64]*entity.Location
	calls     int
}

func (c *countingReader) FindByID(_ context.Context, id int64) (*entity.Location, error) {
	c.calls++
	location, ok := c.locations[id]
	if !ok {
		return nil, nil
	}
	copied := *location
	return &copied, nil
}

func newCacheFixture(t *testing.T) (*miniredis.Miniredis, *countingReader, LocationReader) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	daily := int64(15000)
	backing := &countingReader{locations: map[int64]*entity.Location{
		5: {
			Base:                  entity.Base{ID: 5},
			OwnerUserID:           7,
			Name:                  "Central Lot",
			TotalSlots:            3,
			AvailableSlots:        2,
			PricingMode:           entity.PricingModeSlab,
			BasePricePerHourPaise: 1000,
			DailyPricePaise:       &daily,
			Slabs:                 []entity.Slab{{MinMinutes: 0, MaxMinutes: 60, PricePaise: 800}},
			IsApproved:            true,
		},
	}}
	return srv, backing, NewCachedLocationReader(backing, rdb, 30*time.Second, zap.NewNop())
}

func TestCachedLocationReaderMissThenHit(t *testing.T) {
	srv, backing, reader := newCacheFixture(t)
	ctx := context.Background()

	first, err := reader.FindByID(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, backing.calls)

	key := locationCacheKey(5)
	require.True(t, srv.Exists(key))
	assert.Equal(t, 30*time.Second, srv.TTL(key))

	second, err := reader.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.calls)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.PricingMode, second.PricingMode)
	assert.True(t, second.IsApproved)
	assert.Equal(t, []entity.Slab{{MinMinutes: 0, MaxMinutes: 60, PricePaise: 800}}, second.Slabs)
	require.NotNil(t, second.DailyPricePaise)
	assert.Equal(t, int64(15000), *second.DailyPricePaise)
}

func TestCachedLocationReaderExpires(t *testing.T) {
	srv, backing, reader := newCacheFixture(t)
	ctx := context.Background()

	_, err := reader.FindByID(ctx, 5)
	require.NoError(t, err)

	srv.FastForward(31 * time.Second)

	_, err = reader.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}

func TestCachedLocationReaderReplacesUndecodableEntry(t *testing.T) {
	srv, backing, reader := newCacheFixture(t)
	key := locationCacheKey(5)
	require.NoError(t, srv.Set(key, "{not json"))

	location, err := reader.FindByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, "Central Lot", location.Name)
	assert.Equal(t, 1, backing.calls)

	raw, err := srv.Get(key)
	require.NoError(t, err)
	var cached entity.Location
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, int64(5), cached.ID)
}

func TestCachedLocationReaderDoesNotCacheMissingLocation(t *testing.T) {
	srv, backing, reader := newCacheFixture(t)

	location, err := reader.FindByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, location)
	assert.False(t, srv.Exists(locationCacheKey(404)))

	_, err = reader.FindByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}

func TestCachedLocationReaderFallsBackWhenRedisIsDown(t *testing.T) {
	srv, backing, reader := newCacheFixture(t)
	srv.Close()

	location, err := reader.FindByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, 1, backing.calls)
}
