package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// AvailabilityCache keeps the available-seat list of a show in Redis so
// that the hot GET /v1/shows/:id/seats path can skip the database.
// Entries are short-lived and are deleted whenever a booking or a
// cancellation changes the seat set, so readers may observe a stale
// list only for the configured TTL at worst. The booking path itself
// never trusts the cache: the ledger's unique index remains the sole
// arbiter of who gets a seat.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAvailabilityCache builds a cache around the given Redis client.
// A nil client yields a nil cache, which all call sites treat as
// caching disabled.
func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func seatKey(showID uint64) string { return fmt.Sprintf("seats:%d", showID) }

// Get returns the cached seat list for a show and whether it was present.
func (a *AvailabilityCache) Get(ctx context.Context, showID uint64) ([]uint32, bool) {
	raw, err := a.rdb.Get(ctx, seatKey(showID)).Bytes()
	if err != nil {
		return nil, false
	}
	var seats []uint32
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false
	}
	return seats, true
}

// Set stores the seat list for a show. Failures are logged and swallowed.
func (a *AvailabilityCache) Set(ctx context.Context, showID uint64, seats []uint32) {
	raw, err := json.Marshal(seats)
	if err != nil {
		return
	}
	if err := a.rdb.Set(ctx, seatKey(showID), raw, a.ttl).Err(); err != nil {
		logrus.WithError(err).Debug("seat cache: set failed")
	}
}

// Invalidate drops the cached seat list after the seat set changed.
func (a *AvailabilityCache) Invalidate(ctx context.Context, showID uint64) {
	if err := a.rdb.Del(ctx, seatKey(showID)).Err(); err != nil {
		logrus.WithError(err).Debug("seat cache: invalidate failed")
	}
}
