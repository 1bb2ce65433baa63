package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"venuebooking/internal/notification"
	"venuebooking/internal/pkg/timeslot"
)

const cacheKeyPrefix = "venuebooking:free_hours"

// FreeHoursCache keeps FreeHoursOnDate results in Redis for a short TTL.
// A nil cache, or a Redis error, falls through to the store.
type FreeHoursCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFreeHoursCache returns nil when client is nil.
func NewFreeHoursCache(client *redis.Client, ttl time.Duration) *FreeHoursCache {
	if client == nil {
		return nil
	}
	return &FreeHoursCache{client: client, ttl: ttl}
}

func cacheKey(venueID int64, date timeslot.Date) string {
	return fmt.Sprintf("%s:%d:%s", cacheKeyPrefix, venueID, date.String())
}

func (c *FreeHoursCache) Get(ctx context.Context, venueID int64, date timeslot.Date) ([]timeslot.Interval, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(venueID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache_error op=get venue_id=%d date=%s error=%q", venueID, date, err.Error())
		}
		return nil, false
	}

	var free []timeslot.Interval
	if err := json.Unmarshal(raw, &free); err != nil {
		log.Printf("cache_error op=decode venue_id=%d date=%s error=%q", venueID, date, err.Error())
		return nil, false
	}
	return free, true
}

func (c *FreeHoursCache) Set(ctx context.Context, venueID int64, date timeslot.Date, free []timeslot.Interval) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(free)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(venueID, date), raw, c.ttl).Err(); err != nil {
		log.Printf("cache_error op=set venue_id=%d date=%s error=%q", venueID, date, err.Error())
	}
}

func (c *FreeHoursCache) Invalidate(ctx context.Context, venueID int64, date timeslot.Date) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey(venueID, date)).Err()
}

// Name and Handle make the cache a dispatch sink: entering or leaving the
// approved status drops the cached day.
func (c *FreeHoursCache) Name() string { return "availability_cache" }

func (c *FreeHoursCache) Handle(ctx context.Context, ev notification.Event) error {
	if !ev.TouchesApproved() {
		return nil
	}
	return c.Invalidate(ctx, ev.Reservation.VenueID, ev.Reservation.Date)
}
