package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradewatch/signal-service/internal/models"
)

const statsKey = "signal-service:stats"

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// StatsCache keeps a short-lived JSON copy of computed signal statistics so
// repeated dashboard polls do not rescan the signal table.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a stats cache with the given TTL.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

// GetStats returns the cached stats, or (nil, nil) on a miss.
func (c *StatsCache) GetStats(ctx context.Context) (*models.SignalStats, error) {
	data, err := c.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats cache: %w", err)
	}

	var stats models.SignalStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	if stats.ByAsset == nil {
		stats.ByAsset = map[string]int{}
	}
	return &stats, nil
}

// SetStats stores the stats with the configured TTL.
func (c *StatsCache) SetStats(ctx context.Context, stats *models.SignalStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stats cache: %w", err)
	}
	return nil
}

// EventDeduper tracks processed event IDs so redelivered Kafka messages are
// not ingested twice.
type EventDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventDeduper creates a deduper; seen markers expire after the TTL.
func NewEventDeduper(client *redis.Client, ttl time.Duration) *EventDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EventDeduper{client: client, ttl: ttl}
}

// FirstSeen marks the event ID as processed and reports whether this call was
// the first to see it.
func (d *EventDeduper) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	key := "signal-service:event:" + eventID
	ok, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check event dedupe: %w", err)
	}
	return ok, nil
}
