// Package cache holds read-through caches in front of the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/circuit"
)

const (
	inventoryKeyPrefix = "bloodlink:inventory:"
	allHospitalsKey    = inventoryKeyPrefix + "all"
)

// RedisInventory caches inventory listings per hospital and for the
// all-hospitals view. It never owns truth: entries expire after ttl and are
// deleted whenever a donation credits the hospital.
type RedisInventory struct {
	client  redis.UniversalClient
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type RedisInventoryOption func(*RedisInventory)

func WithLogger(logger *slog.Logger) RedisInventoryOption {
	return func(c *RedisInventory) {
		c.logger = logger
	}
}

func NewRedisInventory(client redis.UniversalClient, ttl time.Duration, opts ...RedisInventoryOption) *RedisInventory {
	c := &RedisInventory{
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("inventory-cache", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func inventoryKey(hospitalID id.HospitalID) string {
	if hospitalID.IsNil() {
		return allHospitalsKey
	}
	return inventoryKeyPrefix + hospitalID.String()
}

// Get returns the cached rows and whether the key was present.
func (c *RedisInventory) Get(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, bool, error) {
	raw, err := c.client.Get(ctx, inventoryKey(hospitalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.recordSuccess(ctx)
		return nil, false, nil
	}
	if err != nil {
		c.recordFailure(ctx, err)
		return nil, false, fmt.Errorf("get inventory cache: %w", err)
	}
	c.recordSuccess(ctx)

	var rows []models.InventoryRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false, fmt.Errorf("decode inventory cache: %w", err)
	}
	return rows, true, nil
}

func (c *RedisInventory) Set(ctx context.Context, hospitalID id.HospitalID, rows []models.InventoryRow) error {
	if c.breaker.IsOpen() {
		// Degraded: skip writes, reads still test for recovery.
		return nil
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode inventory cache: %w", err)
	}
	if err := c.client.Set(ctx, inventoryKey(hospitalID), payload, c.ttl).Err(); err != nil {
		c.recordFailure(ctx, err)
		return fmt.Errorf("set inventory cache: %w", err)
	}
	return nil
}

// Invalidate drops the hospital's entry and the all-hospitals entry.
func (c *RedisInventory) Invalidate(ctx context.Context, hospitalID id.HospitalID) error {
	if err := c.client.Del(ctx, inventoryKey(hospitalID), allHospitalsKey).Err(); err != nil {
		c.recordFailure(ctx, err)
		return fmt.Errorf("invalidate inventory cache: %w", err)
	}
	return nil
}

func (c *RedisInventory) recordFailure(ctx context.Context, err error) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "inventory cache degraded, serving from store", "error", err)
	}
}

func (c *RedisInventory) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "inventory cache recovered")
	}
}
