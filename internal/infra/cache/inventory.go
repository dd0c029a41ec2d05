package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"clubops/internal/domain/waitlist"
	"clubops/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

const inventoryKey = "inventory:snapshot"

// InventoryCache keeps the availability snapshot behind a short TTL so the
// polling backstop does not re-aggregate on every request. Any cache error
// degrades to a store read, never to a request failure.
type InventoryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewInventoryCache(client *redis.Client, cfg config.Config, logger *slog.Logger) *InventoryCache {
	return &InventoryCache{
		client: client,
		ttl:    cfg.Redis.SnapTTL,
		logger: logger,
	}
}

func (c *InventoryCache) Get(ctx context.Context) (*waitlist.InventorySnapshot, bool) {
	raw, err := c.client.Get(ctx, inventoryKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("inventory cache read failed", "error", err)
		}
		return nil, false
	}

	var snap waitlist.InventorySnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.Warn("inventory cache entry corrupt", "error", err)
		return nil, false
	}
	return &snap, true
}

func (c *InventoryCache) Set(ctx context.Context, snap *waitlist.InventorySnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("failed to encode inventory snapshot", "error", err)
		return
	}
	if err := c.client.Set(ctx, inventoryKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("inventory cache write failed", "error", err)
	}
}

func (c *InventoryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, inventoryKey).Err(); err != nil {
		c.logger.Warn("inventory cache invalidation failed", "error", err)
	}
}
