package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	"github.com/redis/go-redis/v9"
)

var _ gateways.SnapshotCache = (*SnapshotCache)(nil)

const defaultSnapshotTTL = 5 * time.Minute

// SnapshotCache stores rate snapshots as JSON strings so that every API instance
// serves the same table between refreshes.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache creates a cache whose keys expire after ttl.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Ping checks the connection to the Redis server.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// keyForBase returns the Redis key of the snapshot for base.
func (c *SnapshotCache) keyForBase(base string) string {
	return fmt.Sprintf("rates:snapshot:%s", strings.ToUpper(base))
}

// GetSnapshot returns the cached snapshot for base, or nil when there is none.
func (c *SnapshotCache) GetSnapshot(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	raw, err := c.client.Get(ctx, c.keyForBase(base)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap domain.RateSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.Warn("could not decode cached rate snapshot", "base", base, "error", err)
		return nil, nil
	}
	return &snap, nil
}

// SetSnapshot stores snapshot under its base.
func (c *SnapshotCache) SetSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode rate snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.keyForBase(snapshot.Base), raw, c.ttl).Err(); err != nil {
		c.logger.Error("failed to store rate snapshot in redis", "base", snapshot.Base, "error", err)
		return err
	}
	return nil
}
