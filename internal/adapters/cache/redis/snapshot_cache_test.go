package redis

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newTestClient(t)
	cache := NewSnapshotCache(rdb, time.Minute, slog.Default())

	snap := domain.RateSnapshot{
		Base: "TST",
		Rates: map[string]decimal.Decimal{
			"TST": decimal.NewFromInt(1),
			"USD": decimal.RequireFromString("0.0988142292490119"),
		},
		Source:    "static",
		FetchedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, cache.SetSnapshot(ctx, snap))
	t.Cleanup(func() { _ = rdb.Del(ctx, "rates:snapshot:TST").Err() })

	got, err := cache.GetSnapshot(ctx, "tst")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "static", got.Source)
	assert.True(t, snap.FetchedAt.Equal(got.FetchedAt))
	assert.True(t, snap.Rates["USD"].Equal(got.Rates["USD"]))

	ttl, err := rdb.TTL(ctx, "rates:snapshot:TST").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestSnapshotCache_Miss(t *testing.T) {
	rdb := newTestClient(t)
	cache := NewSnapshotCache(rdb, 0, nil)

	got, err := cache.GetSnapshot(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}
