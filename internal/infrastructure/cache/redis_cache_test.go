package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudedge-io/edgegate/internal/infrastructure/cache"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*cache.RedisCache, *miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	return cache.NewRedisCache(client, ttl, logger.NewNoopLogger(), metrics), server, client
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	_, found := c.Get(ctx, "Bearer abc")
	assert.False(t, found)

	decision := testDecision(time.Minute)
	c.Set(ctx, "Bearer abc", decision)

	got, found := c.Get(ctx, "Bearer abc")
	require.True(t, found)
	assert.Equal(t, decision.PrincipalID, got.PrincipalID)
	assert.Equal(t, decision.Effect, got.Effect)
	assert.Equal(t, decision.ResourceArn, got.ResourceArn)
	assert.WithinDuration(t, decision.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c, server, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "Bearer abc", testDecision(time.Minute))

	_, found := c.Get(ctx, "Bearer abc")
	require.True(t, found)

	server.FastForward(2 * time.Minute)

	_, found = c.Get(ctx, "Bearer abc")
	assert.False(t, found)
}

func TestRedisCache_RawValueNeverStoredAsKey(t *testing.T) {
	c, server, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "Bearer super-secret-credential", testDecision(time.Minute))

	for _, key := range server.Keys() {
		assert.NotContains(t, key, "super-secret-credential")
	}
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	c, server, client := newRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "Bearer abc", testDecision(time.Minute))

	// Overwrite every stored entry with garbage.
	for _, key := range server.Keys() {
		require.NoError(t, client.Set(ctx, key, "{not json", time.Minute).Err())
	}

	_, found := c.Get(ctx, "Bearer abc")
	assert.False(t, found)
}

func TestRedisCache_BackendFailureIsMiss(t *testing.T) {
	c, server, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "Bearer abc", testDecision(time.Minute))
	server.Close()

	_, found := c.Get(ctx, "Bearer abc")
	assert.False(t, found)
}
