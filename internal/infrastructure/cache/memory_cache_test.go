package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/cache"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/pkg/constants"
)

func testDecision(ttl time.Duration) *models.AuthDecision {
	return &models.AuthDecision{
		PrincipalID: "gateway-client",
		Effect:      constants.EffectAllow,
		ResourceArn: "arn:aws:execute-api:local:000000000000:edgegate/live/GET/customers",
		ExpiresAt:   time.Now().Add(ttl),
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, monitoring.NewMetrics(prometheus.NewRegistry()))
	ctx := context.Background()

	_, found := c.Get(ctx, "Bearer abc")
	assert.False(t, found)

	decision := testDecision(time.Minute)
	c.Set(ctx, "Bearer abc", decision)

	got, found := c.Get(ctx, "Bearer abc")
	require.True(t, found)
	assert.Equal(t, decision, got)

	// Keys are the raw identity-source value; near misses stay misses.
	_, found = c.Get(ctx, "Bearer abc ")
	assert.False(t, found)
}

func TestMemoryCache_ExpiredEntryIsAbsent(t *testing.T) {
	c := cache.NewMemoryCache(20*time.Millisecond, monitoring.NewMetrics(prometheus.NewRegistry()))
	ctx := context.Background()

	c.Set(ctx, "Bearer abc", testDecision(20*time.Millisecond))

	_, found := c.Get(ctx, "Bearer abc")
	require.True(t, found)

	time.Sleep(40 * time.Millisecond)

	_, found = c.Get(ctx, "Bearer abc")
	assert.False(t, found)
}
