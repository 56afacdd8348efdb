package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/stretchr/testify/assert"
)

func newTestCache(enabled bool) Cache {
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = enabled
	return NewInMemoryCache(cfg, logger.NewNopLogger())
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	key := GenerateKey(PrefixBillingPolicy, "tenant-a")
	assert.Equal(t, "billing_policy:v1:tenant-a", key)

	c.Set(ctx, key, 42, 0)
	got, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	c.Set(ctx, GenerateKey(PrefixBillingPolicy, "tenant-b"), 7, time.Minute)
	c.Set(ctx, GenerateKey(PrefixClassGroup, "tenant-a"), 1, time.Minute)
	c.DeleteByPrefix(ctx, PrefixBillingPolicy)

	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
	_, ok = c.Get(ctx, GenerateKey(PrefixClassGroup, "tenant-a"))
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, GenerateKey(PrefixClassGroup, "tenant-a"))
	assert.False(t, ok)
}

func TestInMemoryCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(false)

	c.Set(ctx, "k", "v", time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
