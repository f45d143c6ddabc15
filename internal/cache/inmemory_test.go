package cache

import (
	"context"
	"testing"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(config.CacheConfig{Enabled: true, TTL: time.Minute})

	key := GenerateKey(PrefixTemplate, "tenant_1", "tmpl_1")
	assert.Equal(t, "template:v1:tenant_1:tmpl_1", key)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []byte("%PDF-1.4"), 0)
	got, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.4"), got)

	c.Set(ctx, GenerateKey(PrefixTemplate, "tenant_1", "tmpl_2"), []byte("x"), 0)
	c.Set(ctx, "other:v1:a", []byte("y"), 0)
	c.DeleteByPrefix(ctx, GenerateKey(PrefixTemplate, "tenant_1"))

	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
	_, ok = c.Get(ctx, "other:v1:a")
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, "other:v1:a")
	assert.False(t, ok)
}

func TestInMemoryCacheDisabled(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(config.CacheConfig{Enabled: false})

	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
