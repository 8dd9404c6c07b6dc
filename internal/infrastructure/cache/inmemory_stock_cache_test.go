package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/warehouse/backend/internal/application/inventory"
)

func TestInMemoryStockCacheRoundTrip(t *testing.T) {
	c := NewInMemoryStockCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	key := appinv.StockKey{ProductID: uuid.New(), LocationID: uuid.New()}

	_, ok, err := c.GetQuantity(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetQuantity(ctx, key, decimal.NewFromInt(42)))
	qty, ok, err := c.GetQuantity(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, qty.Equal(decimal.NewFromInt(42)))
}

func TestInMemoryStockCacheInvalidate(t *testing.T) {
	c := NewInMemoryStockCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	first := appinv.StockKey{ProductID: uuid.New(), LocationID: uuid.New()}
	second := appinv.StockKey{ProductID: uuid.New(), LocationID: uuid.New()}
	require.NoError(t, c.SetQuantity(ctx, first, decimal.NewFromInt(1)))
	require.NoError(t, c.SetQuantity(ctx, second, decimal.NewFromInt(2)))

	require.NoError(t, c.Invalidate(ctx, first))

	_, ok, err := c.GetQuantity(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.GetQuantity(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryStockCacheExpiry(t *testing.T) {
	c := NewInMemoryStockCache(10 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	key := appinv.StockKey{ProductID: uuid.New(), LocationID: uuid.New()}
	require.NoError(t, c.SetQuantity(ctx, key, decimal.NewFromInt(7)))

	time.Sleep(20 * time.Millisecond)
	_, ok, err := c.GetQuantity(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "expired entries must read as misses")
}

func TestInMemoryStockCacheCloseIsIdempotent(t *testing.T) {
	c := NewInMemoryStockCache(time.Minute)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
