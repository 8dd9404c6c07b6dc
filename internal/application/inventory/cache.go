package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockKey identifies one cached stock quantity
type StockKey struct {
	ProductID  uuid.UUID
	LocationID uuid.UUID
}

// StockCache is a read-through snapshot of on-hand quantities. It is an
// optimization only: the database rows stay authoritative and the engine
// invalidates touched keys after every commit.
type StockCache interface {
	// GetQuantity returns the cached quantity and whether the key was present
	GetQuantity(ctx context.Context, key StockKey) (decimal.Decimal, bool, error)
	// SetQuantity stores a quantity snapshot for the key
	SetQuantity(ctx context.Context, key StockKey, quantity decimal.Decimal) error
	// Invalidate drops the given keys from the cache
	Invalidate(ctx context.Context, keys ...StockKey) error
}

// NoOpStockCache satisfies StockCache without caching anything
type NoOpStockCache struct{}

// GetQuantity always misses
func (NoOpStockCache) GetQuantity(context.Context, StockKey) (decimal.Decimal, bool, error) {
	return decimal.Zero, false, nil
}

// SetQuantity does nothing
func (NoOpStockCache) SetQuantity(context.Context, StockKey, decimal.Decimal) error { return nil }

// Invalidate does nothing
func (NoOpStockCache) Invalidate(context.Context, ...StockKey) error { return nil }
