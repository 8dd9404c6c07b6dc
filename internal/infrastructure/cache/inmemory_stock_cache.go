package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	appinv "github.com/warehouse/backend/internal/application/inventory"
)

type stockEntry struct {
	quantity  decimal.Decimal
	expiresAt time.Time
}

// InMemoryStockCache implements StockCache using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryStockCache struct {
	mu        sync.RWMutex
	entries   map[appinv.StockKey]stockEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStockCache creates a new in-memory stock cache. It starts a
// background goroutine that evicts expired entries.
func NewInMemoryStockCache(ttl time.Duration) *InMemoryStockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &InMemoryStockCache{
		entries:  make(map[appinv.StockKey]stockEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// GetQuantity returns the cached quantity and whether the key was present
func (c *InMemoryStockCache) GetQuantity(_ context.Context, key appinv.StockKey) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return decimal.Zero, false, nil
	}
	return e.quantity, true, nil
}

// SetQuantity stores a quantity snapshot for the key
func (c *InMemoryStockCache) SetQuantity(_ context.Context, key appinv.StockKey, quantity decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = stockEntry{
		quantity:  quantity,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the given keys
func (c *InMemoryStockCache) Invalidate(_ context.Context, keys ...appinv.StockKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryStockCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
	return nil
}

func (c *InMemoryStockCache) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *InMemoryStockCache) evictExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Ensure InMemoryStockCache implements StockCache
var _ appinv.StockCache = (*InMemoryStockCache)(nil)
