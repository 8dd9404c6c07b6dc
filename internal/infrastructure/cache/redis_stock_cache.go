package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	appinv "github.com/warehouse/backend/internal/application/inventory"
)

const stockKeyPrefix = "stock:qty:"

// RedisStockCache implements StockCache on Redis. Suitable for deployments
// where several instances answer stock queries against one database.
type RedisStockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisStockCache creates a new Redis-backed stock cache
func NewRedisStockCache(cfg RedisConfig, ttl time.Duration) (*RedisStockCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStockCacheWithClient(client, ttl), nil
}

// NewRedisStockCacheWithClient creates a cache over an existing client
func NewRedisStockCacheWithClient(client *redis.Client, ttl time.Duration) *RedisStockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStockCache{client: client, ttl: ttl}
}

// GetQuantity returns the cached quantity and whether the key was present
func (c *RedisStockCache) GetQuantity(ctx context.Context, key appinv.StockKey) (decimal.Decimal, bool, error) {
	value, err := c.client.Get(ctx, c.redisKey(key)).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	qty, err := decimal.NewFromString(value)
	if err != nil {
		// drop the corrupt entry and report a miss
		_ = c.client.Del(ctx, c.redisKey(key)).Err()
		return decimal.Zero, false, nil
	}
	return qty, true, nil
}

// SetQuantity stores a quantity snapshot with the configured TTL
func (c *RedisStockCache) SetQuantity(ctx context.Context, key appinv.StockKey, quantity decimal.Decimal) error {
	return c.client.Set(ctx, c.redisKey(key), quantity.String(), c.ttl).Err()
}

// Invalidate drops the given keys
func (c *RedisStockCache) Invalidate(ctx context.Context, keys ...appinv.StockKey) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = c.redisKey(key)
	}
	return c.client.Del(ctx, redisKeys...).Err()
}

// Close releases the underlying client
func (c *RedisStockCache) Close() error {
	return c.client.Close()
}

func (c *RedisStockCache) redisKey(key appinv.StockKey) string {
	return stockKeyPrefix + key.ProductID.String() + ":" + key.LocationID.String()
}

// Ensure RedisStockCache implements StockCache
var _ appinv.StockCache = (*RedisStockCache)(nil)
