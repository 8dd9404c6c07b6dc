package cache

import (
	"go.uber.org/zap"

	appinv "github.com/warehouse/backend/internal/application/inventory"
	"github.com/warehouse/backend/internal/infrastructure/config"
)

// StockCacheFactory creates stock caches based on configuration
type StockCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StockCacheFactoryOption is a functional option for configuring the factory
type StockCacheFactoryOption func(*StockCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StockCacheFactoryOption {
	return func(f *StockCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unreachable. Default is true.
func WithInMemoryFallback(allow bool) StockCacheFactoryOption {
	return func(f *StockCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStockCacheFactory creates a new factory
func NewStockCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...StockCacheFactoryOption) *StockCacheFactory {
	f := &StockCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the stock cache. Disabled caching yields the no-op cache;
// an unreachable Redis yields the in-memory cache when fallback is allowed
// and an error otherwise.
func (f *StockCacheFactory) Create() (appinv.StockCache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("stock cache disabled")
		return appinv.NoOpStockCache{}, nil
	}

	redisCache, err := NewRedisStockCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.cacheConfig.StockTTL)
	if err == nil {
		f.logger.Info("using Redis stock cache",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port))
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}
	f.logger.Warn("Redis unavailable, using in-memory stock cache", zap.Error(err))
	return NewInMemoryStockCache(f.cacheConfig.StockTTL), nil
}
