package cache

import "fmt"

// NewCache builds the backend named by config.Backend
func NewCache(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}
	if !config.Backend.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCacheType, config.Backend)
	}

	switch config.Backend {
	case CacheTypeRedis:
		return NewRedisCache(config)
	default:
		return NewMemoryCache(config), nil
	}
}
