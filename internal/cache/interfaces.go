package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is the byte-level store behind CacheService
type Cache interface {
	// Get returns ErrKeyNotFound for a missing or expired key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key
	Delete(ctx context.Context, key string) error

	// DeletePattern removes every key matching a glob with * wildcards
	DeletePattern(ctx context.Context, pattern string) error

	// Close releases the backend
	Close() error

	// Stats returns cache statistics
	Stats() CacheStats
}

// CacheType names a cache backend
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// IsValid checks if the cache type is valid
func (ct CacheType) IsValid() bool {
	switch ct {
	case CacheTypeMemory, CacheTypeRedis:
		return true
	default:
		return false
	}
}

// CacheConfig holds configuration for cache instances
type CacheConfig struct {
	Enabled bool
	// TTL is the default time-to-live for cache entries
	TTL time.Duration
	// Prefix is added to all cache keys
	Prefix  string
	Backend CacheType
	// MaxMemory bounds the memory backend, in bytes
	MaxMemory       int64
	CleanupInterval time.Duration
	Redis           RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string
	Password     string
	Database     int
	PoolSize     int
	MinIdleConns int
	MaxConnAge   time.Duration
}

// CacheStats provides cache performance statistics
type CacheStats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRatio    float64 `json:"hit_ratio"`
	Keys        int64   `json:"keys"`
	MemoryUsage int64   `json:"memory_usage"`
	Evictions   int64   `json:"evictions"`
}

// Common cache errors
var (
	ErrKeyNotFound           = errors.New("key not found")
	ErrCacheUnavailable      = errors.New("cache unavailable")
	ErrInvalidCacheType      = errors.New("invalid cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")
)

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled:         true,
		TTL:             5 * time.Minute,
		Prefix:          "books:",
		Backend:         CacheTypeMemory,
		MaxMemory:       64 * 1024 * 1024,
		CleanupInterval: time.Minute,
		Redis: RedisConfig{
			Address:      "localhost:6379",
			PoolSize:     10,
			MinIdleConns: 2,
			MaxConnAge:   30 * time.Minute,
		},
	}
}
