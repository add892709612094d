package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/qolzam/bookcatalog/internal/pkg/log"
)

// CacheService stores JSON-encoded values under prefixed keys
type CacheService struct {
	cache  Cache
	config *CacheConfig

	hits    int64
	misses  int64
	errors  int64
	sets    int64
	deletes int64
}

// NewCacheService wraps cache. A nil cache or a disabled config yields a
// service whose operations all return ErrCacheDisabled.
func NewCacheService(cache Cache, config *CacheConfig) *CacheService {
	if config == nil {
		config = DefaultCacheConfig()
	}
	return &CacheService{cache: cache, config: config}
}

// GetCached decodes the value at key into target
func (s *CacheService) GetCached(ctx context.Context, key string, target interface{}) error {
	if !s.IsEnabled() {
		atomic.AddInt64(&s.misses, 1)
		return ErrCacheDisabled
	}

	fullKey := s.buildKey(key)
	data, err := s.cache.Get(ctx, fullKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			atomic.AddInt64(&s.misses, 1)
		} else {
			atomic.AddInt64(&s.errors, 1)
			log.ErrorWithContext(ctx, "Cache get error for key %s: %v", fullKey, err)
		}
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		atomic.AddInt64(&s.errors, 1)
		log.ErrorWithContext(ctx, "Cache data unmarshal error for key %s: %v", fullKey, err)
		return fmt.Errorf("%w: %v", ErrDeserializationFailed, err)
	}

	atomic.AddInt64(&s.hits, 1)
	return nil
}

// CacheData encodes data and stores it at key. The configured TTL applies
// unless a positive ttl is passed.
func (s *CacheService) CacheData(ctx context.Context, key string, data interface{}, ttl ...time.Duration) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}

	cacheTTL := s.config.TTL
	if len(ttl) > 0 && ttl[0] > 0 {
		cacheTTL = ttl[0]
	}

	payload, err := json.Marshal(data)
	if err != nil {
		atomic.AddInt64(&s.errors, 1)
		log.ErrorWithContext(ctx, "Cache data marshal error for key %s: %v", key, err)
		return fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}

	fullKey := s.buildKey(key)
	if err := s.cache.Set(ctx, fullKey, payload, cacheTTL); err != nil {
		atomic.AddInt64(&s.errors, 1)
		log.ErrorWithContext(ctx, "Cache set error for key %s: %v", fullKey, err)
		return err
	}

	atomic.AddInt64(&s.sets, 1)
	return nil
}

// InvalidatePattern removes every key matching pattern
func (s *CacheService) InvalidatePattern(ctx context.Context, pattern string) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}

	fullPattern := s.buildKey(pattern)
	if err := s.cache.DeletePattern(ctx, fullPattern); err != nil {
		atomic.AddInt64(&s.errors, 1)
		log.ErrorWithContext(ctx, "Cache pattern invalidation error for pattern %s: %v", fullPattern, err)
		return err
	}

	atomic.AddInt64(&s.deletes, 1)
	return nil
}

// InvalidateKey removes a single key
func (s *CacheService) InvalidateKey(ctx context.Context, key string) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}

	fullKey := s.buildKey(key)
	if err := s.cache.Delete(ctx, fullKey); err != nil {
		atomic.AddInt64(&s.errors, 1)
		log.ErrorWithContext(ctx, "Cache key invalidation error for key %s: %v", fullKey, err)
		return err
	}

	atomic.AddInt64(&s.deletes, 1)
	return nil
}

// GenerateHashKey derives a deterministic key from prefix and params.
// Parameter order does not matter.
func (s *CacheService) GenerateHashKey(prefix string, params map[string]interface{}) string {
	h := sha256.New()
	h.Write([]byte(prefix + ":"))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var value string
		switch v := params[k].(type) {
		case string:
			value = v
		case nil:
			value = "nil"
		default:
			if encoded, err := json.Marshal(v); err == nil {
				value = string(encoded)
			} else {
				value = fmt.Sprintf("%v", v)
			}
		}
		h.Write([]byte(k + "=" + value + ";"))
	}

	return prefix + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// GetStats merges service counters with backend figures
func (s *CacheService) GetStats() CacheStats {
	var backend CacheStats
	if s.cache != nil {
		backend = s.cache.Stats()
	}

	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)
	hitRatio := 0.0
	if hits+misses > 0 {
		hitRatio = float64(hits) / float64(hits+misses)
	}

	return CacheStats{
		Hits:        hits,
		Misses:      misses,
		HitRatio:    hitRatio,
		Keys:        backend.Keys,
		MemoryUsage: backend.MemoryUsage,
		Evictions:   backend.Evictions,
	}
}

// Close closes the backend
func (s *CacheService) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// IsEnabled reports whether caching is active
func (s *CacheService) IsEnabled() bool {
	return s != nil && s.config.Enabled && s.cache != nil
}

func (s *CacheService) buildKey(key string) string {
	if s.config.Prefix == "" {
		return key
	}
	prefix := s.config.Prefix
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefix + key
}
