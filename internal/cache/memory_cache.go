package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type cacheItem struct {
	value      []byte
	expiration time.Time
}

func (i *cacheItem) size(key string) int64 {
	return int64(len(key) + len(i.value) + 64)
}

// MemoryCache implements Cache in process
type MemoryCache struct {
	mutex         sync.RWMutex
	items         map[string]*cacheItem
	maxMemory     int64
	currentMemory int64
	hits          int64
	misses        int64
	evictions     int64
	done          chan struct{}
	closeOnce     sync.Once
}

// NewMemoryCache creates a memory cache and starts its expiry sweeper
func NewMemoryCache(config *CacheConfig) *MemoryCache {
	if config == nil {
		config = DefaultCacheConfig()
	}
	c := &MemoryCache{
		items:     make(map[string]*cacheItem),
		maxMemory: config.MaxMemory,
		done:      make(chan struct{}),
	}
	interval := config.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	go c.sweep(interval)
	return c
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	item, ok := c.items[key]
	c.mutex.RUnlock()

	if !ok || time.Now().After(item.expiration) {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a value in cache with expiration
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	item := &cacheItem{
		value:      append([]byte(nil), value...),
		expiration: time.Now().Add(ttl),
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	select {
	case <-c.done:
		return ErrCacheDisabled
	default:
	}

	c.removeLocked(key)
	c.items[key] = item
	c.currentMemory += item.size(key)
	c.evictLocked(key)
	return nil
}

// Delete removes a value from cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.removeLocked(key)
	return nil
}

// DeletePattern removes all keys matching the given pattern
func (c *MemoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key := range c.items {
		if matchPattern(key, pattern) {
			c.removeLocked(key)
		}
	}
	return nil
}

// Close stops the sweeper and drops every entry
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mutex.Lock()
		c.items = make(map[string]*cacheItem)
		c.currentMemory = 0
		c.mutex.Unlock()
	})
	return nil
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	var active int64
	for _, item := range c.items {
		if !now.After(item.expiration) {
			active++
		}
	}

	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	hitRatio := 0.0
	if hits+misses > 0 {
		hitRatio = float64(hits) / float64(hits+misses)
	}

	return CacheStats{
		Hits:        hits,
		Misses:      misses,
		HitRatio:    hitRatio,
		Keys:        active,
		MemoryUsage: c.currentMemory,
		Evictions:   atomic.LoadInt64(&c.evictions),
	}
}

func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expiration) {
					c.removeLocked(key)
				}
			}
			c.mutex.Unlock()
		case <-c.done:
			return
		}
	}
}

func (c *MemoryCache) removeLocked(key string) {
	if item, ok := c.items[key]; ok {
		delete(c.items, key)
		c.currentMemory -= item.size(key)
	}
}

// evictLocked drops expired entries, then arbitrary ones, until under
// maxMemory. The entry just written is kept.
func (c *MemoryCache) evictLocked(keep string) {
	if c.maxMemory <= 0 || c.currentMemory <= c.maxMemory {
		return
	}
	now := time.Now()
	for key, item := range c.items {
		if key != keep && now.After(item.expiration) {
			c.removeLocked(key)
			atomic.AddInt64(&c.evictions, 1)
		}
	}
	for key := range c.items {
		if c.currentMemory <= c.maxMemory {
			return
		}
		if key != keep {
			c.removeLocked(key)
			atomic.AddInt64(&c.evictions, 1)
		}
	}
}

// matchPattern implements glob matching with * wildcards
func matchPattern(text, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return text == pattern
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(text, parts[0]) {
		return false
	}
	pos := len(parts[0])
	for _, part := range parts[1 : len(parts)-1] {
		i := strings.Index(text[pos:], part)
		if i < 0 {
			return false
		}
		pos += i + len(part)
	}
	last := parts[len(parts)-1]
	return len(text)-pos >= len(last) && strings.HasSuffix(text, last)
}
