package memorycache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/hayasaka/monban/pkg/cache"
)

// entry represents a cache entry with value and expiry metadata
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Cache implements an LRU cache with TTL support.
// This cache is simple, predictable, and maintainable.
type Cache struct {
	mu sync.RWMutex

	// LRU tracking
	items     map[string]*list.Element // key -> list element
	evictList *list.List               // front = most recent, back = least recent

	maxEntries int
	defaultTTL time.Duration

	metrics cacheMetrics
}

type cacheMetrics struct {
	hits        uint64
	misses      uint64
	keysAdded   uint64
	keysEvicted uint64
}

// Config holds configuration for the memory cache.
type Config struct {
	// MaxEntries is the maximum number of cached items. When the limit is
	// exceeded, least recently used items are evicted.
	MaxEntries int

	// DefaultTTL is the time-to-live applied when Set is called with a
	// non-positive ttl.
	DefaultTTL time.Duration
}

// New creates a new memory cache.
func New(cfg Config) *Cache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	return &Cache{
		items:      make(map[string]*list.Element),
		evictList:  list.New(),
		maxEntries: cfg.MaxEntries,
		defaultTTL: cfg.DefaultTTL,
	}
}

// Get retrieves a value from cache. Expired entries count as misses and are
// removed on access.
func (c *Cache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.metrics.misses++
		return nil, false
	}

	ent := elem.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		c.removeElement(elem)
		c.metrics.misses++
		return nil, false
	}

	c.evictList.MoveToFront(elem)
	c.metrics.hits++
	return ent.value, true
}

// Set stores a value in cache with TTL.
func (c *Cache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.expiresAt = time.Now().Add(ttl)
		c.evictList.MoveToFront(elem)
		return nil
	}

	elem := c.evictList.PushFront(&entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	c.items[key] = elem
	c.metrics.keysAdded++

	for len(c.items) > c.maxEntries {
		oldest := c.evictList.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.metrics.keysEvicted++
	}
	return nil
}

// Delete removes a value from cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Clear removes all entries from cache.
func (c *Cache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
	return nil
}

// Close releases resources held by the cache.
func (c *Cache) Close() error {
	return c.Clear(context.Background())
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Metrics returns cache statistics.
func (c *Cache) Metrics() *cache.Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &cache.Metrics{
		Hits:        c.metrics.hits,
		Misses:      c.metrics.misses,
		KeysAdded:   c.metrics.keysAdded,
		KeysEvicted: c.metrics.keysEvicted,
	}
}

// removeElement must be called with the write lock held.
func (c *Cache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	ent := elem.Value.(*entry)
	delete(c.items, ent.key)
}
