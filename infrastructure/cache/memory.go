// Package cache holds the in-process read-model cache used by the query bus.
package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryCache is a TTL cache; expired entries are invisible and swept periodically
type InMemoryCache struct {
	mu         sync.RWMutex
	items      map[string]cacheItem
	generation uint64
	now        func() time.Time
	stop       chan struct{}
	once       sync.Once
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewInMemoryCache creates a cache that sweeps expired entries every sweepInterval
func NewInMemoryCache(sweepInterval time.Duration) *InMemoryCache {
	cache := &InMemoryCache{
		items: make(map[string]cacheItem),
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	if sweepInterval > 0 {
		go cache.sweepLoop(sweepInterval)
	}

	return cache
}

// Get retrieves a value from cache
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || !c.now().Before(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Set stores a value for ttl; a non-positive ttl stores nothing
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Generation returns a counter that advances on every Clear
func (c *InMemoryCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// SetIfGeneration stores value only when no Clear has happened since gen was read.
// It reports whether the value was stored.
func (c *InMemoryCache) SetIfGeneration(ctx context.Context, key string, value interface{}, ttl time.Duration, gen uint64) bool {
	if ttl <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return false
	}
	c.items[key] = cacheItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	return true
}

// Delete removes a value from cache
func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Clear removes all values from cache
func (c *InMemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]cacheItem)
	c.generation++
	return nil
}

// Len reports the number of stored entries, expired ones included
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper
func (c *InMemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *InMemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *InMemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
		}
	}
}
