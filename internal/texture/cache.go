package texture

import (
	"context"
	"image"
	"sync"
)

// Cache is a concurrency-safe in-memory texture cache keyed by URL.
// A failed fetch is cached as nil so misses aren't re-fetched. The owner
// resets it when the selection context it served is gone.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	fetch *Fetcher
}

type cacheEntry struct {
	img *image.NRGBA // nil when the fetch failed
}

// NewCache creates a cache backed by the given fetcher.
func NewCache(f *Fetcher) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		fetch: f,
	}
}

// Resolve fetches and caches a texture by URL. Returns nil when the
// texture cannot be fetched or decoded; that outcome is cached too.
func (c *Cache) Resolve(ctx context.Context, url string) *image.NRGBA {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[url]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: fetch
	img, _ := c.fetch.Fetch(ctx, url)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[url]; exists {
		c.mu.Unlock()
		return entry.img
	}
	c.items[url] = &cacheEntry{img: img}
	c.mu.Unlock()

	return img
}

// Reset drops every cached texture.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.items = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
