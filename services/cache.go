package services

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value    MetadataResult
	storedAt time.Time
}

// MetadataCache is a process-local TTL cache for provider responses. Entries
// expire lazily: an expired entry is evicted on the Get that observes it, no
// background sweep. Unbounded; fine for a single-user deployment.
type MetadataCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewMetadataCache(ttl time.Duration) *MetadataCache {
	return &MetadataCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached value for key, or false if absent or expired.
func (c *MetadataCache) Get(key string) (MetadataResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return MetadataResult{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return MetadataResult{}, false
	}
	return entry.value, true
}

// Set stores value under key with the current timestamp, overwriting any
// prior entry.
func (c *MetadataCache) Set(key string, value MetadataResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
}

func (c *MetadataCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MetadataCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
