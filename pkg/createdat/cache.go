package createdat

import (
	"sync"
	"time"
)

// fingerprint identifies one version of a file's content.
type fingerprint struct {
	size    int64
	modTime time.Time
}

func (f fingerprint) matches(o fingerprint) bool {
	return f.size == o.size && f.modTime.Equal(o.modTime)
}

type cacheEntry struct {
	fp  fingerprint
	all []Result
}

// CacheStats counts lookups since the cache was created.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Cache keeps every source's result per path for the life of the process.
// An entry is ignored and replaced once the file's size or modification time
// changes. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    uint64
	misses  uint64
}

func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}}
}

func (c *Cache) get(path string, fp fingerprint) ([]Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok || !e.fp.matches(fp) {
		if ok {
			delete(c.entries, path)
		}
		c.misses++
		return nil, false
	}
	c.hits++
	return append([]Result(nil), e.all...), true
}

func (c *Cache) put(path string, fp fingerprint, all []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{fp: fp, all: append([]Result(nil), all...)}
}

// Evict drops the entry for path and reports whether one existed.
func (c *Cache) Evict(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[path]
	delete(c.entries, path)
	return ok
}

// Clear drops every entry. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cacheEntry{}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
