package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/traveleasy/gate/core"
)

const (
	DefaultTTL     = 5 * time.Minute
	DefaultMaxSize = 500
)

var _ core.CacheWithStats = (*InMemoryCache)(nil)

// InMemoryCache is a process-local read cache of sessions keyed by token hash.
// When full, the oldest entry is evicted.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedSession
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	deletes   atomic.Int64
	evictions atomic.Int64
}

type cachedSession struct {
	session  core.Session
	cachedAt time.Time
}

// NewInMemoryCache applies DefaultTTL and DefaultMaxSize to zero fields.
func NewInMemoryCache(c core.CacheConfig) *InMemoryCache {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}

	return &InMemoryCache{
		entries: make(map[string]cachedSession),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
		now:     time.Now,
	}
}

// Get returns a copy of the cached session, or core.ErrCacheNotFound when
// absent or older than the TTL.
func (c *InMemoryCache) Get(tokenHash string) (*core.Session, error) {
	c.mu.RLock()
	entry, ok := c.entries[tokenHash]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, core.ErrCacheNotFound
	}

	if c.now().Sub(entry.cachedAt) > c.ttl {
		c.misses.Add(1)
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed it
		if current, ok := c.entries[tokenHash]; ok && current.cachedAt.Equal(entry.cachedAt) {
			delete(c.entries, tokenHash)
		}
		c.mu.Unlock()
		return nil, core.ErrCacheNotFound
	}

	c.hits.Add(1)
	s := entry.session
	return &s, nil
}

func (c *InMemoryCache) Set(tokenHash string, session *core.Session) error {
	if session == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[tokenHash]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[tokenHash] = cachedSession{session: *session, cachedAt: c.now()}
	c.sets.Add(1)
	return nil
}

// evictOldest must be called with mu held.
func (c *InMemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.cachedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.cachedAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
		c.evictions.Add(1)
	}
}

func (c *InMemoryCache) Delete(tokenHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[tokenHash]; ok {
		delete(c.entries, tokenHash)
		c.deletes.Add(1)
	}
	return nil
}

func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryCache) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Sets:      c.sets.Load(),
		Deletes:   c.deletes.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
