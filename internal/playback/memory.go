package playback

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	url       string
	expiresAt time.Time
}

// MemoryCache is an in-memory URLCache used by unit tests. Expired
// entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), now: time.Now}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", ErrCacheMiss
	}
	return e.url, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, url string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{url: url, expiresAt: c.now().Add(ttl)}
	return nil
}

var _ URLCache = (*MemoryCache)(nil)
