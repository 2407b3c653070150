// Package dedup caches completed replies so that a repeated submission of
// the same message within the TTL is answered from cache instead of being
// regenerated. Only completed requests are recognized: an identical
// request arriving while the first is still in flight goes through.
package dedup

import (
	"context"
	"sync"
	"time"

	"github.com/parlor-chat/parlor/internal/models"
)

const (
	defaultTTL       = time.Minute
	defaultKeyPrefix = 100 // first N characters of text used in the key
)

type cacheEntry struct {
	reply    models.Reply
	cachedAt time.Time
}

type cacheKey struct {
	userID string
	prefix string
}

// Options tune the cache. Zero fields take defaults.
type Options struct {
	TTL       time.Duration
	KeyPrefix int // characters of text included in the key

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Cache is a TTL-bounded reply cache keyed by (userID, text prefix).
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry

	ttl       time.Duration
	keyPrefix int
	now       func() time.Time
}

// New creates an empty cache.
func New(optFns ...func(o *Options)) *Cache {
	opts := Options{
		TTL:       defaultTTL,
		KeyPrefix: defaultKeyPrefix,
		Now:       time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Cache{
		entries:   make(map[cacheKey]cacheEntry),
		ttl:       opts.TTL,
		keyPrefix: opts.KeyPrefix,
		now:       opts.Now,
	}
}

func (c *Cache) key(userID, text string) cacheKey {
	if len(text) > c.keyPrefix {
		text = text[:c.keyPrefix]
	}
	return cacheKey{userID: userID, prefix: text}
}

// Get returns the cached reply for (userID, text) if one exists and was
// cached within the TTL. An entry past its TTL is treated as absent.
func (c *Cache) Get(userID, text string) (models.Reply, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[c.key(userID, text)]
	if !ok || c.now().Sub(e.cachedAt) > c.ttl {
		return models.Reply{}, false
	}
	return e.reply, true
}

// Put stores a completed reply for (userID, text).
func (c *Cache) Put(userID, text string, reply models.Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(userID, text)] = cacheEntry{reply: reply, cachedAt: c.now()}
}

// Sweep removes entries past their TTL.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.cachedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
}

// Run sweeps expired entries every TTL until ctx ends.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Size reports the number of cached entries, for stats.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
