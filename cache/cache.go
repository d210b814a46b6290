// Package cache is a small TTL cache with tag-based bulk invalidation.
// Entries live in a go-cache store; a tag index on top maps each tag to
// the keys it covers, so a mutation can bust every list that might contain
// a post without enumerating cache keys.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Cache struct {
	store *gocache.Cache

	mu   sync.Mutex
	tags map[string]map[string]struct{} // tag -> keys
	keys map[string][]string            // key -> tags
}

func New() *Cache {
	return &Cache{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
		tags:  make(map[string]map[string]struct{}),
		keys:  make(map[string][]string),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores value under key for ttl and registers it under the given
// tags. Index entries for keys that expire on their own are cleaned up
// lazily on the next invalidation of a shared tag; the key space here is
// small and rewritten constantly, so they never accumulate.
func (c *Cache) Set(key string, value any, ttl time.Duration, tags ...string) {
	c.store.Set(key, value, ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.unindex(key)
	c.keys[key] = tags
	for _, tag := range tags {
		if c.tags[tag] == nil {
			c.tags[tag] = make(map[string]struct{})
		}
		c.tags[tag][key] = struct{}{}
	}
}

// InvalidateTag drops every entry registered under tag. Entries carrying
// additional tags are removed from those too.
func (c *Cache) InvalidateTag(tag string) {
	c.mu.Lock()
	keys := make([]string, 0, len(c.tags[tag]))
	for key := range c.tags[tag] {
		keys = append(keys, key)
		c.unindex(key)
	}
	delete(c.tags, tag)
	c.mu.Unlock()

	for _, key := range keys {
		c.store.Delete(key)
	}
}

// Flush empties the cache entirely.
func (c *Cache) Flush() {
	c.mu.Lock()
	c.tags = make(map[string]map[string]struct{})
	c.keys = make(map[string][]string)
	c.mu.Unlock()
	c.store.Flush()
}

// unindex removes key from every tag set. Caller holds c.mu.
func (c *Cache) unindex(key string) {
	for _, tag := range c.keys[key] {
		delete(c.tags[tag], key)
		if len(c.tags[tag]) == 0 {
			delete(c.tags, tag)
		}
	}
	delete(c.keys, key)
}
