package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ComputeFunc produces the value for a key on a cache miss.
type ComputeFunc func(ctx context.Context) (interface{}, error)

// Key builds a cache key from a query kind and its parameters.
func Key(kind string, params ...interface{}) string {
	key := kind
	for _, p := range params {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

type entry struct {
	mu         sync.Mutex
	value      interface{}
	computedAt time.Time
	valid      bool
}

// Cache is a read-through TTL cache for expensive aggregate queries. Each key
// owns its own entry lock: a miss recomputes exactly once while concurrent
// callers for the same key wait for the result, and different keys never
// contend with each other.
//
// There is no bound on key cardinality beyond TTL staleness. Callers must not
// feed it attacker-controlled parameter spaces.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Lookup returns the cached value for key, recomputing it through compute
// when absent or older than the TTL. The second return reports whether this
// was a cache hit.
func (c *Cache) Lookup(ctx context.Context, key string, compute ComputeFunc) (interface{}, bool, error) {
	e := c.entryFor(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.valid && c.now().Sub(e.computedAt) < c.ttl {
		return e.value, true, nil
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}

	e.value = value
	e.computedAt = c.now()
	e.valid = true
	return value, false, nil
}

// entryFor returns the entry for key, creating it under the map lock. The map
// lock is held only for the lookup, never across a recompute.
func (c *Cache) entryFor(key string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}
