// Package closurecache provides the concurrent memo table for computed
// ancestor closures.
//
// The cache is append-only: entries are never evicted or overwritten with a
// different value. Values are pure functions of the immutable inputs, so a
// racing writer that recomputes a key stores a content-equal set and the last
// write wins without correctness loss. The cache is scoped to one build, so
// unbounded growth is bounded by the classpath of that build.
package closurecache

import (
	"hash/maphash"
	"sync"
	"sync/atomic"

	"github.com/typehier/typehier/typeset"
)

const numShards = 64

// Cache is a sharded concurrent map from type name to its computed closure.
// It distributes entries across 64 shards to reduce lock contention.
type Cache struct {
	shards [numShards]shard
	seed   maphash.Seed

	hits   atomic.Int64
	misses atomic.Int64
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]typeset.Set
}

// New creates an empty cache.
func New() *Cache {
	c := &Cache{
		seed: maphash.MakeSeed(),
	}
	for i := range numShards {
		c.shards[i].entries = make(map[string]typeset.Set)
	}
	return c
}

func (c *Cache) shard(name string) *shard {
	idx := maphash.String(c.seed, name) % numShards
	return &c.shards[idx]
}

// Get returns the cached closure for name. ok is false on a miss.
// The returned set must be treated as read-only.
func (c *Cache) Get(name string) (s typeset.Set, ok bool) {
	sh := c.shard(name)
	sh.mu.RLock()
	s, ok = sh.entries[name]
	sh.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return s, ok
}

// Put stores the closure for name. The caller must not mutate s afterwards.
// A concurrent Put for the same key is expected to carry a content-equal set;
// whichever write lands last stays.
func (c *Cache) Put(name string, s typeset.Set) {
	sh := c.shard(name)
	sh.mu.Lock()
	sh.entries[name] = s
	sh.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	total := 0
	for i := range numShards {
		sh := &c.shards[i]
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}

// Stats returns hit/miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
