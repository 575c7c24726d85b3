package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a thread-safe LRU from chunk value (by its decimal string)
// to decoded instruction. Get and Put always hand back/store deep
// copies, so no caller can corrupt a cached entry by mutating it.
type Cache struct {
	inner   *lru.Cache[string, *Instruction]
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a Cache with the given capacity.
func New(capacity int) *Cache {
	inner, err := lru.New[string, *Instruction](capacity)
	if err != nil {
		// capacity <= 0; fall back to a minimal usable cache rather than
		// propagating a constructor error through every caller.
		inner, _ = lru.New[string, *Instruction](1)
	}
	return &Cache{inner: inner}
}

// Get returns a deep copy of the cached instruction for key, if present.
func (c *Cache) Get(key string) (*Instruction, bool) {
	instr, ok := c.inner.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return instr.DeepCopy(), true
}

// Put stores a deep copy of instr under key, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *Cache) Put(key string, instr *Instruction) {
	c.inner.Add(key, instr.DeepCopy())
}

// Stats reports hit/miss/size counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Size    int
	HitRate float64
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses
	var rate float64
	if total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{Hits: hits, Misses: misses, Size: c.inner.Len(), HitRate: rate}
}
