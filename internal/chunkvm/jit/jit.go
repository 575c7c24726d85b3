// Package jit implements a generic structural-key compile cache. It
// has no dependency on the vm package: callers hand it the structural
// key and a closure to execute, and jit decides whether to run that
// closure directly (interpreted) or reuse a previously compiled one.
// This keeps the compilation direction one-way (vm -> jit) and avoids
// an import cycle back from jit into vm.
package jit

import (
	"sync"
	"time"
)

// Block is a compiled, directly runnable unit of VM work. It closes
// over whatever state the compiler captured at compile time and
// returns whatever output running it produces, so that compiling an
// instruction can never change what it emits.
type Block func() (string, error)

// entry is one cached compiled block plus its bookkeeping for TTL
// eviction and hotness tracking.
type entry struct {
	block    Block
	hits     int64
	expires  time.Time
}

// Compiler caches Blocks keyed by a caller-supplied structural key
// (typically a hash of the instruction sequence being compiled), with
// a hit counter per key and TTL-based eviction on lookup.
type Compiler struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration

	hits   int64
	misses int64
}

// NewCompiler returns a Compiler whose cached blocks expire after ttl
// since their last compile (ttl <= 0 disables expiry).
func NewCompiler(ttl time.Duration) *Compiler {
	return &Compiler{entries: make(map[string]*entry), ttl: ttl}
}

// Lookup returns a previously compiled Block for key, or false on a
// miss or expiry. A hit bumps the entry's hit counter.
func (c *Compiler) Lookup(key string) (Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.ttl > 0 && time.Now().After(e.expires) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	e.hits++
	c.hits++
	return e.block, true
}

// Compile stores compiled as the Block for key, replacing any existing
// entry and resetting its TTL.
func (c *Compiler) Compile(key string, compiled Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if c.ttl > 0 {
		exp = time.Now().Add(c.ttl)
	}
	c.entries[key] = &entry{block: compiled, expires: exp}
}

// Prune removes every expired entry and reports how many were removed.
func (c *Compiler) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ttl <= 0 {
		return 0
	}
	now := time.Now()
	removed := 0
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Stats reports aggregate cache hit/miss counts and current size.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

func (c *Compiler) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
}
