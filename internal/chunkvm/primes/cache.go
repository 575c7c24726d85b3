package primes

import (
	"bytes"
	"encoding/gob"
	"math/big"

	"github.com/VictoriaMetrics/fastcache"
)

// FactorCache memoizes Table.Factor results. It is backed by an
// mmap-friendly byte cache rather than a plain map: gob round-tripping
// through bytes on every Get makes an independent copy unconditionally,
// so a caller mutating the returned slice can never corrupt the cached
// entry.
type FactorCache struct {
	table *Table
	bytes *fastcache.Cache
}

// NewFactorCache creates a cache backed by maxBytes of storage.
func NewFactorCache(table *Table, maxBytes int) *FactorCache {
	return &FactorCache{table: table, bytes: fastcache.New(maxBytes)}
}

// Table returns the prime table this cache memoizes factorizations
// against, for callers that need both the cache and the table's other
// operations (index lookup, observation, NthPrime).
func (c *FactorCache) Table() *Table { return c.table }

// Factor returns the factorization of x, using the memoized entry if
// present and populating it otherwise.
func (c *FactorCache) Factor(x *big.Int) ([]Factor, error) {
	key := x.Bytes()
	if raw, ok := c.bytes.HasGet(nil, key); ok {
		factors, err := decodeFactors(raw)
		if err == nil {
			return factors, nil
		}
	}
	factors, err := c.table.Factor(x)
	if err != nil {
		return nil, err
	}
	if raw, err := encodeFactors(factors); err == nil {
		c.bytes.Set(key, raw)
	}
	return factors, nil
}

// Stats exposes the underlying cache's entry/byte counters.
func (c *FactorCache) Stats() fastcache.Stats {
	var st fastcache.Stats
	c.bytes.UpdateStats(&st)
	return st
}

func encodeFactors(factors []Factor) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(factors); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFactors(raw []byte) ([]Factor, error) {
	var factors []Factor
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&factors); err != nil {
		return nil, err
	}
	return factors, nil
}
