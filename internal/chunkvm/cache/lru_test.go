package cache

import (
	"math/big"
	"testing"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

func sampleInstruction() *Instruction {
	return &Instruction{Payload: []primes.Factor{{Prime: big.NewInt(2), Exponent: 4}}}
}

func TestCacheHitMissStats(t *testing.T) {
	c := New(4)
	if _, ok := c.Get("x"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put("x", sampleInstruction())
	if _, ok := c.Get("x"); !ok {
		t.Fatal("expected hit after put")
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCacheGetReturnsIndependentCopy(t *testing.T) {
	c := New(4)
	c.Put("x", sampleInstruction())
	got, _ := c.Get("x")
	got.Payload[0].Exponent = 999
	got.Payload[0].Prime.SetInt64(-1)

	again, _ := c.Get("x")
	if again.Payload[0].Exponent == 999 || again.Payload[0].Prime.Int64() == -1 {
		t.Fatal("mutating a returned instruction corrupted the cached copy")
	}
}

func TestCacheEvictsLRU(t *testing.T) {
	c := New(2)
	c.Put("a", sampleInstruction())
	c.Put("b", sampleInstruction())
	c.Put("c", sampleInstruction())
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected least-recently-used entry to be evicted")
	}
}
