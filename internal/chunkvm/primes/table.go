// Package primes implements the process-wide prime table, segmented
// sieve, and factorization used to encode and decode chunks.
package primes

import (
	"math/big"
	"sync"
)

const segmentSize = 32768

// Table is an append-only, thread-safe sequence of primes indexed from
// zero (index 0 -> 2, index 1 -> 3, ...), plus its reverse mapping.
// Once assigned, an index is never reused or reordered: primes found by
// extending the sieve are appended after whatever is already present,
// including any residual cofactors Observe recorded earlier, mirroring
// the reference sieve's tail-only growth.
type Table struct {
	mu          sync.RWMutex
	list        []*big.Int
	index       map[string]int
	sievePrimes []int64 // ascending, sieve-derived only; used as trial divisors
	sieveBound  int64
}

// NewTable returns a Table pre-seeded with a small initial sieve.
func NewTable() *Table {
	t := &Table{index: make(map[string]int)}
	t.mu.Lock()
	t.growSieveLocked(1024)
	t.mu.Unlock()
	return t
}

// NthPrime returns the prime at index i, extending the sieve if needed.
func (t *Table) NthPrime(i int) *big.Int {
	t.mu.Lock()
	for len(t.list) <= i {
		bound := t.sieveBound * 2
		if bound < 4 {
			bound = 4
		}
		t.growSieveLocked(bound)
	}
	p := new(big.Int).Set(t.list[i])
	t.mu.Unlock()
	return p
}

// PrimeIndex returns the index of p, if known.
func (t *Table) PrimeIndex(p *big.Int) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx, ok := t.index[p.String()]
	return idx, ok
}

// Observe records p as a known prime if not already present, appending
// it at the next free index, and returns its index. Used for residual
// cofactors surfaced by Factor that trial division against the sieve
// never reaches on its own.
func (t *Table) Observe(p *big.Int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(p)
}

func (t *Table) appendLocked(p *big.Int) int {
	key := p.String()
	if idx, ok := t.index[key]; ok {
		return idx
	}
	idx := len(t.list)
	t.list = append(t.list, new(big.Int).Set(p))
	t.index[key] = idx
	return idx
}

// growSieveLocked extends the sieve to cover every prime <= bound,
// appending newly found primes in ascending order. Callers must hold
// t.mu for writing.
func (t *Table) growSieveLocked(bound int64) {
	if bound < 2 || bound <= t.sieveBound {
		return
	}
	root := isqrt(bound)
	if root > t.sieveBound {
		t.growSieveLocked(root)
	}

	start := t.sieveBound + 1
	if start < 2 {
		start = 2
	}
	for start <= bound {
		end := start + segmentSize - 1
		if end > bound {
			end = bound
		}
		size := end - start + 1
		isComposite := make([]bool, size)
		for _, p := range t.sievePrimes {
			if p*p > end {
				break
			}
			s := ((start + p - 1) / p) * p
			if s < p*p {
				s = p * p
			}
			for j := s; j <= end; j += p {
				isComposite[j-start] = true
			}
		}
		for i := int64(0); i < size; i++ {
			if !isComposite[i] {
				n := start + i
				t.sievePrimes = append(t.sievePrimes, n)
				t.appendLocked(big.NewInt(n))
			}
		}
		t.sieveBound = end
		start = end + 1
	}
}

func isqrt(n int64) int64 {
	if n < 0 {
		return 0
	}
	return new(big.Int).Sqrt(big.NewInt(n)).Int64()
}
