package primes

import (
	"math/big"
	"testing"
)

func TestNthPrime(t *testing.T) {
	tbl := NewTable()
	cases := []struct {
		idx  int
		want int64
	}{
		{0, 2}, {1, 3}, {2, 5}, {3, 7}, {4, 11}, {9, 29},
	}
	for _, c := range cases {
		got := tbl.NthPrime(c.idx)
		if got.Int64() != c.want {
			t.Fatalf("NthPrime(%d) = %s, want %d", c.idx, got, c.want)
		}
	}
}

func TestNthPrimeGrowsSieve(t *testing.T) {
	tbl := NewTable()
	p := tbl.NthPrime(5000)
	idx, ok := tbl.PrimeIndex(p)
	if !ok || idx != 5000 {
		t.Fatalf("PrimeIndex(NthPrime(5000)) = (%d, %v), want (5000, true)", idx, ok)
	}
}

func TestObserveAppendsNewPrime(t *testing.T) {
	tbl := NewTable()
	huge := new(big.Int)
	huge.SetString("1000000000000000000000000000057", 10)
	idx := tbl.Observe(huge)
	if got, ok := tbl.PrimeIndex(huge); !ok || got != idx {
		t.Fatalf("observed prime not retrievable at its own index")
	}
	again := tbl.Observe(huge)
	if again != idx {
		t.Fatalf("Observe should be idempotent, got %d want %d", again, idx)
	}
}

func TestObserveSurvivesSieveGrowth(t *testing.T) {
	tbl := NewTable()
	huge := new(big.Int)
	huge.SetString("999999999999999999999999999989", 10)
	idx := tbl.Observe(huge)
	// force the sieve to grow well past the table's current size
	tbl.NthPrime(20000)
	got, ok := tbl.PrimeIndex(huge)
	if !ok || got != idx {
		t.Fatalf("cofactor prime lost its index after sieve growth: got (%d,%v) want %d", got, ok, idx)
	}
}
