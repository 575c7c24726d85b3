package primes

import (
	"math/big"
	"testing"
)

func TestFactorCacheReturnsIndependentCopies(t *testing.T) {
	tbl := NewTable()
	cache := NewFactorCache(tbl, 1<<20)

	x := big.NewInt(360360)
	first, err := cache.Factor(x)
	if err != nil {
		t.Fatal(err)
	}
	first[0].Exponent = 999
	first[0].Prime.SetInt64(-1)

	second, err := cache.Factor(x)
	if err != nil {
		t.Fatal(err)
	}
	if second[0].Exponent == 999 || second[0].Prime.Int64() == -1 {
		t.Fatal("mutating a returned factorization corrupted the cached copy")
	}
	if reconstruct(second).Cmp(x) != 0 {
		t.Fatalf("cached factorization does not reconstruct %s", x)
	}
}
