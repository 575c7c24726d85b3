package codec

import (
	"math/big"
	"testing"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

func TestEncodePushFactorsCleanly(t *testing.T) {
	table := primes.NewTable()
	chunk := EncodePush(table, 3)

	factors, err := table.Factor(chunk)
	if err != nil {
		t.Fatal(err)
	}

	var xor int
	var checksumPrime *big.Int
	var payload []primes.Factor
	for _, f := range factors {
		if f.Exponent >= 6 {
			checksumPrime = f.Prime
			continue
		}
		idx, _ := table.PrimeIndex(f.Prime)
		xor ^= idx * f.Exponent
		payload = append(payload, f)
	}
	if checksumPrime == nil {
		t.Fatal("no checksum factor found")
	}
	want := table.NthPrime(xor)
	if checksumPrime.Cmp(want) != 0 {
		t.Fatalf("checksum prime = %s, want %s", checksumPrime, want)
	}
	if len(payload) != 2 {
		t.Fatalf("expected opcode+operand payload, got %v", payload)
	}
}

func TestEncodeDataCollapsesWhenEqual(t *testing.T) {
	table := primes.NewTable()
	chunk := EncodeData(table, 5, 5)
	factors, err := table.Factor(chunk)
	if err != nil {
		t.Fatal(err)
	}
	var sawCubed bool
	for _, f := range factors {
		if f.Exponent == 3 {
			sawCubed = true
		}
	}
	if !sawCubed {
		t.Fatalf("expected a cubed payload factor when pos == cp, got %v", factors)
	}
}
