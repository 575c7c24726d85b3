package codec

import (
	"math/big"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// AttachChecksum computes the XOR digest of (prime-index * exponent)
// across factors, attaches it as a checksum prime raised to the 6th
// power, and returns the resulting chunk integer.
func AttachChecksum(table *primes.Table, factors []primes.Factor) *big.Int {
	xor := 0
	for _, f := range factors {
		idx, ok := table.PrimeIndex(f.Prime)
		if !ok {
			idx = table.Observe(f.Prime)
		}
		xor ^= idx * f.Exponent
	}
	chk := table.NthPrime(xor)

	raw := big.NewInt(1)
	for _, f := range factors {
		raw.Mul(raw, new(big.Int).Exp(f.Prime, big.NewInt(int64(f.Exponent)), nil))
	}
	raw.Mul(raw, new(big.Int).Exp(chk, big.NewInt(6), nil))
	return raw
}
