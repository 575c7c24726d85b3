package vm

import (
	"github.com/vybium/chunkvm/internal/chunkvm/codec"
	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// opcodeIndex reports the canonical index of payload's opcode factor
// (exponent 4), if any.
func opcodeIndex(table *primes.Table, payload []primes.Factor) (int, bool) {
	for _, f := range payload {
		if f.Exponent != 4 {
			continue
		}
		if idx, ok := table.PrimeIndex(f.Prime); ok {
			return idx, true
		}
	}
	return 0, false
}

// operand returns the unsigned, offset-adjusted operand value carried
// by payload, skipping the NEG_FLAG marker factor.
func operand(table *primes.Table, payload []primes.Factor) (int64, bool) {
	for _, f := range payload {
		if f.Exponent != 5 {
			continue
		}
		idx, ok := table.PrimeIndex(f.Prime)
		if !ok || idx == codec.IdxNegFlag {
			continue
		}
		return int64(idx - codec.DataOffset), true
	}
	return 0, false
}

// hasNegFlag reports whether payload carries the signed-offset
// negative marker.
func hasNegFlag(table *primes.Table, payload []primes.Factor) bool {
	for _, f := range payload {
		if f.Exponent != 5 {
			continue
		}
		if idx, ok := table.PrimeIndex(f.Prime); ok && idx == codec.IdxNegFlag {
			return true
		}
	}
	return false
}

// signedOperand combines operand and hasNegFlag into a signed value.
func signedOperand(table *primes.Table, payload []primes.Factor) (int64, bool) {
	v, ok := operand(table, payload)
	if !ok {
		return 0, false
	}
	if hasNegFlag(table, payload) {
		return -v, true
	}
	return v, true
}

// dataChar reports the code point of a raw (non-opcode) data chunk:
// the index of its exponent-2-or-3 factor.
func dataChar(table *primes.Table, payload []primes.Factor) (rune, bool) {
	for _, f := range payload {
		if f.Exponent == 2 || f.Exponent == 3 {
			if idx, ok := table.PrimeIndex(f.Prime); ok {
				return rune(idx), true
			}
		}
	}
	return 0, false
}
