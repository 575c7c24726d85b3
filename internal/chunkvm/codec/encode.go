package codec

import (
	"math/big"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// EncodeData encodes a raw data character cp at position p: prime_p *
// prime_cp^2, collapsing to prime_p^3 when p == cp.
func EncodeData(table *primes.Table, pos, cp int) *big.Int {
	p1 := table.NthPrime(pos)
	p2 := table.NthPrime(cp)
	if p1.Cmp(p2) == 0 {
		return AttachChecksum(table, []primes.Factor{{Prime: p1, Exponent: 3}})
	}
	return AttachChecksum(table, []primes.Factor{{Prime: p1, Exponent: 1}, {Prime: p2, Exponent: 2}})
}

// EncodeBare encodes an opcode that takes no operand.
func EncodeBare(table *primes.Table, opcodeIdx int) *big.Int {
	op := table.NthPrime(opcodeIdx)
	return AttachChecksum(table, []primes.Factor{{Prime: op, Exponent: 4}})
}

// EncodePush encodes PUSH v, v >= 0.
func EncodePush(table *primes.Table, v int) *big.Int {
	op := table.NthPrime(IdxPush)
	operand := table.NthPrime(v + DataOffset)
	return AttachChecksum(table, []primes.Factor{{Prime: op, Exponent: 4}, {Prime: operand, Exponent: 5}})
}

// EncodeAddrOp encodes an opcode carrying one unsigned address operand
// (LOAD, STORE, ALLOC, FREE).
func EncodeAddrOp(table *primes.Table, opcodeIdx, addr int) *big.Int {
	op := table.NthPrime(opcodeIdx)
	operand := table.NthPrime(addr + DataOffset)
	return AttachChecksum(table, []primes.Factor{{Prime: op, Exponent: 4}, {Prime: operand, Exponent: 5}})
}

// EncodeSignedOffset encodes an opcode carrying one signed offset
// operand (JMP, JZ, JNZ, CALL), attaching NEG_FLAG when offset < 0.
func EncodeSignedOffset(table *primes.Table, opcodeIdx, offset int) *big.Int {
	op := table.NthPrime(opcodeIdx)
	abs := offset
	negative := offset < 0
	if negative {
		abs = -offset
	}
	operand := table.NthPrime(abs + DataOffset)
	factors := []primes.Factor{{Prime: op, Exponent: 4}, {Prime: operand, Exponent: 5}}
	if negative {
		factors = append(factors, primes.Factor{Prime: table.NthPrime(IdxNegFlag), Exponent: 5})
	}
	return AttachChecksum(table, factors)
}

// EncodeBlock encodes a BLOCK framing header over n children.
func EncodeBlock(table *primes.Table, n int) *big.Int {
	tag := table.NthPrime(IdxBlockTag)
	length := table.NthPrime(n)
	return AttachChecksum(table, []primes.Factor{{Prime: tag, Exponent: 7}, {Prime: length, Exponent: 5}})
}

// EncodeNTT encodes an NTT framing header over n children.
func EncodeNTT(table *primes.Table, n int) *big.Int {
	tag := table.NthPrime(IdxNTTTag)
	length := table.NthPrime(n)
	return AttachChecksum(table, []primes.Factor{{Prime: tag, Exponent: 4}, {Prime: length, Exponent: 5}})
}
