// Package decoder turns a flat sequence of chunk integers into a tree
// of decoded instructions, peeling checksums and splicing BLOCK/NTT
// framing headers' children in place.
package decoder

import (
	"math/big"

	"github.com/vybium/chunkvm/internal/chunkvm/cache"
	"github.com/vybium/chunkvm/internal/chunkvm/codec"
	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// Decode scans chunks from index 0 until exhausted, per spec §4.4.
// Decoding failures are fatal: the first error aborts the whole scan.
// Factorization goes through fc, so repeated or repeated-across-run
// decodes of the same chunk value never re-run trial division (spec
// §4.1's factor cache).
func Decode(fc *primes.FactorCache, ic *cache.Cache, chunks []*big.Int) ([]*cache.Instruction, error) {
	var result []*cache.Instruction
	ip := 0
	for ip < len(chunks) {
		instr, err := decodeSingle(fc, ic, chunks[ip])
		ip++
		if err != nil {
			return nil, err
		}

		table := fc.Table()
		if n, ok := frameLength(table, instr.Payload, codec.IdxBlockTag, 7); ok {
			children, newIP, err := decodeFramed(fc, ic, chunks, ip, n)
			if err != nil {
				return nil, err
			}
			instr.Children = children
			ip = newIP
		} else if n, ok := frameLength(table, instr.Payload, codec.IdxNTTTag, 4); ok {
			children, newIP, err := decodeFramed(fc, ic, chunks, ip, n)
			if err != nil {
				return nil, err
			}
			instr.Children = children
			ip = newIP
		}

		result = append(result, instr)
	}
	return result, nil
}

func decodeFramed(fc *primes.FactorCache, ic *cache.Cache, chunks []*big.Int, ip, n int) ([]*cache.Instruction, int, error) {
	end := ip + n
	if end > len(chunks) {
		return nil, ip, &DecodeError{Kind: KindBadData, Message: "framing header names more children than remain in the stream"}
	}
	children, err := Decode(fc, ic, chunks[ip:end])
	if err != nil {
		return nil, ip, err
	}
	return children, end, nil
}

// decodeSingle peels a single chunk's checksum and returns its payload,
// consulting/populating the instruction cache keyed by the chunk's
// decimal value. Children are never cached here: they depend on the
// chunks that follow in the stream, not on this chunk's value alone.
func decodeSingle(fc *primes.FactorCache, ic *cache.Cache, chunk *big.Int) (*cache.Instruction, error) {
	key := chunk.String()
	if cached, ok := ic.Get(key); ok {
		return cached, nil
	}

	table := fc.Table()
	factors, err := fc.Factor(chunk)
	if err != nil {
		return nil, &DecodeError{Kind: KindBadData, Message: err.Error()}
	}

	var payload []primes.Factor
	haveChecksum := false
	checksumIdx := 0

	for _, f := range factors {
		idx, ok := table.PrimeIndex(f.Prime)
		if !ok {
			idx = table.Observe(f.Prime)
		}
		if f.Exponent >= 6 {
			if idx == codec.IdxBlockTag && f.Exponent == 7 {
				payload = append(payload, f)
				continue
			}
			if haveChecksum {
				return nil, &DecodeError{Kind: KindChecksumMismatch, Message: "duplicate checksum factor"}
			}
			haveChecksum = true
			checksumIdx = idx
			if remaining := f.Exponent - 6; remaining > 0 {
				payload = append(payload, primes.Factor{Prime: f.Prime, Exponent: remaining})
			}
			continue
		}
		payload = append(payload, f)
	}

	if !haveChecksum {
		return nil, &DecodeError{Kind: KindChecksumMissing, Message: "no checksum factor present"}
	}

	xor := 0
	for _, f := range payload {
		idx, ok := table.PrimeIndex(f.Prime)
		if !ok {
			idx = table.Observe(f.Prime)
		}
		xor ^= idx * f.Exponent
	}
	if xor != checksumIdx {
		return nil, &DecodeError{Kind: KindChecksumMismatch, Message: "checksum does not match payload XOR"}
	}

	instr := &cache.Instruction{Payload: payload}
	ic.Put(key, instr)
	return instr, nil
}

// frameLength reports whether payload carries the (tagIdx, tagExp)
// framing marker, and if so, the index of its companion length prime.
func frameLength(table *primes.Table, payload []primes.Factor, tagIdx, tagExp int) (int, bool) {
	var tagPrime *big.Int
	found := false
	for _, f := range payload {
		idx, ok := table.PrimeIndex(f.Prime)
		if ok && idx == tagIdx && f.Exponent == tagExp {
			tagPrime = f.Prime
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}
	for _, f := range payload {
		if f.Exponent == 5 && f.Prime.Cmp(tagPrime) != 0 {
			idx, ok := table.PrimeIndex(f.Prime)
			if ok {
				return idx, true
			}
		}
	}
	return 0, false
}
