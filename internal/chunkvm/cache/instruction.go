// Package cache implements the thread-safe LRU cache from chunk value
// to decoded instruction, and the Instruction type it stores.
package cache

import (
	"math/big"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// Instruction is a decoded chunk: its checksum-peeled payload factors,
// and, for framing chunks (BLOCK/NTT headers), the owned sequence of
// decoded children.
type Instruction struct {
	Payload  []primes.Factor
	Children []*Instruction
}

// DeepCopy returns an independent copy of the instruction tree, so a
// caller mutating the result cannot corrupt a cached entry.
func (i *Instruction) DeepCopy() *Instruction {
	if i == nil {
		return nil
	}
	out := &Instruction{Payload: make([]primes.Factor, len(i.Payload))}
	for idx, f := range i.Payload {
		out.Payload[idx] = primes.Factor{Prime: new(big.Int).Set(f.Prime), Exponent: f.Exponent}
	}
	if i.Children != nil {
		out.Children = make([]*Instruction, len(i.Children))
		for idx, c := range i.Children {
			out.Children[idx] = c.DeepCopy()
		}
	}
	return out
}
