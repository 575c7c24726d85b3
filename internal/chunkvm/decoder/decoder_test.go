package decoder

import (
	"math/big"
	"testing"

	"github.com/vybium/chunkvm/internal/chunkvm/cache"
	"github.com/vybium/chunkvm/internal/chunkvm/codec"
	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

func TestDecodeFlatProgram(t *testing.T) {
	table := primes.NewTable()
	ic := cache.New(64)
	fc := primes.NewFactorCache(table, 1<<16)

	chunks := []*big.Int{
		codec.EncodePush(table, 1),
		codec.EncodePush(table, 2),
		codec.EncodeBare(table, codec.IdxAdd),
		codec.EncodeBare(table, codec.IdxPrint),
	}

	decoded, err := Decode(fc, ic, chunks)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 4 {
		t.Fatalf("expected 4 decoded instructions, got %d", len(decoded))
	}
	for _, instr := range decoded {
		if instr.Children != nil {
			t.Fatalf("flat instruction should have no children: %+v", instr)
		}
	}
}

func TestDecodeReencodesToSameChunk(t *testing.T) {
	table := primes.NewTable()
	ic := cache.New(64)
	fc := primes.NewFactorCache(table, 1<<16)

	chunk := codec.EncodePush(table, 7)
	decoded, err := Decode(fc, ic, []*big.Int{chunk})
	if err != nil {
		t.Fatal(err)
	}
	reencoded := codec.AttachChecksum(table, decoded[0].Payload)
	if reencoded.Cmp(chunk) != 0 {
		t.Fatalf("re-encoded chunk = %s, want %s", reencoded, chunk)
	}
}

func TestDecodeBlockFraming(t *testing.T) {
	table := primes.NewTable()
	ic := cache.New(64)
	fc := primes.NewFactorCache(table, 1<<16)

	child1 := codec.EncodeBare(table, codec.IdxAdd)
	child2 := codec.EncodeBare(table, codec.IdxPrint)
	header := codec.EncodeBlock(table, 2)

	decoded, err := Decode(fc, ic, []*big.Int{header, child1, child2})
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected the block header to consume its children, got %d top-level instructions", len(decoded))
	}
	if len(decoded[0].Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(decoded[0].Children))
	}
}

func TestDecodeChecksumMismatch(t *testing.T) {
	table := primes.NewTable()
	ic := cache.New(64)
	fc := primes.NewFactorCache(table, 1<<16)

	chunk := codec.EncodeBare(table, codec.IdxAdd)
	tampered := new(big.Int).Mul(chunk, big.NewInt(7)) // corrupt the factorization

	_, err := Decode(fc, ic, []*big.Int{tampered})
	if err == nil {
		t.Fatal("expected a decode error for a tampered chunk")
	}
}

func TestDecodeUsesInstructionCache(t *testing.T) {
	table := primes.NewTable()
	ic := cache.New(64)
	fc := primes.NewFactorCache(table, 1<<16)

	chunk := codec.EncodeBare(table, codec.IdxNop)
	if _, err := Decode(fc, ic, []*big.Int{chunk}); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(fc, ic, []*big.Int{chunk}); err != nil {
		t.Fatal(err)
	}
	stats := ic.Stats()
	if stats.Hits == 0 {
		t.Fatalf("expected at least one cache hit across repeated decodes, got stats=%+v", stats)
	}
}
