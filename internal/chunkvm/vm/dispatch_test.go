package vm

import (
	"math/big"
	"testing"

	"github.com/vybium/chunkvm/internal/chunkvm/cache"
	"github.com/vybium/chunkvm/internal/chunkvm/codec"
	"github.com/vybium/chunkvm/internal/chunkvm/decoder"
	"github.com/vybium/chunkvm/internal/chunkvm/jit"
	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

func TestScenarioAddAndPrint(t *testing.T) {
	table := primes.NewTable()
	chunks := []*big.Int{
		codec.EncodePush(table, 1),
		codec.EncodePush(table, 2),
		codec.EncodeBare(table, codec.IdxAdd),
		codec.EncodeBare(table, codec.IdxPrint),
	}
	out, _, err := runAgainst(t, table, chunks, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3" {
		t.Fatalf("output = %q, want %q", out, "3")
	}
}

func TestScenarioCountdownLoop(t *testing.T) {
	table := primes.NewTable()
	chunks := []*big.Int{
		codec.EncodePush(table, 3),            // 0
		codec.EncodeAddrOp(table, codec.IdxStore, 0), // 1
		codec.EncodeAddrOp(table, codec.IdxLoad, 0),  // 2 (start)
		codec.EncodeSignedOffset(table, codec.IdxJz, 7), // 3
		codec.EncodeAddrOp(table, codec.IdxLoad, 0),  // 4
		codec.EncodeBare(table, codec.IdxPrint),      // 5
		codec.EncodeAddrOp(table, codec.IdxLoad, 0),  // 6
		codec.EncodePush(table, 1),             // 7
		codec.EncodeBare(table, codec.IdxSub),  // 8
		codec.EncodeAddrOp(table, codec.IdxStore, 0), // 9
		codec.EncodeSignedOffset(table, codec.IdxJmp, -9), // 10
	}
	out, _, err := runAgainst(t, table, chunks, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "321" {
		t.Fatalf("output = %q, want %q", out, "321")
	}
}

func TestScenarioDivisionByZero(t *testing.T) {
	table := primes.NewTable()
	chunks := []*big.Int{
		codec.EncodePush(table, 1),
		codec.EncodePush(table, 1),
		codec.EncodePush(table, 1),
		codec.EncodeBare(table, codec.IdxSub),
		codec.EncodeBare(table, codec.IdxDiv),
	}
	_, _, err := runAgainst(t, table, chunks, nil)
	execErr, ok := err.(*ExecError)
	if !ok {
		t.Fatalf("expected *ExecError, got %v", err)
	}
	if execErr.Kind != KindDivisionByZero || execErr.IP != 4 {
		t.Fatalf("got Kind=%v IP=%d, want DivisionByZero at IP 4", execErr.Kind, execErr.IP)
	}
}

func TestScenarioInputOutput(t *testing.T) {
	table := primes.NewTable()
	chunks := []*big.Int{
		codec.EncodeBare(table, codec.IdxInput),
		codec.EncodeBare(table, codec.IdxOutput),
	}
	out, machine, err := runAgainst(t, table, chunks, []int64{42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42" {
		t.Fatalf("output = %q, want %q", out, "42")
	}
	log := machine.Mem.OutputLog()
	if len(log) != 1 || log[0] != 42 {
		t.Fatalf("output log = %v, want [42]", log)
	}
}

func TestScenarioCallReturn(t *testing.T) {
	table := primes.NewTable()
	chunks := []*big.Int{
		codec.EncodePush(table, 5),                   // 0
		codec.EncodeBare(table, codec.IdxRet),         // 1 (no-op on first pass: call stack empty)
		codec.EncodePush(table, 2),                    // 2
		codec.EncodeSignedOffset(table, codec.IdxCall, -4), // 3
		codec.EncodeBare(table, codec.IdxAdd),         // 4
		codec.EncodeBare(table, codec.IdxPrint),       // 5
	}
	out, _, err := runAgainst(t, table, chunks, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "7" {
		t.Fatalf("output = %q, want %q", out, "7")
	}
}

func TestScenarioHashSignVerify(t *testing.T) {
	table := primes.NewTable()
	chunks := []*big.Int{
		codec.EncodePush(table, 10),
		codec.EncodeBare(table, codec.IdxHash),
		codec.EncodeBare(table, codec.IdxPrint),
		codec.EncodePush(table, 5),
		codec.EncodeBare(table, codec.IdxSign),
		codec.EncodePush(table, 5),
		codec.EncodeBare(table, codec.IdxVerify),
		codec.EncodeBare(table, codec.IdxPrint),
	}
	out, _, err := runAgainst(t, table, chunks, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) < 2 || out[len(out)-1] != '1' {
		t.Fatalf("output = %q, want it to end in %q", out, "1")
	}
}

func TestJITPreservesOutputSequence(t *testing.T) {
	table := primes.NewTable()
	chunks := []*big.Int{
		codec.EncodePush(table, 3),                        // 0
		codec.EncodeAddrOp(table, codec.IdxStore, 0),       // 1
		codec.EncodeAddrOp(table, codec.IdxLoad, 0),        // 2 (start)
		codec.EncodeSignedOffset(table, codec.IdxJz, 7),    // 3
		codec.EncodeAddrOp(table, codec.IdxLoad, 0),        // 4
		codec.EncodeBare(table, codec.IdxPrint),            // 5
		codec.EncodeAddrOp(table, codec.IdxLoad, 0),        // 6
		codec.EncodePush(table, 1),                         // 7
		codec.EncodeBare(table, codec.IdxSub),              // 8
		codec.EncodeAddrOp(table, codec.IdxStore, 0),       // 9
		codec.EncodeSignedOffset(table, codec.IdxJmp, -9),  // 10
	}

	interpreted, _, err := runWithJIT(t, table, chunks, nil, 0)
	if err != nil {
		t.Fatalf("interpreted run: %v", err)
	}

	jitted, _, err := runWithJIT(t, table, chunks, nil, 1)
	if err != nil {
		t.Fatalf("JIT run: %v", err)
	}

	if interpreted != jitted {
		t.Fatalf("JIT changed output: interpreted=%q jitted=%q", interpreted, jitted)
	}
	if interpreted != "321" {
		t.Fatalf("interpreted output = %q, want %q", interpreted, "321")
	}
}

func runWithJIT(t *testing.T, table *primes.Table, chunks []*big.Int, input []int64, jitThreshold int64) (string, *VM, error) {
	t.Helper()
	ic := cache.New(64)
	fc := primes.NewFactorCache(table, 1<<16)
	program, err := decoder.Decode(fc, ic, chunks)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var compiler *jit.Compiler
	if jitThreshold > 0 {
		compiler = jit.NewCompiler(0)
	}
	machine := New(Config{Table: table, Cache: ic, JIT: compiler, JITThreshold: jitThreshold})
	if input != nil {
		machine.Mem.SetInputQueue(input)
	}
	out, runErr := machine.Run(program)
	return out, machine, runErr
}

func runAgainst(t *testing.T, table *primes.Table, chunks []*big.Int, input []int64) (string, *VM, error) {
	t.Helper()
	ic := cache.New(64)
	fc := primes.NewFactorCache(table, 1<<16)
	program, err := decoder.Decode(fc, ic, chunks)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	machine := New(Config{Table: table, Cache: ic})
	if input != nil {
		machine.Mem.SetInputQueue(input)
	}
	out, runErr := machine.Run(program)
	return out, machine, runErr
}
