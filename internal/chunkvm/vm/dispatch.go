package vm

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/vybium/chunkvm/internal/chunkvm/cache"
	"github.com/vybium/chunkvm/internal/chunkvm/codec"
	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// Handler executes one decoded opcode's payload against vm, returning
// any output text it produced.
type Handler func(vm *VM, payload []primes.Factor) (string, error)

var handlers = map[int]Handler{
	codec.IdxPush: opPush,

	codec.IdxAdd: opAdd, codec.IdxSub: opSub, codec.IdxMul: opMul,
	codec.IdxDiv: opDiv, codec.IdxMod: opMod, codec.IdxNeg: opNeg,

	codec.IdxFmul: opFmul, codec.IdxFdiv: opFdiv, codec.IdxF2i: opF2i, codec.IdxI2f: opI2f,

	codec.IdxAnd: opAnd, codec.IdxOr: opOr, codec.IdxXor: opXor,
	codec.IdxShl: opShl, codec.IdxShr: opShr,

	codec.IdxLoad: opLoad, codec.IdxStore: opStore,

	codec.IdxJmp: opJmp, codec.IdxJz: opJz, codec.IdxJnz: opJnz,
	codec.IdxCall: opCall, codec.IdxRet: opRet,

	codec.IdxAlloc: opAlloc, codec.IdxFree: opFree,

	codec.IdxInput: opInput, codec.IdxOutput: opOutput, codec.IdxPrint: opPrint,

	codec.IdxHash: opHash, codec.IdxSign: opSign, codec.IdxVerify: opVerify, codec.IdxRng: opRng,

	codec.IdxSyscall: opSyscall, codec.IdxInt: opInt, codec.IdxHalt: opHalt,
	codec.IdxNop: opNop, codec.IdxBrk: opBrk, codec.IdxTrace: opTrace,

	codec.IdxNetSend: opNetSend, codec.IdxNetRecv: opNetRecv,
	codec.IdxThreadStart: opThreadStart, codec.IdxThreadJoin: opThreadJoin,

	codec.IdxCheckpoint: opCheckpoint,

	codec.IdxUnCreate: opUnCreate, codec.IdxUnGrade: opUnGrade,
	codec.IdxUnInner: opUnNoop, codec.IdxUnNorm: opUnNoop,
	codec.IdxUnTrans: opUnNoop, codec.IdxUnDwt: opUnNoop,
}

// Event is one unit of the interpreter's lazy pull-based output
// stream, mirroring the reference's yield-based generator.
type Event struct {
	Output string
	Err    error
}

// Run executes program to completion (or fatal error) and returns the
// full joined output, matching the synchronous call shape most tests
// exercise. Stream offers the incremental equivalent.
func (vm *VM) Run(program []*cache.Instruction) (string, error) {
	var out []byte
	for ev := range vm.Stream(program) {
		if ev.Err != nil {
			return string(out), ev.Err
		}
		out = append(out, ev.Output...)
	}
	return string(out), nil
}

// Stream executes program and returns a channel of Events, produced by
// an internal goroutine, the idiomatic analogue of the reference's
// pull-based generator. The channel is closed after a fatal error or
// HALT/program-end. There is no cancellation: a consumer that stops
// reading before the channel closes leaves the goroutine blocked on
// its next send.
func (vm *VM) Stream(program []*cache.Instruction) <-chan Event {
	ch := make(chan Event)
	go func() {
		defer close(ch)
		vm.run(program, ch)
	}()
	return ch
}

func (vm *VM) run(program []*cache.Instruction, ch chan<- Event) {
	for {
		if vm.IP < 0 || vm.IP > len(program) {
			ch <- Event{Err: &ExecError{Kind: KindSegmentationFault, IP: vm.IP, Message: "instruction pointer out of range"}}
			return
		}
		if vm.Halted || vm.IP == len(program) {
			return
		}

		instr := program[vm.IP]
		atIP := vm.IP
		vm.bumpHitCounter(atIP, program)
		vm.IP++

		var out string
		var err error
		cacheHit := false
		if vm.JIT != nil {
			if key, ok := structuralKey(instr); ok {
				if block, ok := vm.JIT.Lookup(key); ok {
					cacheHit = true
					out, err = block()
				} else {
					out, err = vm.execInstruction(instr)
				}
			} else {
				out, err = vm.execInstruction(instr)
			}
		} else {
			out, err = vm.execInstruction(instr)
		}
		if err != nil {
			ch <- Event{Err: err}
			return
		}
		if out != "" {
			ch <- Event{Output: out}
		}

		if vm.Profiler != nil {
			vm.Profiler.RecordInstruction(atIP, opcodeName(vm.Table, instr), 0, cacheHit)
		}
		if vm.CheckpointPolicy != nil && vm.CheckpointBackend != nil {
			if vm.CheckpointPolicy.ShouldCheckpoint(vm.Snapshot()) {
				_, _ = vm.CheckpointBackend.Save(strconv.Itoa(vm.IP), vm.serialize())
			}
		}

		if vm.Coherence != nil {
			if err := vm.Coherence.Check(vm.Snapshot()); err != nil {
				ch <- Event{Err: &ExecError{Kind: KindCoherenceViolation, IP: vm.IP, Message: err.Error(), Cause: err}}
				return
			}
		}
	}
}

func (vm *VM) execInstruction(instr *cache.Instruction) (string, error) {
	if n, ok := framedLen(vm.Table, instr.Payload, codec.IdxBlockTag, 7); ok {
		_ = n
		return vm.runBlock(instr.Children)
	}
	if n, ok := framedLen(vm.Table, instr.Payload, codec.IdxNTTTag, 4); ok {
		vm.runNTTPrepass(instr.Payload, n)
		return vm.runBlock(instr.Children)
	}

	if idx, ok := opcodeIndex(vm.Table, instr.Payload); ok {
		handler, ok := handlers[idx]
		if !ok {
			return "", &ExecError{Kind: KindInvalidOpcode, IP: vm.IP - 1, Message: fmt.Sprintf("no handler for opcode index %d", idx)}
		}
		return handler(vm, instr.Payload)
	}

	if cp, ok := dataChar(vm.Table, instr.Payload); ok {
		return string(cp), nil
	}

	return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "chunk carries neither an opcode nor raw data"}
}

// runBlock executes children in a fresh, isolated sub-VM and returns
// their joined output, without sharing any state back with vm.
func (vm *VM) runBlock(children []*cache.Instruction) (string, error) {
	sub := vm.child()
	out, err := sub.Run(children)
	return out, err
}

// runNTTPrepass computes the forward/inverse round trip over the
// exponent-2/3 factors of the header's own payload (spec §8.5): the
// result is discarded and children execute unmodified even when the
// round trip is inexact. Headers built by codec.EncodeNTT carry no
// such factors, so for them it returns without computing anything;
// the children's data is not read.
func (vm *VM) runNTTPrepass(payload []primes.Factor, n int) {
	if n <= 0 {
		return
	}
	vec := make([]*big.Int, 0, n)
	for _, f := range payload {
		if f.Exponent == 2 || f.Exponent == 3 {
			vec = append(vec, f.Prime)
		}
	}
	if len(vec) == 0 {
		return
	}
	mod := vm.Table.NthPrime(codec.IdxSpectralMod)
	exp := new(big.Int).Sub(mod, big.NewInt(1))
	nBig := big.NewInt(int64(n))
	exp.Div(exp, nBig)
	root := new(big.Int).Exp(big.NewInt(codec.NTTRoot), exp, mod)
	forward := ntt(vec, root, mod)
	invRoot := new(big.Int).ModInverse(root, mod)
	if invRoot == nil {
		return
	}
	back := ntt(forward, invRoot, mod)
	nInv := new(big.Int).ModInverse(nBig, mod)
	if nInv == nil {
		return
	}
	for i := range back {
		back[i].Mul(back[i], nInv)
		back[i].Mod(back[i], mod)
	}
	_ = back // round-trip computed, deliberately unused (spec §9 open question)
}

func ntt(vec []*big.Int, root, mod *big.Int) []*big.Int {
	n := len(vec)
	out := make([]*big.Int, n)
	for k := 0; k < n; k++ {
		sum := big.NewInt(0)
		for j := 0; j < n; j++ {
			p := new(big.Int).Exp(root, big.NewInt(int64(k*j)), mod)
			p.Mul(p, vec[j])
			sum.Add(sum, p)
		}
		sum.Mod(sum, mod)
		out[k] = sum
	}
	return out
}

func framedLen(table *primes.Table, payload []primes.Factor, tagIdx, tagExp int) (int, bool) {
	var tagPrime *big.Int
	found := false
	for _, f := range payload {
		if idx, ok := table.PrimeIndex(f.Prime); ok && idx == tagIdx && f.Exponent == tagExp {
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
			if idx, ok := table.PrimeIndex(f.Prime); ok {
				return idx, true
			}
		}
	}
	return 0, false
}

func opcodeName(table *primes.Table, instr *cache.Instruction) string {
	if idx, ok := opcodeIndex(table, instr.Payload); ok {
		if name, ok := codec.Names[idx]; ok {
			return name
		}
	}
	return ""
}

func structuralKey(instr *cache.Instruction) (string, bool) {
	if len(instr.Children) > 0 {
		return "", false
	}
	var b []byte
	for _, f := range instr.Payload {
		b = append(b, []byte(f.Prime.String())...)
		b = append(b, byte(f.Exponent))
	}
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}

func (vm *VM) bumpHitCounter(ip int, program []*cache.Instruction) {
	if vm.perIPCounter == nil {
		vm.perIPCounter = make(map[int]int64)
	}
	vm.perIPCounter[ip]++
	if vm.JIT == nil || vm.perIPCounter[ip] < vm.JITThreshold {
		return
	}
	instr := program[ip]
	key, ok := structuralKey(instr)
	if !ok {
		return
	}
	if _, ok := vm.JIT.Lookup(key); ok {
		return
	}
	vm.JIT.Compile(key, func() (string, error) {
		return vm.execInstruction(instr)
	})
}

// serialize produces a minimal checkpoint payload: IP, stack, and
// memory cells, each on its own line, matching the program loader's
// plain decimal convention. Stack values are space-separated; memory
// cells are space-separated addr:value pairs in address order.
func (vm *VM) serialize() []byte {
	snap := vm.Snapshot()
	var b []byte
	b = append(b, []byte(strconv.Itoa(snap.IP))...)
	b = append(b, '\n')
	for _, v := range snap.Stack {
		b = append(b, []byte(strconv.FormatInt(v, 10))...)
		b = append(b, ' ')
	}
	b = append(b, '\n')
	addrs := make([]int64, 0, len(snap.MemCells))
	for a := range snap.MemCells {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	for _, a := range addrs {
		b = append(b, []byte(strconv.FormatInt(a, 10)+":"+strconv.FormatInt(snap.MemCells[a], 10))...)
		b = append(b, ' ')
	}
	return b
}
