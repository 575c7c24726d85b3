package chunkvm

import (
	"math/big"

	"github.com/vybium/chunkvm/internal/chunkvm/cache"
	"github.com/vybium/chunkvm/internal/chunkvm/decoder"
	"github.com/vybium/chunkvm/internal/chunkvm/jit"
	"github.com/vybium/chunkvm/internal/chunkvm/observe"
	"github.com/vybium/chunkvm/internal/chunkvm/primes"
	"github.com/vybium/chunkvm/internal/chunkvm/vm"
)

// VM is the public handle to a chunk interpreter instance.
type VM struct {
	inner    *vm.VM
	table    *primes.Table
	factors  *primes.FactorCache
	instrs   *cache.Cache
	profiler *observe.Profiler
}

// factorCacheBytes sizes the decode-side factorization memoizer; chunk
// values are small relative to this, so it holds many thousands of
// entries before fastcache starts evicting.
const factorCacheBytes = 32 << 20

// NewVM constructs a VM with its own prime table and instruction
// cache, configured per cfg.
func NewVM(cfg Config) *VM {
	table := primes.NewTable()
	factors := primes.NewFactorCache(table, factorCacheBytes)
	instrs := cache.New(4096)

	var profiler *observe.Profiler
	if cfg.EnableProfiler {
		profiler = observe.NewProfiler()
	}

	var coherence *observe.CoherenceValidator
	if cfg.CoherenceMode != "" {
		coherence = observe.NewCoherenceValidator(cfg.CoherenceMode, cfg.CoherenceTolerance)
	}

	var jitCompiler *jit.Compiler
	if cfg.JITThreshold > 0 {
		jitCompiler = jit.NewCompiler(cfg.JITTTL)
	}

	var policy vm.CheckpointPolicy
	if cfg.CheckpointEvery > 0 {
		policy = observe.NewInstructionCountPolicy(cfg.CheckpointEvery)
	}

	inner := vm.New(vm.Config{
		Table:             table,
		Cache:             instrs,
		JIT:               jitCompiler,
		JITThreshold:      cfg.JITThreshold,
		StackLimit:        cfg.StackLimit,
		Profiler:          profiler,
		Coherence:         coherence,
		CheckpointBackend: backendAdapter(cfg.CheckpointBackend),
		CheckpointPolicy:  policy,
	})

	return &VM{inner: inner, table: table, factors: factors, instrs: instrs, profiler: profiler}
}

// backendAdapter satisfies vm.CheckpointBackend from the public
// CheckpointBackend interface, which is structurally identical; a
// thin adapter keeps the internal package from importing this one.
func backendAdapter(b CheckpointBackend) vm.CheckpointBackend {
	if b == nil {
		return nil
	}
	return b
}

// Decode turns a flat chunk stream into an executable program.
func (v *VM) Decode(chunks []*big.Int) ([]*cache.Instruction, error) {
	program, err := decoder.Decode(v.factors, v.instrs, chunks)
	if err != nil {
		return nil, &VMError{Code: CodeDecode, Message: err.Error(), Cause: err}
	}
	return program, nil
}

// SetInput seeds the VM's MMIO-in queue.
func (v *VM) SetInput(values []int64) { v.inner.Mem.SetInputQueue(values) }

// Run decodes and executes chunks to completion, returning the joined
// output string.
func (v *VM) Run(chunks []*big.Int) (string, error) {
	program, err := v.Decode(chunks)
	if err != nil {
		return "", err
	}
	out, err := v.inner.Run(program)
	if err != nil {
		return out, &VMError{Code: CodeExec, Message: err.Error(), Cause: err}
	}
	return out, nil
}

// OutputLog returns every value written to MMIO-out during Run.
func (v *VM) OutputLog() []int64 { return v.inner.Mem.OutputLog() }

// ProfilerReport renders the profiler's table report, or "" if
// profiling was not enabled.
func (v *VM) ProfilerReport() string {
	if v.profiler == nil {
		return ""
	}
	return v.profiler.Report()
}
