// Package vm implements the chunk interpreter: dispatch loop, opcode
// handlers, BLOCK/NTT sub-interpreter framing, and the fatal-error
// taxonomy.
package vm

import (
	"github.com/vybium/chunkvm/internal/chunkvm/cache"
	"github.com/vybium/chunkvm/internal/chunkvm/jit"
	"github.com/vybium/chunkvm/internal/chunkvm/memory"
	"github.com/vybium/chunkvm/internal/chunkvm/observe"
	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// CheckpointBackend persists and restores opaque checkpoint bytes.
type CheckpointBackend interface {
	Save(name string, data []byte) (string, error)
	Load(id string) ([]byte, error)
}

// CheckpointPolicy decides when the runtime should request a checkpoint.
type CheckpointPolicy interface {
	ShouldCheckpoint(snapshot observe.Snapshot) bool
}

// VM is one interpreter instance: it owns its stack, memory, call
// stack, and IO queues, and borrows the process-wide prime table and
// decoded-instruction cache.
type VM struct {
	Table *primes.Table
	Cache *cache.Cache
	Mem   *memory.Memory

	Stack     []int64
	CallStack []int64
	IP        int

	Signed map[int64]bool // values popped and signed by SIGN, for VERIFY

	ExecutedInstructions int64
	perIPCounter         map[int]int64
	AtomicMode            bool
	Halted                bool

	StackLimit int

	JIT          *jit.Compiler
	JITThreshold int64

	Profiler  *observe.Profiler
	Debugger  *observe.Debugger
	Coherence *observe.CoherenceValidator

	CheckpointBackend CheckpointBackend
	CheckpointPolicy  CheckpointPolicy
}

// Config bundles the process-wide collaborators and per-VM tuning
// knobs a VM is constructed with.
type Config struct {
	Table        *primes.Table
	Cache        *cache.Cache
	JIT          *jit.Compiler
	JITThreshold int64
	StackLimit   int

	Profiler  *observe.Profiler
	Debugger  *observe.Debugger
	Coherence *observe.CoherenceValidator

	CheckpointBackend CheckpointBackend
	CheckpointPolicy  CheckpointPolicy
}

// New constructs a VM instance with its own owned state.
func New(cfg Config) *VM {
	limit := cfg.StackLimit
	if limit <= 0 {
		limit = 1 << 16
	}
	threshold := cfg.JITThreshold
	if threshold <= 0 {
		threshold = 1000
	}
	return &VM{
		Table:             cfg.Table,
		Cache:             cfg.Cache,
		Mem:               memory.New(),
		Signed:            make(map[int64]bool),
		perIPCounter:      make(map[int]int64),
		StackLimit:        limit,
		JIT:               cfg.JIT,
		JITThreshold:      threshold,
		Profiler:          cfg.Profiler,
		Debugger:          cfg.Debugger,
		Coherence:         cfg.Coherence,
		CheckpointBackend: cfg.CheckpointBackend,
		CheckpointPolicy:  cfg.CheckpointPolicy,
	}
}

// child returns a fresh sub-VM for a BLOCK/NTT framed region: it
// inherits the shared process-wide table/cache/observers but owns a
// brand-new stack, memory, and call stack. It runs without the JIT,
// because a compiled block executes on the VM that compiled it.
func (vm *VM) child() *VM {
	return New(Config{
		Table: vm.Table, Cache: vm.Cache,
		Profiler: vm.Profiler, Debugger: vm.Debugger, Coherence: vm.Coherence,
		CheckpointBackend: vm.CheckpointBackend, CheckpointPolicy: vm.CheckpointPolicy,
	})
}

// StackPush pushes v, failing with StackOverflow past StackLimit.
func (vm *VM) StackPush(v int64) error {
	if len(vm.Stack) >= vm.StackLimit {
		return &ExecError{Kind: KindStackOverflow, IP: vm.IP - 1, Message: "operand stack exceeds its limit"}
	}
	vm.Stack = append(vm.Stack, v)
	return nil
}

// StackPop pops the top of stack, failing with StackUnderflow if empty.
func (vm *VM) StackPop() (int64, error) {
	if len(vm.Stack) == 0 {
		return 0, &ExecError{Kind: KindStackUnderflow, IP: vm.IP - 1, Message: "pop from empty stack"}
	}
	v := vm.Stack[len(vm.Stack)-1]
	vm.Stack = vm.Stack[:len(vm.Stack)-1]
	return v, nil
}

// StackPeek returns the n-th element from the top without popping
// (n=0 is the top).
func (vm *VM) StackPeek(n int) (int64, error) {
	idx := len(vm.Stack) - 1 - n
	if idx < 0 {
		return 0, &ExecError{Kind: KindStackUnderflow, IP: vm.IP - 1, Message: "peek past bottom of stack"}
	}
	return vm.Stack[idx], nil
}

// StackSet overwrites the n-th element from the top.
func (vm *VM) StackSet(n int, v int64) error {
	idx := len(vm.Stack) - 1 - n
	if idx < 0 {
		return &ExecError{Kind: KindStackUnderflow, IP: vm.IP - 1, Message: "set past bottom of stack"}
	}
	vm.Stack[idx] = v
	return nil
}

// Snapshot captures the state the coherence validator and checkpoint
// policy observe.
func (vm *VM) Snapshot() observe.Snapshot {
	return observe.Snapshot{
		Stack:    append([]int64(nil), vm.Stack...),
		MemCells: vm.Mem.Cells(),
		IP:       vm.IP,
	}
}

// GCRoots gathers every integer value the heap collector must treat as
// a potential pointer: the operand stack and the call stack. Memory
// cells are added separately by the memory package itself.
func (vm *VM) GCRoots() []int64 {
	roots := make([]int64, 0, len(vm.Stack)+len(vm.CallStack))
	roots = append(roots, vm.Stack...)
	roots = append(roots, vm.CallStack...)
	return roots
}
