package vm

import (
	"fmt"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// ATOMIC and DEBUG are named in the opcode semantics table but have no
// canonical prime index or encoder in the reference chunk format, so
// neither is dispatchable here; VM.AtomicMode is kept for observer
// inspection but nothing sets it from a dispatched opcode.

func opSyscall(vm *VM, _ []primes.Factor) (string, error) {
	return "", nil
}

func opInt(vm *VM, _ []primes.Factor) (string, error) {
	return "", nil
}

func opHalt(vm *VM, _ []primes.Factor) (string, error) {
	vm.Halted = true
	return "", nil
}

func opNop(vm *VM, _ []primes.Factor) (string, error) {
	return "", nil
}

func opBrk(vm *VM, _ []primes.Factor) (string, error) {
	if vm.Debugger != nil {
		vm.Debugger.SetBreakpoint(vm.IP - 1)
	}
	return fmt.Sprintf("BRK:%d", vm.IP-1), nil
}

func opTrace(vm *VM, _ []primes.Factor) (string, error) {
	return fmt.Sprintf("TRACE:%d", vm.IP-1), nil
}
