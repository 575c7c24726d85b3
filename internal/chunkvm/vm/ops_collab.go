package vm

import "github.com/vybium/chunkvm/internal/chunkvm/primes"

// UN_CREATE and UN_GRADE behave like PUSH of their operand: the
// spectral/tensor collaborator contributes no novel runtime semantics
// of its own (spec §4.6), so its "construction" opcodes are modeled
// as ordinary literal pushes. The remaining UN_* opcodes (INNER, NORM,
// TRANS, DWT) are no-ops.

func opUnCreate(vm *VM, payload []primes.Factor) (string, error) {
	v, ok := operand(vm.Table, payload)
	if !ok {
		return "", vm.StackPush(0)
	}
	return "", vm.StackPush(v)
}

func opUnGrade(vm *VM, payload []primes.Factor) (string, error) {
	v, ok := operand(vm.Table, payload)
	if !ok {
		return "", vm.StackPush(0)
	}
	return "", vm.StackPush(v)
}

func opUnNoop(vm *VM, _ []primes.Factor) (string, error) {
	return "", nil
}
