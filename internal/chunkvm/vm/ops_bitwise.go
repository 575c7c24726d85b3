package vm

import "github.com/vybium/chunkvm/internal/chunkvm/primes"

// NOT is named in the opcode semantics table but, like DUP/SWAP/ROT
// and friends, has no canonical prime index or encoder; it is not
// registered.

func opAnd(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a & b)
}

func opOr(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a | b)
}

func opXor(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a ^ b)
}

func opShl(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a << uint(b))
}

func opShr(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a >> uint(b))
}
