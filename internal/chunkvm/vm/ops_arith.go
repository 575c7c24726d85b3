package vm

import (
	"math"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

func popTwo(vm *VM) (int64, int64, error) {
	b, err := vm.StackPop()
	if err != nil {
		return 0, 0, err
	}
	a, err := vm.StackPop()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func opAdd(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a + b)
}

func opSub(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a - b)
}

func opMul(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(a * b)
}

func opDiv(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	if b == 0 {
		return "", &ExecError{Kind: KindDivisionByZero, IP: vm.IP - 1, Message: "division by zero"}
	}
	return "", vm.StackPush(a / b)
}

func opMod(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	if b == 0 {
		return "", &ExecError{Kind: KindDivisionByZero, IP: vm.IP - 1, Message: "modulo by zero"}
	}
	return "", vm.StackPush(a % b)
}

func opNeg(vm *VM, _ []primes.Factor) (string, error) {
	a, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(-a)
}

func opFmul(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	r := math.Float64frombits(uint64(a)) * math.Float64frombits(uint64(b))
	return "", vm.StackPush(int64(math.Float64bits(r)))
}

func opFdiv(vm *VM, _ []primes.Factor) (string, error) {
	a, b, err := popTwo(vm)
	if err != nil {
		return "", err
	}
	fb := math.Float64frombits(uint64(b))
	if fb == 0 {
		return "", &ExecError{Kind: KindDivisionByZero, IP: vm.IP - 1, Message: "float division by zero"}
	}
	r := math.Float64frombits(uint64(a)) / fb
	return "", vm.StackPush(int64(math.Float64bits(r)))
}

func opF2i(vm *VM, _ []primes.Factor) (string, error) {
	a, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(int64(math.Float64frombits(uint64(a))))
}

func opI2f(vm *VM, _ []primes.Factor) (string, error) {
	a, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	return "", vm.StackPush(int64(math.Float64bits(float64(a))))
}
