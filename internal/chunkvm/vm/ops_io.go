package vm

import (
	"strconv"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

func opInput(vm *VM, _ []primes.Factor) (string, error) {
	v, err := vm.Mem.Load(vm.Mem.MMIOIn())
	if err != nil {
		return "", &ExecError{Kind: KindMemoryAccess, IP: vm.IP - 1, Message: err.Error(), Cause: err}
	}
	if vm.Profiler != nil {
		vm.Profiler.RecordIO()
	}
	return "", vm.StackPush(v)
}

func opOutput(vm *VM, _ []primes.Factor) (string, error) {
	v, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	if err := vm.Mem.Store(vm.Mem.MMIOOut(), v); err != nil {
		return "", &ExecError{Kind: KindMemoryAccess, IP: vm.IP - 1, Message: err.Error(), Cause: err}
	}
	if vm.Profiler != nil {
		vm.Profiler.RecordIO()
	}
	return strconv.FormatInt(v, 10), nil
}

func opPrint(vm *VM, _ []primes.Factor) (string, error) {
	v, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}
