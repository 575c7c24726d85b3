package vm

import "github.com/vybium/chunkvm/internal/chunkvm/primes"

func opLoad(vm *VM, payload []primes.Factor) (string, error) {
	addr, ok := operand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "LOAD missing address operand"}
	}
	v, err := vm.Mem.Load(addr)
	if err != nil {
		return "", &ExecError{Kind: KindMemoryAccess, IP: vm.IP - 1, Message: err.Error(), Cause: err}
	}
	if vm.Profiler != nil {
		vm.Profiler.RecordMemoryAccess(addr, "read")
	}
	return "", vm.StackPush(v)
}

func opStore(vm *VM, payload []primes.Factor) (string, error) {
	addr, ok := operand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "STORE missing address operand"}
	}
	v, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	if err := vm.Mem.Store(addr, v); err != nil {
		return "", &ExecError{Kind: KindMemoryAccess, IP: vm.IP - 1, Message: err.Error(), Cause: err}
	}
	if vm.Profiler != nil {
		vm.Profiler.RecordMemoryAccess(addr, "write")
	}
	return "", nil
}
