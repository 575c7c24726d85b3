package vm

import "github.com/vybium/chunkvm/internal/chunkvm/primes"

func opAlloc(vm *VM, payload []primes.Factor) (string, error) {
	n, ok := operand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "ALLOC missing size operand"}
	}
	roots := vm.GCRoots()
	for _, v := range vm.Mem.Cells() {
		roots = append(roots, v)
	}
	addr, err := vm.Mem.Allocate(n, roots)
	if err != nil {
		return "", &ExecError{Kind: KindMemoryAccess, IP: vm.IP - 1, Message: err.Error(), Cause: err}
	}
	return "", vm.StackPush(addr)
}

func opFree(vm *VM, payload []primes.Factor) (string, error) {
	addr, ok := operand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "FREE missing address operand"}
	}
	if err := vm.Mem.Free(addr); err != nil {
		return "", &ExecError{Kind: KindMemoryAccess, IP: vm.IP - 1, Message: err.Error(), Cause: err}
	}
	return "", nil
}
