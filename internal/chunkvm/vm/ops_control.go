package vm

import "github.com/vybium/chunkvm/internal/chunkvm/primes"

func opJmp(vm *VM, payload []primes.Factor) (string, error) {
	off, ok := signedOperand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "JMP missing offset"}
	}
	vm.IP += int(off)
	return "", nil
}

func opJz(vm *VM, payload []primes.Factor) (string, error) {
	off, ok := signedOperand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "JZ missing offset"}
	}
	cond, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	if cond == 0 {
		vm.IP += int(off)
	}
	return "", nil
}

func opJnz(vm *VM, payload []primes.Factor) (string, error) {
	off, ok := signedOperand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "JNZ missing offset"}
	}
	cond, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	if cond != 0 {
		vm.IP += int(off)
	}
	return "", nil
}

func opCall(vm *VM, payload []primes.Factor) (string, error) {
	off, ok := signedOperand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "CALL missing offset"}
	}
	vm.CallStack = append(vm.CallStack, int64(vm.IP))
	if vm.Debugger != nil {
		vm.Debugger.CallStack.Push(vm.IP-1, vm.IP)
	}
	vm.IP += int(off)
	return "", nil
}

// opRet pops the call stack and jumps to the saved return address. On
// an empty call stack it is a silent no-op: execution continues at
// the next IP (spec §9 open question, resolved in favor of the
// reference's behavior).
func opRet(vm *VM, _ []primes.Factor) (string, error) {
	if len(vm.CallStack) == 0 {
		return "", nil
	}
	ret := vm.CallStack[len(vm.CallStack)-1]
	vm.CallStack = vm.CallStack[:len(vm.CallStack)-1]
	if vm.Debugger != nil {
		vm.Debugger.CallStack.Pop()
	}
	vm.IP = int(ret)
	return "", nil
}
