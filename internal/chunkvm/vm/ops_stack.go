package vm

import "github.com/vybium/chunkvm/internal/chunkvm/primes"

// opPush pushes the instruction's literal operand.
//
// DUP, SWAP, ROT, DROP, OVER, and PICK are named in the opcode
// semantics table but, like ATOMIC and DEBUG, carry no canonical
// prime index (spec §6) and no encoder in the reference chunk format;
// they have no wire representation to dispatch and are therefore not
// registered here.
func opPush(vm *VM, payload []primes.Factor) (string, error) {
	v, ok := operand(vm.Table, payload)
	if !ok {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: "PUSH missing operand"}
	}
	return "", vm.StackPush(v)
}
