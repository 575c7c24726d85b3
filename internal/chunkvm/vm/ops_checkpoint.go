package vm

import (
	"strconv"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// opCheckpoint asks the configured backend to persist the current
// state. With no backend configured this is a silent no-op.
func opCheckpoint(vm *VM, _ []primes.Factor) (string, error) {
	if vm.CheckpointBackend == nil {
		return "", nil
	}
	_, err := vm.CheckpointBackend.Save(strconv.Itoa(vm.IP), vm.serialize())
	if err != nil {
		return "", &ExecError{Kind: KindBadData, IP: vm.IP - 1, Message: err.Error(), Cause: err}
	}
	return "", nil
}
