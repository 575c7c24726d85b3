package vm

import (
	"time"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// Net and thread opcodes are stubs in the core: they exist to
// collaborate with the profiler's latency counters, not to perform
// real networking or threading.

func opNetSend(vm *VM, _ []primes.Factor) (string, error) {
	return netStub(vm)
}

func opNetRecv(vm *VM, _ []primes.Factor) (string, error) {
	return netStub(vm)
}

func opThreadStart(vm *VM, _ []primes.Factor) (string, error) {
	return netStub(vm)
}

func opThreadJoin(vm *VM, _ []primes.Factor) (string, error) {
	return netStub(vm)
}

func netStub(vm *VM) (string, error) {
	if vm.Profiler != nil {
		vm.Profiler.RecordNetworkLatency(0 * time.Millisecond)
	}
	return "", nil
}
