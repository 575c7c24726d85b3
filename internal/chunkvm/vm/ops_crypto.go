package vm

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"

	"github.com/vybium/chunkvm/internal/chunkvm/primes"
)

// opHash pushes the first four bytes (big-endian) of SHA-256 of the
// decimal representation of the top of stack. The algorithm is fixed,
// not pluggable: the chunk format has no room to name an alternative.
func opHash(vm *VM, _ []primes.Factor) (string, error) {
	v, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(strconv.FormatInt(v, 10)))
	out := int64(binary.BigEndian.Uint32(sum[:4]))
	return "", vm.StackPush(out)
}

// opSign records the popped value as signed and pushes v+1.
func opSign(vm *VM, _ []primes.Factor) (string, error) {
	v, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	vm.Signed[v] = true
	return "", vm.StackPush(v + 1)
}

// opVerify pushes 1 if the top of stack was previously signed, else 0.
func opVerify(vm *VM, _ []primes.Factor) (string, error) {
	v, err := vm.StackPop()
	if err != nil {
		return "", err
	}
	if vm.Signed[v] {
		return "", vm.StackPush(1)
	}
	return "", vm.StackPush(0)
}

// opRng pushes a deterministic value, so repeated runs of the same
// program agree (spec §8.4: caches and reruns must never change
// semantics): the number of RNG executions on this VM so far (1, 2,
// 3, ...), kept in ExecutedInstructions. Only RNG advances that
// counter; other executed instructions do not change it.
func opRng(vm *VM, _ []primes.Factor) (string, error) {
	vm.ExecutedInstructions++
	return "", vm.StackPush(vm.ExecutedInstructions)
}
