package chunkvm

import "fmt"

// Code classifies a VMError the way the teacher's own public error
// type names a stable, documented set of codes rather than exposing
// internal error structs directly.
type Code string

const (
	CodeDecode  Code = "decode"
	CodeExec    Code = "exec"
	CodeLoad    Code = "load"
	CodeBackend Code = "backend"
)

// VMError is the stable public error shape returned from this
// package's exported functions, wrapping whatever internal error
// (decoder.DecodeError, vm.ExecError, ...) caused it.
type VMError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *VMError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("chunkvm: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("chunkvm: %s", e.Code)
}

func (e *VMError) Unwrap() error { return e.Cause }
