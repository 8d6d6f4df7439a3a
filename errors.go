package main

import (
	"errors"
	"fmt"
)

// fault is a recoverable VM error: raised by panicking, it unwinds to the
// recovery checkpoint around the current token, which reports it as a
// "? message" line and resets the VM.
type fault string

func (f fault) Error() string { return string(f) }

func faultf(format string, args ...interface{}) fault {
	return fault(fmt.Sprintf(format, args...))
}

const (
	errDataOverflow  fault = "data stack overflow"
	errDataUnderflow fault = "data stack underflow"
	errRetOverflow   fault = "return stack overflow"
	errRetUnderflow  fault = "return stack underflow"

	errCodeFull fault = "code full"
	errDataFull fault = "data full"
	errDictFull fault = "dict full"
	errPrimFull fault = "prim full"

	errDivZero      fault = "/MOD divide by zero"
	errUnterminated fault = "unterminated string"
	errStringLong   fault = "string too long"
	errNoCreate     fault = "(DOES>) no CREATE"
)

// abortSignal unwinds to the recovery checkpoint after ABORT has already
// reset the VM; unlike a fault, no diagnostic is written.
type abortSignal struct{}

// errBye is the halt reason of the BYE primitive; Run treats it as a normal
// exit.
var errBye = errors.New("bye")

// haltError escapes any recovery checkpoint, terminating Run.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

func boolFlag(b bool) cell {
	if b {
		return -1
	}
	return 0
}
