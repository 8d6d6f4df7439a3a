package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// panicError is a recovered panic value, along with the stack of the
// goroutine that raised it.
type panicError struct {
	name  string
	value interface{}
	stack []byte
}

func recoverPanicError(name string, errch chan<- error) {
	v := recover()
	if v == nil {
		return
	}
	select {
	case errch <- panicError{name, v, debug.Stack()}:
	default:
	}
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

// Format prints the panic stack too under the %+v verb.
func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name != "" {
		fmt.Fprintf(f, "%v ", pe.name)
	}
	fmt.Fprintf(f, "paniced: %v", pe.value)
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

// Unwrap returns the panic value if it was an error, so that errors.Is and
// errors.As see through a recovered panic.
func (pe panicError) Unwrap() error {
	err, _ := pe.value.(error)
	return err
}

func asPanic(err error) (pe panicError, ok bool) {
	ok = errors.As(err, &pe)
	return pe, ok
}

// IsPanic returns true if err indicates a recovered goroutine panic.
func IsPanic(err error) bool {
	_, ok := asPanic(err)
	return ok
}

// Value returns the raw recovered panic value, if err indicates one.
func Value(err error) interface{} {
	pe, _ := asPanic(err)
	return pe.value
}

// PanicStack returns a non-empty stacktrace string if err is a recovered
// goroutine panic.
func PanicStack(err error) string {
	pe, _ := asPanic(err)
	return string(pe.stack)
}
