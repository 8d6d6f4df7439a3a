// Package panicerr converts panics and goroutine exits into plain errors.
package panicerr

import (
	"errors"
	"fmt"
)

// Recover runs f in a new goroutine wrapped in defer logic to recover any
// abnormal exits or panics as non-nil error returns.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, errch)
		defer recoverPanicError(name, errch)
		errch <- f()
	}()
	return <-errch
}

// Catch runs f on the calling goroutine, recovering only those panic values
// that match accepts; the matched value is returned. Any other panic keeps
// unwinding.
func Catch(f func(), match func(v interface{}) bool) (caught interface{}) {
	defer func() {
		if v := recover(); v != nil {
			if !match(v) {
				panic(v)
			}
			caught = v
		}
	}()
	f()
	return nil
}

func recoverExitError(name string, errch chan<- error) {
	// the happy path does a (maybe nil) send first, filling errch
	select {
	case errch <- exitError(name):
	default:
	}
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}
