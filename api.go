package main

import (
	"context"
	"errors"
	"io"

	"github.com/jcorbin/kforth/internal/device"
	"github.com/jcorbin/kforth/internal/panicerr"
)

// New creates a VM with the given options; nothing runs until Run.
func New(opts ...VMOption) *VM {
	var vm VM
	vm.apply(opts...)
	return &vm
}

// Run interprets input until it is exhausted, BYE is called, or ctx is
// done. Errors recovered by the interpreter itself are only reported on
// output; Run returns the ones it cannot recover from.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	})
	if vm.out != nil {
		if ferr := vm.out.Flush(); err == nil {
			err = ferr
		}
	}
	var halt haltError
	if errors.As(err, &halt) {
		err = halt.error
	}
	var f fault
	if errors.As(err, &f) {
		err = f
	}
	if err == nil || errors.Is(err, errBye) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func WithInput(r io.Reader) VMOption                  { return inputOption{r} }
func WithNamedInput(name string, r io.Reader) VMOption { return inputOption{NamedReader(name, r)} }
func WithInputWriter(w io.WriterTo) VMOption          { return inputWriterOption{w} }
func WithOutput(w io.Writer) VMOption                 { return outputOption{w} }
func WithTee(w io.Writer) VMOption                    { return teeOption{w} }
func WithSizes(sizes Sizes) VMOption                  { return sizesOption(sizes) }
func WithPrelude() VMOption                           { return preludeOption{} }
func WithPrompt() VMOption                            { return promptOption{} }

// WithDevice binds port to a device I/O handle; handle 0 defaults to the
// VM's own input and output.
func WithDevice(h int32, port device.Port) VMOption { return deviceOption{h, port} }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
