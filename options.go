package main

import (
	"bytes"
	"io"

	"github.com/jcorbin/kforth/internal/byteio"
	"github.com/jcorbin/kforth/internal/device"
)

type VMOption interface{ apply(vm *VM) }

// VMOptions combines any number of options into one, dropping nils.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

var defaultOptions = options{
	withOutput(io.Discard),
}

func (vm *VM) apply(opts ...VMOption) {
	defaultOptions.apply(vm)
	VMOptions(opts...).apply(vm)
}

// NamedReader attaches a name to r, reported in trace logging as the input
// location.
func NamedReader(name string, r io.Reader) io.Reader { return byteio.NamedReader(name, r) }

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
	vm.markWidth = 1
}

type inputOption struct{ io.Reader }
type inputWriterOption struct{ io.WriterTo }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type sizesOption Sizes
type preludeOption struct{}
type promptOption struct{}
type deviceOption struct {
	h    int32
	port device.Port
}

func withOutput(w io.Writer) outputOption { return outputOption{w} }

func (i inputOption) apply(vm *VM) {
	vm.in.Queue = append(vm.in.Queue, i.Reader)
}

func (i inputWriterOption) apply(vm *VM) {
	var buf bytes.Buffer
	if _, err := i.WriterTo.WriteTo(&buf); err != nil {
		panic(err)
	}
	var r io.Reader = &buf
	if nom, ok := i.WriterTo.(interface{ Name() string }); ok {
		r = NamedReader(nom.Name(), r)
	}
	vm.in.Queue = append(vm.in.Queue, r)
}

// The prelude always runs before any other input.
func (preludeOption) apply(vm *VM) {
	var buf bytes.Buffer
	if _, err := prelude.WriteTo(&buf); err != nil {
		panic(err)
	}
	r := NamedReader(prelude.Name(), &buf)
	vm.in.Queue = append([]io.Reader{r}, vm.in.Queue...)
}

// Prompting starts at this point in the input queue, so that any input
// queued before it loads silently.
func (promptOption) apply(vm *VM) {
	r := NamedReader("<prompt>", bytes.NewReader([]byte("PROMPT-ON\n")))
	vm.in.Queue = append(vm.in.Queue, r)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = byteio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = byteio.WriteFlushers(vm.out, byteio.NewWriteFlusher(o.Writer))
}

func (sz sizesOption) apply(vm *VM) { vm.sizes = Sizes(sz) }

func (o deviceOption) apply(vm *VM) { vm.dev.Bind(o.h, o.port) }
