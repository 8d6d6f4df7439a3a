package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/kforth/internal/byteio"
	"github.com/jcorbin/kforth/internal/device"
	"github.com/jcorbin/kforth/internal/logio"
	"github.com/jcorbin/kforth/internal/panicerr"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	opts    []interface{}
	setup   []func(vm *VM)
	ops     []func(vm *VM)
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive   bool
	nextInputID int
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withSizes(sizes Sizes) vmTestCase {
	vmt.opts = append(vmt.opts, WithSizes(sizes))
	return vmt
}

func (vmt vmTestCase) withPrelude() vmTestCase {
	vmt.opts = append(vmt.opts, WithPrelude())
	return vmt
}

func (vmt vmTestCase) withDevice(h int32, port device.Port) vmTestCase {
	vmt.opts = append(vmt.opts, WithDevice(h, port))
	return vmt
}

// setup functions run after the VM is initialized, before any input.
func (vmt vmTestCase) withSetup(setup func(vm *VM)) vmTestCase {
	vmt.setup = append(vmt.setup, setup)
	return vmt
}

func (vmt vmTestCase) withStack(values ...cell) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) {
		for _, v := range values {
			vm.push(v)
		}
	})
	return vmt
}

func (vmt vmTestCase) withRStack(values ...cell) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) {
		for _, v := range values {
			vm.rpush(v)
		}
	})
	return vmt
}

func (vmt vmTestCase) withDataAt(addr cell, values ...cell) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) {
		for i, v := range values {
			vm.stor(addr+cell(i), v)
		}
	})
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		name := t.Name() + "/input"
		if id := vmt.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		vmt.nextInputID++
		return WithNamedInput(name, strings.NewReader(input))
	})
	return vmt
}

func (vmt vmTestCase) withNamedInput(name string, input string) vmTestCase {
	vmt.opts = append(vmt.opts, WithNamedInput(name, strings.NewReader(input)))
	return vmt
}

func (vmt vmTestCase) withInputWriter(w io.WriterTo) vmTestCase {
	vmt.opts = append(vmt.opts, WithInputWriter(w))
	return vmt
}

func (vmt vmTestCase) do(ops ...func(vm *VM)) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectStack(values ...cell) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []cell{}
		}
		assert.Equal(t, values, append([]cell{}, vm.stack.cells...), "expected stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectRStack(values ...cell) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []cell{}
		}
		assert.Equal(t, values, append([]cell{}, vm.rstack.cells...), "expected return stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectDataAt(addr cell, values ...cell) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		buf := make([]cell, len(values))
		if assert.NoError(t, vm.data.LoadInto(int(addr), buf), "must load data @%v", addr) {
			assert.Equal(t, values, buf, "expected data values @%v", addr)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectState(state cell) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, state, vm.peekData(addrState), "expected STATE")
	})
	return vmt
}

func (vmt vmTestCase) expectHere(code int, data int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, code, vm.hereCode, "expected code here")
		assert.Equal(t, data, vm.hereData, "expected data here")
	})
	return vmt
}

func (vmt vmTestCase) expectIP(ip int) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, ip, vm.ip, "expected instruction pointer")
	})
	return vmt
}

func (vmt vmTestCase) expectWord(name string, kind entryKind, immediate bool) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		wi := vm.lookup(name)
		if assert.True(t, wi >= 0, "expected a word named %q", name) {
			ent := vm.entries[wi]
			assert.Equal(t, kind, ent.kind, "expected %q kind", name)
			assert.Equal(t, immediate, ent.immediate, "expected %q immediate flag", name)
		}
	})
	return vmt
}

// expectSee checks the one line decompilation of a word.
func (vmt vmTestCase) expectSee(name string, line string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		wi := vm.lookup(name)
		if assert.True(t, wi >= 0, "expected a word named %q", name) {
			var out strings.Builder
			vmDumper{vm: vm, out: &out}.see(wi)
			assert.Equal(t, line+"\n", out.String(), "expected %q decompilation", name)
		}
	})
	return vmt
}

// expectSameBody checks that two colon words compiled identical code.
func (vmt vmTestCase) expectSameBody(a string, b string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, wordBody(t, vm, b), wordBody(t, vm, a), "expected %q to compile like %q", a, b)
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		out.Reset()
		WithOutput(&out).apply(vm)
	}))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vmDumper{
			vm:  vm,
			out: &out,
		}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) withTestDump() vmTestCase {
	vmt.expect = append(vmt.expect, vmt.dumpToTest)
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		return WithTee(&logio.Writer{Logf: t.Logf, Prefix: "out: "})
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Now().Sub(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM(t))
	}) {
		vm := vmt.buildVM(t)
		WithLogf(t.Logf).apply(vm)
		vmt.runVMTest(context.Background(), t, vm)
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("vm.Close failed: %w", err)
		}
	}()

	if len(vmt.setup) > 0 {
		if err := panicerr.Recover("vmTestCase.setup", func() error {
			vm.init()
			for _, setup := range vmt.setup {
				setup(vm)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if len(vmt.ops) == 0 {
		return vm.Run(ctx)
	}

	names := make([]string, len(vmt.ops))
	for i, op := range vmt.ops {
		names[i] = runtime.FuncForPC(reflect.ValueOf(op).Pointer()).Name()
	}
	err := panicerr.Recover("vmTestCase.ops", func() error {
		vm.ctx = ctx
		vm.init()
		for i, op := range vmt.ops {
			vm.logf(">", "do[%v] %v", i, names[i])
			op(vm)
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	})
	var f fault
	if errors.As(err, &f) {
		return f
	}
	return err
}

func (vmt vmTestCase) buildVM(t *testing.T) *VM {
	var vm VM

	var opt VMOption
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) VMOption:
			opt = VMOptions(opt, impl(&vmt, t))
		case VMOption:
			opt = VMOptions(opt, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}
	vm.apply(opt)

	if vm.out == nil {
		vm.out = byteio.NewWriteFlusher(io.Discard)
	}

	return &vm
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vmDumper{vm: vm, out: &lw}.dump()
}

//// utilities

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}

func wordBody(t *testing.T, vm *VM, name string) []cell {
	wi := vm.lookup(name)
	if !assert.True(t, wi >= 0, "expected a word named %q", name) {
		return nil
	}
	ent := vm.entries[wi]
	if !assert.Equal(t, kindColon, ent.kind, "expected %q to be a colon word", name) {
		return nil
	}
	dump := vmDumper{vm: vm}
	body := make([]cell, dump.bodyEnd(ent.pfa)-ent.pfa)
	vm.code.LoadInto(ent.pfa, body)
	return body
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
