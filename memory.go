package main

import (
	"errors"

	"github.com/jcorbin/kforth/internal/mem"
)

type cell = int32

const (
	cellBytes = mem.CellBytes
	cellBits  = 8 * cellBytes
)

// Reserved data memory layout; the terminal input buffer occupies the cells
// right after the four system variables.
const (
	addrState = 0
	addrBase  = 1
	addrIn    = 2
	addrNTIB  = 3
	addrTIB   = 4

	tibBytes      = 256
	tibCells      = tibBytes / cellBytes
	tibByteAddr   = addrTIB * cellBytes
	reservedCells = addrTIB + tibCells
)

// cellStack is a bounded stack of cells, faulting on overflow and underflow.
type cellStack struct {
	cells     []cell
	overflow  fault
	underflow fault
}

func newCellStack(depth int, overflow, underflow fault) cellStack {
	return cellStack{
		cells:     make([]cell, 0, depth),
		overflow:  overflow,
		underflow: underflow,
	}
}

func (s *cellStack) depth() int { return len(s.cells) }
func (s *cellStack) clear()     { s.cells = s.cells[:0] }

func (s *cellStack) push(v cell) {
	if len(s.cells) == cap(s.cells) {
		panic(s.overflow)
	}
	s.cells = append(s.cells, v)
}

func (s *cellStack) pop() cell {
	i := len(s.cells) - 1
	if i < 0 {
		panic(s.underflow)
	}
	v := s.cells[i]
	s.cells = s.cells[:i]
	return v
}

// pick returns the i-th cell from the top, 0 being the top itself.
func (s *cellStack) pick(i int) cell {
	j := len(s.cells) - 1 - i
	if j < 0 {
		panic(s.underflow)
	}
	return s.cells[j]
}

func (vm *VM) push(v cell)  { vm.stack.push(v) }
func (vm *VM) pop() cell    { return vm.stack.pop() }
func (vm *VM) rpush(v cell) { vm.rstack.push(v) }
func (vm *VM) rpop() cell   { return vm.rstack.pop() }

// memFault turns any memory limit error into a fault.
func memFault(err error) {
	if err == nil {
		return
	}
	var lim mem.LimitError
	if errors.As(err, &lim) {
		panic(fault(lim.Error()))
	}
	panic(err)
}

func (vm *VM) load(addr cell) cell {
	v, err := vm.data.Load(int(addr))
	memFault(err)
	return v
}

func (vm *VM) stor(addr cell, v cell) {
	memFault(vm.data.Stor(int(addr), v))
}

func (vm *VM) loadByte(addr cell) byte {
	b, err := vm.data.LoadByte(int(addr))
	memFault(err)
	return b
}

func (vm *VM) storByte(addr cell, b byte) {
	memFault(vm.data.StorByte(int(addr), b))
}

func (vm *VM) loadBytes(addr, n cell) []byte {
	if n < 0 {
		panic(faultf("bad length %v", n))
	}
	if lim := vm.data.Cap() * cellBytes; n > 0 && int(addr)+int(n) > lim {
		vm.loadByte(cell(max(int(addr), lim)))
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = vm.loadByte(addr + cell(i))
	}
	return buf
}

func (vm *VM) loadCode(addr int) cell {
	v, err := vm.code.Load(addr)
	memFault(err)
	return v
}

func (vm *VM) storCode(addr int, v cell) {
	memFault(vm.code.Stor(addr, v))
}

// ccomma appends a cell to code space.
func (vm *VM) ccomma(v cell) {
	if vm.hereCode >= vm.code.Cap() {
		panic(errCodeFull)
	}
	vm.storCode(vm.hereCode, v)
	vm.hereCode++
}

// dcomma appends a cell to data space.
func (vm *VM) dcomma(v cell) {
	if vm.hereData >= vm.data.Cap() {
		panic(errDataFull)
	}
	vm.stor(cell(vm.hereData), v)
	vm.hereData++
}

// allot reserves n data cells, or releases them when n is negative.
func (vm *VM) allot(n int) {
	here := vm.hereData + n
	if here > vm.data.Cap() {
		panic(errDataFull)
	}
	if here < reservedCells {
		panic(faultf("ALLOT below reserved data @%v", here))
	}
	vm.hereData = here
}

// allocString copies p into freshly allotted data space, returning its byte
// address; the last cell is zero padded.
func (vm *VM) allocString(p []byte) cell {
	n := (len(p) + cellBytes - 1) / cellBytes
	if vm.hereData+n > vm.data.Cap() {
		panic(errDataFull)
	}
	at := vm.hereData
	memFault(vm.data.Clear(at, n))
	memFault(vm.data.StorBytes(at*cellBytes, p))
	vm.hereData += n
	return cell(at * cellBytes)
}

func (vm *VM) state() cell { return vm.load(addrState) }

func (vm *VM) setState(v cell) { vm.stor(addrState, v) }

// base returns the current numeric conversion radix.
func (vm *VM) base() int { return int(vm.load(addrBase)) }
