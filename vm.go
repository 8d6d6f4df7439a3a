package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jcorbin/kforth/internal/byteio"
	"github.com/jcorbin/kforth/internal/device"
	"github.com/jcorbin/kforth/internal/mem"
)

// VM is a kFORTH machine. Code and data live in separate cell memories:
// code space holds threaded instruction streams, data space holds the
// system variables, the terminal input buffer, and anything CREATE-d or
// allotted after them. Both stacks live outside of either memory.
type VM struct {
	ioCore
	sizes Sizes

	code     *mem.Cells
	data     *mem.Cells
	hereCode int
	hereData int

	stack  cellStack
	rstack cellStack

	dictionary
	prims []primitive
	xt    wellKnown

	// thread state; epochBase is the return stack depth below which EXIT
	// ends the innermost running thread
	ip        int
	running   bool
	epochBase int

	// current is the entry being dispatched, or -1 when dispatching a raw
	// primitive token
	current int

	// compiling mirrors STATE at the start of each outer interpreter token
	compiling   bool
	currentDef  int
	lastCreated int

	tokenDelim  int
	promptMode  bool
	builtinEnds int

	ctx   context.Context
	ready bool
}

// Sizes bounds every VM memory; zero fields take their default.
type Sizes struct {
	CodeCells   int
	DataCells   int
	DataStack   int
	ReturnStack int
	Dictionary  int
}

// DefaultSizes are the sizes of a VM built without a WithSizes option.
var DefaultSizes = Sizes{
	CodeCells:   32768,
	DataCells:   32768,
	DataStack:   256,
	ReturnStack: 256,
	Dictionary:  2048,
}

func (sz Sizes) withDefaults() Sizes {
	def := func(n *int, d int) {
		if *n == 0 {
			*n = d
		}
	}
	def(&sz.CodeCells, DefaultSizes.CodeCells)
	def(&sz.DataCells, DefaultSizes.DataCells)
	def(&sz.DataStack, DefaultSizes.DataStack)
	def(&sz.ReturnStack, DefaultSizes.ReturnStack)
	def(&sz.Dictionary, DefaultSizes.Dictionary)
	return sz
}

func (sz Sizes) validate() error {
	switch {
	case sz.CodeCells < 0, sz.DataStack < 0, sz.ReturnStack < 0, sz.Dictionary < 0:
		return fmt.Errorf("invalid sizes %+v", sz)
	case sz.DataCells <= reservedCells:
		return fmt.Errorf("data memory must exceed %v reserved cells, have %v", reservedCells, sz.DataCells)
	}
	return nil
}

const wordTag = 0x80000000

// Code cells are either primitive tokens, which invoke a registry primitive
// directly, or word tokens, which carry the tag bit and name a dictionary
// entry index.
func isWordToken(c cell) bool { return uint32(c)&wordTag != 0 }
func wordToken(wi int) cell   { return cell(uint32(wi) | wordTag) }
func wordIndex(c cell) int    { return int(uint32(c) &^ wordTag) }

func (vm *VM) init() {
	if vm.ready {
		return
	}
	vm.ready = true

	sizes := vm.sizes.withDefaults()
	vm.haltif(sizes.validate())
	vm.sizes = sizes

	vm.code = mem.New("CODE", sizes.CodeCells)
	vm.data = mem.New("", sizes.DataCells)
	vm.hereCode = 0
	vm.hereData = reservedCells
	vm.stack = newCellStack(sizes.DataStack, errDataOverflow, errDataUnderflow)
	vm.rstack = newCellStack(sizes.ReturnStack, errRetOverflow, errRetUnderflow)
	vm.dictionary = dictionary{latest: -1, limit: sizes.Dictionary}

	vm.current = -1
	vm.currentDef = -1
	vm.lastCreated = -1
	vm.tokenDelim = '\n'

	vm.stor(addrBase, 10)
	vm.registerBuiltins()
	vm.builtinEnds = len(vm.entries)

	if vm.out == nil {
		vm.out = byteio.NewWriteFlusher(io.Discard)
	}
	if !vm.dev.Bound(0) {
		vm.dev.Bind(0, &device.Console{IO: consoleIO{&vm.ioCore}})
	}
}

// reset returns the VM to a clean interpreting state after an error. A
// colon definition left open is discarded along with its code.
func (vm *VM) reset() {
	if wi := vm.currentDef; wi >= 0 && wi == vm.latest && wi == len(vm.entries)-1 {
		vm.hereCode = vm.entries[wi].pfa
		vm.latest = vm.entries[wi].link
		vm.entries = vm.entries[:wi]
	}
	vm.stack.clear()
	vm.rstack.clear()
	vm.running = false
	vm.epochBase = 0
	vm.ip = 0
	vm.current = -1
	vm.compiling = false
	vm.currentDef = -1
	vm.setState(0)
	vm.stor(addrIn, vm.load(addrNTIB))
}

//// Threaded Code

// thread runs instructions from ip until the current epoch ends.
func (vm *VM) thread() {
	vm.running = true
	for vm.running {
		at := vm.ip
		instr := vm.loadCode(at)
		vm.ip++
		if vm.logfn != nil {
			vm.logf(">", "@%v %v r:%v s:%v", at, vm.instrName(instr), vm.rstack.cells, vm.stack.cells)
		}
		vm.dispatch(instr)
		if vm.ctx != nil {
			vm.haltif(vm.ctx.Err())
		}
	}
}

func (vm *VM) dispatch(instr cell) {
	if isWordToken(instr) {
		vm.execWord(wordIndex(instr))
	} else {
		vm.execPrim(int(instr))
	}
}

// execWord runs the behavior of entry wi: its primitive, or the DOCOL,
// DOVAR, or DODOES primitive matching its kind.
func (vm *VM) execWord(wi int) {
	if !vm.validWord(wi) {
		panic(faultf("bad word #%v", wi))
	}
	ent := &vm.entries[wi]
	xt := ent.xt
	switch ent.kind {
	case kindColon:
		xt = vm.xt.docol
	case kindVariable:
		xt = vm.xt.dovar
	case kindDoes:
		xt = vm.xt.dodoes
	}
	vm.current = wi
	vm.prims[xt].fn(vm)
}

func (vm *VM) execPrim(xt int) {
	if xt < 0 || xt >= len(vm.prims) {
		panic(faultf("bad primitive #%v", xt))
	}
	vm.current = -1
	vm.prims[xt].fn(vm)
}

// execute runs entry wi to completion; threaded words run in a nested epoch
// that ends when they return to the return stack depth they started at.
func (vm *VM) execute(wi int) {
	if !vm.validWord(wi) {
		panic(faultf("bad word #%v", wi))
	}
	if !vm.entries[wi].threaded() {
		vm.execWord(wi)
		return
	}
	if vm.logfn != nil {
		defer vm.withLogPrefix("\t")()
	}
	ip, running, epochBase := vm.ip, vm.running, vm.epochBase
	vm.epochBase = vm.rstack.depth()
	vm.execWord(wi)
	vm.thread()
	vm.ip, vm.running, vm.epochBase = ip, running, epochBase
}

// inline consumes the operand cell following the current instruction.
func (vm *VM) inline() cell {
	v := vm.loadCode(vm.ip)
	vm.ip++
	return v
}

func (vm *VM) currentEntry(name string) *entry {
	if vm.current < 0 {
		panic(faultf("%v without a word", name))
	}
	return &vm.entries[vm.current]
}

func (vm *VM) compileWord(wi int) { vm.ccomma(wordToken(wi)) }

func (vm *VM) compileLit(v cell) {
	vm.compileWord(vm.xt.litWord)
	vm.ccomma(v)
}

func (vm *VM) instrName(instr cell) string {
	if isWordToken(instr) {
		if wi := wordIndex(instr); vm.validWord(wi) {
			return vm.entries[wi].name
		}
		return fmt.Sprintf("?word#%v", wordIndex(instr))
	}
	if xt := int(instr); xt < len(vm.prims) {
		return vm.prims[xt].name
	}
	return fmt.Sprintf("?prim#%v", instr)
}
