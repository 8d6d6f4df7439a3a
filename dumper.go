package main

import (
	"fmt"
	"io"
	"strings"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	// builtins includes the builtin primitive entries in dumps
	builtins bool
}

func (dump vmDumper) dump() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "# VM Dump\n")
	if vm.code == nil {
		fmt.Fprintf(dump.out, "  uninitialized\n")
		return
	}
	fmt.Fprintf(dump.out, "  ip: %v running: %v\n", vm.ip, vm.running)
	fmt.Fprintf(dump.out, "  here: code=%v data=%v\n", vm.hereCode, vm.hereData)
	fmt.Fprintf(dump.out, "  state: %v base: %v >in: %v #tib: %v\n",
		vm.peekData(addrState), vm.peekData(addrBase), vm.peekData(addrIn), vm.peekData(addrNTIB))
	fmt.Fprintf(dump.out, "  stack: %v\n", vm.stack.cells)
	fmt.Fprintf(dump.out, "  rstack: %v\n", vm.rstack.cells)

	fmt.Fprintf(dump.out, "# Dictionary\n")
	wi := vm.builtinEnds
	if dump.builtins {
		wi = 0
	}
	var buf strings.Builder
	for ; wi < len(vm.entries); wi++ {
		buf.Reset()
		fmt.Fprintf(&buf, "  #%v ", wi)
		dump.formatEntry(&buf, wi)
		buf.WriteByte('\n')
		io.WriteString(dump.out, buf.String())
	}
}

// see writes a single line describing entry wi.
func (dump vmDumper) see(wi int) {
	var buf strings.Builder
	dump.formatEntry(&buf, wi)
	buf.WriteByte('\n')
	io.WriteString(dump.out, buf.String())
}

func (dump vmDumper) formatEntry(buf *strings.Builder, wi int) {
	ent := &dump.vm.entries[wi]
	switch ent.kind {
	case kindPrimitive:
		fmt.Fprintf(buf, "%v primitive", ent.name)
	case kindColon:
		fmt.Fprintf(buf, ": %v", ent.name)
	default:
		fmt.Fprintf(buf, "CREATE %v @%v", ent.name, ent.pfa)
	}
	if ent.immediate {
		buf.WriteString(" immediate")
	}
	switch ent.kind {
	case kindColon:
		dump.formatCode(buf, ent.pfa)
	case kindDoes:
		buf.WriteString(" DOES>")
		dump.formatCode(buf, ent.doesIP)
	}
}

// formatCode decompiles code from start up to the next colon body.
func (dump vmDumper) formatCode(buf *strings.Builder, start int) {
	end := dump.bodyEnd(start)
	fmt.Fprintf(buf, " @%v", start)
	for addr := start; addr < end; {
		buf.WriteByte(' ')
		addr = dump.formatInstr(buf, addr, end)
	}
}

func (dump vmDumper) bodyEnd(start int) int {
	end := dump.vm.hereCode
	for _, ent := range dump.vm.entries {
		if ent.kind == kindColon && ent.pfa > start && ent.pfa < end {
			end = ent.pfa
		}
	}
	return end
}

func (dump vmDumper) formatInstr(buf *strings.Builder, addr, end int) int {
	vm := dump.vm
	instr, _ := vm.code.Load(addr)
	addr++
	buf.WriteString(vm.instrName(instr))

	format := ""
	switch vm.primOf(instr) {
	case vm.xt.lit:
		format = "(%v)"
	case vm.xt.branch, vm.xt.zbranch, vm.xt.loop, vm.xt.plusLoop:
		format = "(%+d)"
	}
	if format != "" && addr < end {
		operand, _ := vm.code.Load(addr)
		fmt.Fprintf(buf, format, operand)
		addr++
	}
	return addr
}

// peekData loads a data cell without faulting.
func (vm *VM) peekData(addr int) cell {
	v, _ := vm.data.Load(addr)
	return v
}
