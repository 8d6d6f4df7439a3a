package main

import "strings"

const quoteMax = 1024

//// Console I/O

// ( b -- )
func (vm *VM) emit() { vm.writeByte(byte(vm.pop())) }

// ( -- b ) blocks for the next input byte; 0 at end of input
func (vm *VM) keyPrim() {
	c := vm.key()
	if c < 0 {
		c = 0
	}
	vm.push(cell(c))
}

// ( n -- ) prints n in the current base, followed by a space
func (vm *VM) dot() {
	vm.writeString(formatNumber(vm.pop(), vm.base()))
	vm.writeByte(' ')
}

// ( baddr len -- )
func (vm *VM) typePrim() {
	n, addr := vm.pop(), vm.pop()
	if n < 0 {
		panic(faultf("TYPE bad length %v", n))
	}
	for i := cell(0); i < n; i++ {
		vm.writeByte(vm.loadByte(addr + i))
	}
}

// .S prints the data stack depth and contents, bottom first, without
// changing it.
func (vm *VM) dotS() {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(formatNumber(cell(vm.stack.depth()), 10))
	sb.WriteString("> ")
	for _, v := range vm.stack.cells {
		sb.WriteString(formatNumber(v, vm.base()))
		sb.WriteByte(' ')
	}
	vm.writeString(sb.String())
}

// WORDS lists dictionary names, newest first.
func (vm *VM) words() {
	var sb strings.Builder
	for wi := vm.latest; wi >= 0; wi = vm.entries[wi].link {
		sb.WriteString(vm.entries[wi].name)
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	vm.writeString(sb.String())
}

// SEE NAME describes a word, decompiling any code it runs.
func (vm *VM) see() {
	name := vm.nextName("SEE")
	wi := vm.lookup(name)
	if wi < 0 {
		panic(faultf("SEE %v ?", name))
	}
	var sb strings.Builder
	vmDumper{vm: vm, out: &sb}.see(wi)
	vm.writeString(sb.String())
}

//// Device I/O

// Flags are true (-1) when the device operation succeeded.

// ( h -- b flag )
func (vm *VM) ioFetch() {
	h := vm.pop()
	b, ok := vm.dev.At(h)
	vm.push(b)
	vm.push(boolFlag(ok))
}

// ( b h -- flag )
func (vm *VM) ioStore() {
	h, b := vm.pop(), vm.pop()
	vm.push(boolFlag(vm.dev.Put(h, b)))
}

// ( x req h -- y flag )
func (vm *VM) ioctl() {
	h, req, x := vm.pop(), vm.pop(), vm.pop()
	y, ok := vm.dev.Ctl(h, req, x)
	vm.push(y)
	vm.push(boolFlag(ok))
}

//// Session Control

// PROMPT-ON enters interactive mode with a clean slate.
func (vm *VM) promptOn() {
	vm.stack.clear()
	if !vm.running {
		vm.rstack.clear()
	}
	vm.compiling = false
	vm.currentDef = -1
	vm.setState(0)
	vm.promptMode = true
}

func (vm *VM) promptOff() { vm.promptMode = false }

func (vm *VM) bye() { vm.halt(errBye) }

// ABORT clears both stacks and returns to interpreting, discarding the rest
// of the input line.
func (vm *VM) abort() {
	vm.logf("!", "abort")
	vm.reset()
	panic(abortSignal{})
}

func (vm *VM) abortMessage(msg []byte) {
	vm.freshLine()
	vm.writeString(string(msg))
	vm.writeByte('\n')
	vm.abort()
}

//// String Literals

// readQuoted reads input up to a closing double quote; a backslash escapes
// a double quote, any other backslash is kept as is.
func (vm *VM) readQuoted() []byte {
	var buf []byte
	for {
		c := vm.key()
		if c < 0 {
			panic(errUnterminated)
		}
		if c == '"' {
			return buf
		}
		if c == '\\' {
			if c = vm.key(); c < 0 {
				panic(errUnterminated)
			}
			if c != '"' {
				buf = append(buf, '\\')
			}
		}
		if len(buf) >= quoteMax-1 {
			panic(errStringLong)
		}
		buf = append(buf, byte(c))
	}
}

// compileQuoted compiles pushing the address and length of a string
// literal read into data space.
func (vm *VM) compileQuoted(s []byte) {
	vm.compileLit(vm.allocString(s))
	vm.compileLit(cell(len(s)))
}

// S" ( -- baddr len )
func (vm *VM) sQuote() {
	s := vm.readQuoted()
	if vm.state() != 0 {
		vm.compileQuoted(s)
		return
	}
	vm.push(vm.allocString(s))
	vm.push(cell(len(s)))
}

// ." prints the string, now or when the definition runs.
func (vm *VM) dotQuote() {
	s := vm.readQuoted()
	if vm.state() != 0 {
		vm.compileQuoted(s)
		vm.compileWord(vm.xt.typeWord)
		return
	}
	vm.writeString(string(s))
}

// ABORT" ( flag -- ) aborts with the string as message if flag is true.
func (vm *VM) abortQuote() {
	s := vm.readQuoted()
	if vm.state() != 0 {
		vm.compileQuoted(s)
		vm.compileWord(vm.xt.abortQuoteWord)
		return
	}
	if vm.pop() != 0 {
		vm.abortMessage(s)
	}
}

// ( flag baddr len -- )
func (vm *VM) abortQuoteRun() {
	n, addr, flag := vm.pop(), vm.pop(), vm.pop()
	if flag == 0 {
		return
	}
	vm.abortMessage(vm.loadBytes(addr, n))
}

//// Comments

// ( skips input through the next closing paren.
func (vm *VM) paren() {
	for c := vm.key(); c >= 0 && c != ')'; c = vm.key() {
	}
}

// \ skips the rest of the input line.
func (vm *VM) backslash() {
	for c := vm.key(); c >= 0; c = vm.key() {
		if c == '\n' {
			vm.tokenDelim = c
			return
		}
	}
	vm.tokenDelim = -1
}
