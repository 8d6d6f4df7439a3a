package main

//// Reserved Data Introspection

// Each of these pushes the cell address of a system variable; TIB pushes the
// byte address of the terminal input buffer.

func (vm *VM) stateAddr() { vm.push(addrState) }
func (vm *VM) baseAddr()  { vm.push(addrBase) }
func (vm *VM) inAddr()    { vm.push(addrIn) }
func (vm *VM) ntibAddr()  { vm.push(addrNTIB) }
func (vm *VM) tibAddr()   { vm.push(tibByteAddr) }

// ( -- baddr len )
func (vm *VM) source() {
	vm.push(tibByteAddr)
	vm.push(vm.load(addrNTIB))
}

//// Line Input

// REFILL ( -- flag ) reads the next input line into the terminal input
// buffer, dropping carriage returns and any bytes past its capacity; flag is
// false only at end of input.
func (vm *VM) refill() {
	n := 0
	for {
		c := vm.key()
		if c < 0 {
			if n == 0 {
				vm.stor(addrNTIB, 0)
				vm.push(0)
				return
			}
			break
		}
		if c == '\r' {
			continue
		}
		if c == '\n' {
			break
		}
		if n < tibBytes-1 {
			vm.storByte(cell(tibByteAddr+n), byte(c))
			n++
		}
	}
	vm.storByte(cell(tibByteAddr+n), 0)
	vm.stor(addrNTIB, cell(n))
	vm.stor(addrIn, 0)
	vm.push(-1)
}

// PARSE ( delim -- baddr len ) skips leading delimiters, then takes bytes up
// to the next delimiter, advancing >IN past it. Once the terminal input
// buffer is used up, it parses straight from input instead, up to the end
// of line, copying the result into data space.
func (vm *VM) parse() {
	delim := byte(vm.pop())
	ntib := vm.load(addrNTIB)
	in := vm.load(addrIn)

	if in >= ntib {
		var buf []byte
		c := vm.key()
		for c >= 0 && c != '\n' && byte(c) == delim {
			c = vm.key()
		}
		for c >= 0 && c != '\n' && byte(c) != delim {
			if len(buf) < quoteMax-1 {
				buf = append(buf, byte(c))
			}
			c = vm.key()
		}
		vm.push(vm.allocString(buf))
		vm.push(cell(len(buf)))
		return
	}

	for in < ntib && vm.loadByte(tibByteAddr+in) == delim {
		in++
	}
	start := in
	for in < ntib && vm.loadByte(tibByteAddr+in) != delim {
		in++
	}
	end := in
	if in < ntib {
		in++
	}
	vm.stor(addrIn, in)
	vm.push(tibByteAddr + start)
	vm.push(end - start)
}

//// Lookup and Conversion

// FIND ( baddr len -- xt 1 | xt -1 | 0 ) -1 marks an immediate word.
func (vm *VM) find() {
	n, addr := vm.pop(), vm.pop()
	if n <= 0 {
		vm.push(0)
		return
	}
	if n > nameMax {
		n = nameMax
	}
	wi := vm.lookup(string(vm.loadBytes(addr, n)))
	if wi < 0 {
		vm.push(0)
		return
	}
	vm.push(wordToken(wi))
	if vm.entries[wi].immediate {
		vm.push(-1)
	} else {
		vm.push(1)
	}
}

// >NUMBER ( u baddr len -- u' baddr' len' ) accumulates digits in the
// current base until the first non-digit.
func (vm *VM) toNumber() {
	n, addr, acc := vm.pop(), vm.pop(), uint32(vm.pop())
	base := validBase(vm.base())
	i := cell(0)
	for ; i < n; i++ {
		dv := digitValue(vm.loadByte(addr + i))
		if dv < 0 || dv >= base {
			break
		}
		acc = acc*uint32(base) + uint32(dv)
	}
	vm.push(cell(acc))
	vm.push(addr + i)
	vm.push(n - i)
}

// NUMBER? ( baddr len -- n true | false )
func (vm *VM) numberQ() {
	n, addr := vm.pop(), vm.pop()
	if n <= 0 {
		vm.push(0)
		return
	}
	v, ok := parseNumber(string(vm.loadBytes(addr, n)), vm.base())
	if !ok {
		vm.push(0)
		return
	}
	vm.push(v)
	vm.push(-1)
}
