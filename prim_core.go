package main

//// Stack Operations

// ( a -- )
func (vm *VM) drop() { vm.pop() }

// ( a -- a a )
func (vm *VM) dup() { vm.push(vm.stack.pick(0)) }

// ( a b -- b a )
func (vm *VM) swap() { b, a := vm.pop(), vm.pop(); vm.push(b); vm.push(a) }

// ( a b -- a b a )
func (vm *VM) over() { vm.push(vm.stack.pick(1)) }

// ( -- n ) pushes the data stack depth before the push
func (vm *VM) depth() { vm.push(cell(vm.stack.depth())) }

//// Integer Operations

// All arithmetic wraps around at 32 bits.

func (vm *VM) plus()  { b, a := vm.pop(), vm.pop(); vm.push(a + b) }
func (vm *VM) minus() { b, a := vm.pop(), vm.pop(); vm.push(a - b) }
func (vm *VM) star()  { b, a := vm.pop(), vm.pop(); vm.push(a * b) }
func (vm *VM) and()   { b, a := vm.pop(), vm.pop(); vm.push(a & b) }
func (vm *VM) or()    { b, a := vm.pop(), vm.pop(); vm.push(a | b) }
func (vm *VM) xor()   { b, a := vm.pop(), vm.pop(); vm.push(a ^ b) }

func (vm *VM) zeroEqual() { vm.push(boolFlag(vm.pop() == 0)) }
func (vm *VM) zeroLess()  { vm.push(boolFlag(vm.pop() < 0)) }

// ( a b -- rem quot ) truncating division
func (vm *VM) slashMod() {
	b, a := vm.pop(), vm.pop()
	if b == 0 {
		panic(errDivZero)
	}
	vm.push(a % b)
	vm.push(a / b)
}

// Shifts are logical; shifting by 32 or more yields 0.

// ( x u -- x<<u )
func (vm *VM) lshift() {
	u, x := uint32(vm.pop()), uint32(vm.pop())
	if u >= cellBits {
		vm.push(0)
		return
	}
	vm.push(cell(x << u))
}

// ( x u -- x>>u )
func (vm *VM) rshift() {
	u, x := uint32(vm.pop()), uint32(vm.pop())
	if u >= cellBits {
		vm.push(0)
		return
	}
	vm.push(cell(x >> u))
}

//// Memory Operations

// Data addresses are cell indices for @ and !, but byte addresses for C@
// and C!.

// ( addr -- x )
func (vm *VM) fetch() { vm.push(vm.load(vm.pop())) }

// ( x addr -- )
func (vm *VM) store() { addr := vm.pop(); vm.stor(addr, vm.pop()) }

// ( baddr -- b )
func (vm *VM) cfetch() { vm.push(cell(vm.loadByte(vm.pop()))) }

// ( b baddr -- )
func (vm *VM) cstore() { addr := vm.pop(); vm.storByte(addr, byte(vm.pop())) }

// ( -- addr ) next free data cell
func (vm *VM) here() { vm.push(cell(vm.hereData)) }

// ( n -- )
func (vm *VM) allotPrim() { vm.allot(int(vm.pop())) }

// ( x -- )
func (vm *VM) comma() { vm.dcomma(vm.pop()) }

// ( -- addr ) next free code cell
func (vm *VM) herec() { vm.push(cell(vm.hereCode)) }

// ( addr -- x )
func (vm *VM) codeFetch() { vm.push(vm.loadCode(int(vm.pop()))) }

// ( x addr -- )
func (vm *VM) codeStore() { addr := vm.pop(); vm.storCode(int(addr), vm.pop()) }

// ( x -- )
func (vm *VM) codeComma() { vm.ccomma(vm.pop()) }

//// Return Stack Operations

func (vm *VM) toR()    { vm.rpush(vm.pop()) }
func (vm *VM) fromR()  { vm.push(vm.rpop()) }
func (vm *VM) rfetch() { vm.push(vm.rstack.pick(0)) }
