package main

//// Threading Primitives

// docol enters a colon word's body, saving the return address.
func (vm *VM) docol() {
	ent := vm.currentEntry("DOCOL")
	vm.rpush(cell(vm.ip))
	vm.ip = ent.pfa
}

// dovar pushes a created word's data field address.
func (vm *VM) dovar() {
	vm.push(cell(vm.currentEntry("DOVAR").pfa))
}

// dodoes pushes a created word's data field address, and then runs the
// body that followed DOES> in its defining word.
func (vm *VM) dodoes() {
	ent := vm.currentEntry("DODOES")
	vm.push(cell(ent.pfa))
	vm.rpush(cell(vm.ip))
	vm.ip = ent.doesIP
}

// exit returns from the current threaded word; returning to the depth that
// the innermost epoch started at ends it.
func (vm *VM) exit() {
	vm.ip = int(vm.rpop())
	if vm.rstack.depth() <= vm.epochBase {
		vm.running = false
	}
}

// ( -- x ) pushes the inline cell that follows
func (vm *VM) lit() {
	if !vm.running {
		panic(fault("LIT compile only"))
	}
	vm.push(vm.inline())
}

//// Control Primitives

// The branch and loop primitives compile themselves when invoked by name
// while compiling, so that immediate words like IF can be written as
// ordinary colon definitions around them. Dispatched as raw primitive
// tokens, or by name while interpreting, they run.

func (vm *VM) compileMode(name string) bool {
	if vm.current >= 0 && vm.state() != 0 {
		return true
	}
	if !vm.running {
		panic(faultf("%v compile only", name))
	}
	return false
}

// compileForward appends xt and a zero branch offset, pushing the offset's
// address for a later resolve.
func (vm *VM) compileForward(xt int) {
	vm.ccomma(cell(xt))
	vm.push(cell(vm.hereCode))
	vm.ccomma(0)
}

// compileBackward appends xt and an offset back to the address popped.
func (vm *VM) compileBackward(xt int) {
	target := vm.pop()
	vm.ccomma(cell(xt))
	vm.ccomma(target - cell(vm.hereCode+1))
}

// Branch offsets are relative to the cell after the offset itself.

func (vm *VM) branch() {
	if vm.compileMode("BRANCH") {
		vm.compileForward(vm.xt.branch)
		return
	}
	off := vm.inline()
	vm.ip += int(off)
}

// ( flag -- ) branches if flag is zero
func (vm *VM) zbranch() {
	if vm.compileMode("0BRANCH") {
		vm.compileForward(vm.xt.zbranch)
		return
	}
	off := vm.inline()
	if vm.pop() == 0 {
		vm.ip += int(off)
	}
}

// ( limit index -- ) R: ( -- limit index )
func (vm *VM) do() {
	if vm.compileMode("DO") {
		vm.ccomma(cell(vm.xt.do))
		vm.push(cell(vm.hereCode))
		return
	}
	index, limit := vm.pop(), vm.pop()
	vm.rpush(limit)
	vm.rpush(index)
}

func (vm *VM) loop() {
	if vm.compileMode("LOOP") {
		vm.compileBackward(vm.xt.loop)
		return
	}
	off := vm.inline()
	index, limit := vm.rpop(), vm.rpop()
	if index++; index != limit {
		vm.rpush(limit)
		vm.rpush(index)
		vm.ip += int(off)
	}
}

// ( step -- )
func (vm *VM) plusLoop() {
	if vm.compileMode("+LOOP") {
		vm.compileBackward(vm.xt.plusLoop)
		return
	}
	off := vm.inline()
	step := vm.pop()
	index, limit := vm.rpop(), vm.rpop()
	next := index + step
	var more bool
	switch {
	case step > 0:
		more = next < limit
	case step < 0:
		more = next >= limit
	default:
		more = index != limit
	}
	if more {
		vm.rpush(limit)
		vm.rpush(next)
		vm.ip += int(off)
	}
}

// loopIndex returns the index of the loop nest levels out.
func (vm *VM) loopIndex(name string, nest int) cell {
	if vm.rstack.depth() < 2*(nest+1) {
		panic(faultf("%v outside of loop", name))
	}
	return vm.rstack.pick(2 * nest)
}

func (vm *VM) loopI() { vm.push(vm.loopIndex("I", 0)) }
func (vm *VM) loopJ() { vm.push(vm.loopIndex("J", 1)) }

func (vm *VM) unloop() {
	if vm.rstack.depth() < 2 {
		panic(fault("UNLOOP outside of loop"))
	}
	vm.rpop()
	vm.rpop()
}

// ( xt -- ) runs a word token to completion, or a raw primitive token
func (vm *VM) executePrim() {
	x := vm.pop()
	if isWordToken(x) {
		vm.execute(wordIndex(x))
		return
	}
	vm.execPrim(int(x))
}
