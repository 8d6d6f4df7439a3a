package main

//// Defining Words

// nextName reads the name token that a defining word needs.
func (vm *VM) nextName(what string) string {
	name, ok := vm.nextToken()
	if !ok {
		panic(faultf("%v needs a name", what))
	}
	return name
}

func (vm *VM) addWord(name string, kind entryKind) int {
	wi := vm.add(name, kind, false)
	vm.logf("+", "%v %v #%v", kind, vm.entries[wi].name, wi)
	return wi
}

// : NAME starts compiling a colon definition.
func (vm *VM) colon() {
	wi := vm.addWord(vm.nextName(":"), kindColon)
	vm.entries[wi].pfa = vm.hereCode
	vm.compiling = true
	vm.currentDef = wi
	vm.setState(1)
}

// ; ends the open colon definition.
func (vm *VM) semicolon() {
	if vm.currentDef < 0 {
		panic(fault("; outside of definition"))
	}
	vm.ccomma(cell(vm.xt.exit))
	vm.compiling = false
	vm.currentDef = -1
	vm.setState(0)
}

// IMMEDIATE marks the latest word immediate.
func (vm *VM) immediate() {
	if vm.latest < 0 {
		panic(fault("IMMEDIATE without a word"))
	}
	vm.entries[vm.latest].immediate = true
}

// CREATE NAME defines a word that pushes its data field address, which is
// the next free data cell.
func (vm *VM) create() {
	wi := vm.addWord(vm.nextName("CREATE"), kindVariable)
	vm.entries[wi].pfa = vm.hereData
	vm.lastCreated = wi
}

// DOES> ends the defining part of a word; the rest of its body becomes the
// runtime behavior of the word last CREATE-d when it runs.
func (vm *VM) does() {
	if vm.state() == 0 {
		panic(fault("DOES> outside of definition"))
	}
	vm.ccomma(cell(vm.xt.doesRun))
}

func (vm *VM) doesRun() {
	if !vm.running {
		panic(fault("(DOES>) compile only"))
	}
	if vm.lastCreated < 0 {
		panic(errNoCreate)
	}
	ent := &vm.entries[vm.lastCreated]
	ent.kind = kindDoes
	ent.doesIP = vm.ip
	vm.exit()
}

// [ switches to interpreting.
func (vm *VM) leftBracket() { vm.setState(0) }

// ] switches back to compiling, only within a definition.
func (vm *VM) rightBracket() {
	if vm.currentDef >= 0 {
		vm.setState(1)
	}
}

//// Execution Tokens

// resolveNext finds the word named next: parsed out of the terminal input
// buffer if it has any left, read from input otherwise.
func (vm *VM) resolveNext(what string) cell {
	if vm.load(addrIn) < vm.load(addrNTIB) {
		vm.push(' ')
		vm.parse()
		vm.find()
		if vm.pop() != 0 {
			return vm.pop()
		}
	}
	name, ok := vm.nextToken()
	if !ok {
		panic(faultf("%v needs a name", what))
	}
	wi := vm.lookup(name)
	if wi < 0 {
		panic(faultf("%v %v ?", what, name))
	}
	return wordToken(wi)
}

// ' NAME ( -- xt )
func (vm *VM) tick() { vm.push(vm.resolveNext("'")) }

// ['] NAME compiles NAME's execution token as a literal.
func (vm *VM) bracketTick() {
	xt := vm.resolveNext("[']")
	if vm.state() == 0 {
		panic(fault("['] outside of definition"))
	}
	vm.compileLit(xt)
}

// POSTPONE NAME compiles deferred compilation semantics for NAME: an
// immediate word runs when the definition being compiled runs, any other
// word gets compiled by it.
func (vm *VM) postpone() {
	xt := vm.resolveNext("POSTPONE")
	if vm.state() == 0 {
		panic(fault("POSTPONE outside of definition"))
	}
	vm.compileLit(xt)
	vm.ccomma(cell(vm.xt.postponeRun))
}

// ( xt -- )
func (vm *VM) postponeRun() {
	xt := vm.pop()
	if !isWordToken(xt) || !vm.validWord(wordIndex(xt)) {
		panic(faultf("(POSTPONE) bad xt %v", xt))
	}
	wi := wordIndex(xt)
	if vm.state() != 0 && !vm.entries[wi].immediate {
		vm.compileWord(wi)
		return
	}
	vm.execute(wi)
}
