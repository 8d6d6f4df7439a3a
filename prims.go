package main

const primMax = 256

type primitive struct {
	name string
	fn   func(vm *VM)
}

type primFlags uint8

const (
	// primImmediate words run even while compiling.
	primImmediate primFlags = 1 << iota

	// primInternal primitives get no dictionary entry; they are only reached
	// through an entry's kind.
	primInternal
)

type builtin struct {
	name  string
	fn    func(vm *VM)
	flags primFlags
}

// builtins in registration order; primitive tokens are indices into it.
var builtins = [...]builtin{
	{"EXIT", (*VM).exit, 0},
	{"LIT", (*VM).lit, 0},
	{"BRANCH", (*VM).branch, 0},
	{"0BRANCH", (*VM).zbranch, 0},
	{"DOCOL", (*VM).docol, primInternal},
	{"DOVAR", (*VM).dovar, primInternal},
	{"DODOES", (*VM).dodoes, primInternal},

	{"DROP", (*VM).drop, 0},
	{"DUP", (*VM).dup, 0},
	{"SWAP", (*VM).swap, 0},
	{"OVER", (*VM).over, 0},
	{"+", (*VM).plus, 0},
	{"-", (*VM).minus, 0},
	{"*", (*VM).star, 0},
	{"AND", (*VM).and, 0},
	{"OR", (*VM).or, 0},
	{"XOR", (*VM).xor, 0},
	{"0=", (*VM).zeroEqual, 0},
	{"0<", (*VM).zeroLess, 0},
	{"@", (*VM).fetch, 0},
	{"!", (*VM).store, 0},
	{"C@", (*VM).cfetch, 0},
	{"C!", (*VM).cstore, 0},
	{">R", (*VM).toR, 0},
	{"R>", (*VM).fromR, 0},
	{"R@", (*VM).rfetch, 0},

	{"DO", (*VM).do, primImmediate},
	{"LOOP", (*VM).loop, primImmediate},
	{"+LOOP", (*VM).plusLoop, primImmediate},
	{"I", (*VM).loopI, 0},
	{"J", (*VM).loopJ, 0},
	{"UNLOOP", (*VM).unloop, 0},

	{"HERE", (*VM).here, 0},
	{"ALLOT", (*VM).allotPrim, 0},
	{",", (*VM).comma, 0},
	{"HEREC", (*VM).herec, 0},
	{"CODE@", (*VM).codeFetch, 0},
	{"CODE!", (*VM).codeStore, 0},
	{",C", (*VM).codeComma, 0},

	{"EMIT", (*VM).emit, 0},
	{"KEY", (*VM).keyPrim, 0},
	{".", (*VM).dot, 0},
	{"IO@", (*VM).ioFetch, 0},
	{"IO!", (*VM).ioStore, 0},
	{"IOCTL", (*VM).ioctl, 0},
	{"TYPE", (*VM).typePrim, 0},
	{"PROMPT-ON", (*VM).promptOn, 0},
	{"PROMPT-OFF", (*VM).promptOff, 0},
	{"BYE", (*VM).bye, 0},
	{`(ABORT")`, (*VM).abortQuoteRun, 0},
	{`S"`, (*VM).sQuote, primImmediate},
	{`."`, (*VM).dotQuote, primImmediate},
	{`ABORT"`, (*VM).abortQuote, primImmediate},
	{"EXECUTE", (*VM).executePrim, 0},
	{"(", (*VM).paren, primImmediate},

	{"STATE", (*VM).stateAddr, 0},
	{"BASE", (*VM).baseAddr, 0},
	{">IN", (*VM).inAddr, 0},
	{"#TIB", (*VM).ntibAddr, 0},
	{"TIB", (*VM).tibAddr, 0},
	{"SOURCE", (*VM).source, 0},
	{"REFILL", (*VM).refill, 0},
	{"PARSE", (*VM).parse, 0},
	{"FIND", (*VM).find, 0},
	{"'", (*VM).tick, 0},
	{"[']", (*VM).bracketTick, primImmediate},
	{"POSTPONE", (*VM).postpone, primImmediate},
	{"(POSTPONE)", (*VM).postponeRun, 0},
	{"[", (*VM).leftBracket, primImmediate},
	{"]", (*VM).rightBracket, primImmediate},
	{">NUMBER", (*VM).toNumber, 0},
	{"NUMBER?", (*VM).numberQ, 0},
	{"ABORT", (*VM).abort, 0},
	{"/MOD", (*VM).slashMod, 0},
	{"LSHIFT", (*VM).lshift, 0},
	{"RSHIFT", (*VM).rshift, 0},
	{"DEPTH", (*VM).depth, 0},
	{".S", (*VM).dotS, 0},
	{"WORDS", (*VM).words, 0},

	{":", (*VM).colon, primImmediate},
	{";", (*VM).semicolon, primImmediate},
	{"IMMEDIATE", (*VM).immediate, primImmediate},
	{"CREATE", (*VM).create, 0},
	{"DOES>", (*VM).does, primImmediate},
	{"(DOES>)", (*VM).doesRun, 0},

	{`\`, (*VM).backslash, primImmediate},
	{"SEE", (*VM).see, 0},
}

// wellKnown holds the primitive tokens, and entry indices, that the VM
// compiles or dispatches by itself.
type wellKnown struct {
	exit, lit, branch, zbranch int
	docol, dovar, dodoes       int
	do, loop, plusLoop         int
	doesRun, postponeRun       int

	litWord, typeWord, abortQuoteWord int
}

func (vm *VM) registerBuiltins() {
	for _, b := range builtins {
		xt := vm.addPrimitive(b.name, b.fn)
		if b.flags&primInternal == 0 {
			wi := vm.add(b.name, kindPrimitive, b.flags&primImmediate != 0)
			vm.entries[wi].xt = xt
		}
	}
	vm.xt = wellKnown{
		exit:        vm.primID("EXIT"),
		lit:         vm.primID("LIT"),
		branch:      vm.primID("BRANCH"),
		zbranch:     vm.primID("0BRANCH"),
		docol:       vm.primID("DOCOL"),
		dovar:       vm.primID("DOVAR"),
		dodoes:      vm.primID("DODOES"),
		do:          vm.primID("DO"),
		loop:        vm.primID("LOOP"),
		plusLoop:    vm.primID("+LOOP"),
		doesRun:     vm.primID("(DOES>)"),
		postponeRun: vm.primID("(POSTPONE)"),

		litWord:        vm.lookup("LIT"),
		typeWord:       vm.lookup("TYPE"),
		abortQuoteWord: vm.lookup(`(ABORT")`),
	}
}

func (vm *VM) addPrimitive(name string, fn func(vm *VM)) int {
	if len(vm.prims) >= primMax {
		panic(errPrimFull)
	}
	vm.prims = append(vm.prims, primitive{name, fn})
	return len(vm.prims) - 1
}

func (vm *VM) primID(name string) int {
	for xt, prim := range vm.prims {
		if prim.name == name {
			return xt
		}
	}
	panic(faultf("no primitive named %v", name))
}

// primOf returns the primitive token behind a code cell, or -1 if it
// dispatches to a non-primitive entry.
func (vm *VM) primOf(instr cell) int {
	if !isWordToken(instr) {
		return int(instr)
	}
	if wi := wordIndex(instr); vm.validWord(wi) && vm.entries[wi].kind == kindPrimitive {
		return vm.entries[wi].xt
	}
	return -1
}
