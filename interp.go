package main

import (
	"context"

	"github.com/jcorbin/kforth/internal/panicerr"
)

//// Outer Interpreter

const tokenMax = 127

func isSpace(c int) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// nextToken reads the next whitespace delimited token, truncated to
// tokenMax bytes, recording the byte that ended it in tokenDelim.
func (vm *VM) nextToken() (string, bool) {
	c := vm.key()
	for c >= 0 && isSpace(c) {
		c = vm.key()
	}
	if c < 0 {
		return "", false
	}
	var token []byte
	for c >= 0 && !isSpace(c) {
		if len(token) < tokenMax {
			token = append(token, byte(c))
		}
		c = vm.key()
	}
	vm.tokenDelim = c
	return string(token), true
}

// interpret runs or compiles one token: a word, else a number in the
// current base.
func (vm *VM) interpret(token string) {
	vm.compiling = vm.state() != 0
	if wi := vm.lookup(token); wi >= 0 {
		if !vm.compiling || vm.entries[wi].immediate {
			vm.execute(wi)
		} else {
			vm.compileWord(wi)
		}
		return
	}
	if v, ok := parseNumber(token, vm.base()); ok {
		if vm.compiling {
			vm.compileLit(v)
		} else {
			vm.push(v)
		}
		return
	}
	panic(fault(token))
}

func isRecoverable(v interface{}) bool {
	switch v.(type) {
	case fault, abortSignal:
		return true
	}
	return false
}

// interpretToken is the recovery checkpoint: any fault or abort raised
// while handling token unwinds to here, leaving the VM reset.
func (vm *VM) interpretToken(token string) (recovered bool) {
	if vm.logfn != nil {
		vm.logf("#", "%v %q", vm.in.Location(), token)
	}
	caught := panicerr.Catch(func() { vm.interpret(token) }, isRecoverable)
	if caught == nil {
		return false
	}
	if f, ok := caught.(fault); ok {
		vm.logf("!", "fault: %v", f)
		vm.freshLine()
		vm.writeString("? " + string(f) + "\n")
		vm.reset()
	}
	return true
}

// discardLine skips input through the end of the current line.
func (vm *VM) discardLine() {
	for c := vm.key(); c >= 0 && c != '\n'; c = vm.key() {
	}
	vm.tokenDelim = '\n'
}

func (vm *VM) run(ctx context.Context) error {
	vm.ctx = ctx
	vm.init()
	for {
		token, ok := vm.nextToken()
		if !ok {
			return nil
		}
		recovered := vm.interpretToken(token)
		if recovered {
			if d := vm.tokenDelim; d >= 0 && d != '\n' && d != '\r' {
				vm.discardLine()
			}
		}
		if vm.promptMode && (recovered || vm.tokenDelim == '\n') {
			vm.writeString("\nok ")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
