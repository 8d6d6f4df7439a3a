package main

import (
	"bytes"
	"io"
)

//// Prelude

// The prelude builds the rest of the usual vocabulary out of primitives,
// starting with control structures.

var prelude = preludeSource{}

type preludeSource struct{}

func (preludeSource) Name() string { return "prelude.fs" }

func (preludeSource) WriteTo(w io.Writer) (n int64, err error) {
	flush := func(wto io.WriterTo) {
		if err != nil {
			return
		}
		var m int64
		m, err = wto.WriteTo(w)
		n += m
	}

	var buf bytes.Buffer
	line := func(parts ...string) {
		if err == nil {
			for _, s := range parts {
				buf.WriteString(s)
			}
			buf.WriteByte('\n')
			flush(&buf)
		}
	}

	// Invoked by name while compiling, the branch primitives append
	// themselves and an offset placeholder, leaving the placeholder address
	// on the stack. Resolving a forward branch stores the distance from the
	// cell after the placeholder to HEREC; resolving a backward one stores
	// the distance to an address left by BEGIN.
	line(`: >RESOLVE HEREC OVER 1 + - SWAP CODE! ;`)
	line(`: <RESOLVE SWAP OVER 1 + - SWAP CODE! ;`)

	line(`: IF 0BRANCH ; IMMEDIATE`)
	line(`: AHEAD BRANCH ; IMMEDIATE`)
	line(`: THEN >RESOLVE ; IMMEDIATE`)

	// ELSE skips over the false branch, and then resolves IF to land after
	// that skip.
	line(`: ELSE BRANCH SWAP POSTPONE THEN ; IMMEDIATE`)

	line(`: BEGIN HEREC ; IMMEDIATE`)
	line(`: UNTIL 0BRANCH <RESOLVE ; IMMEDIATE`)
	line(`: AGAIN BRANCH <RESOLVE ; IMMEDIATE`)
	line(`: WHILE 0BRANCH SWAP ; IMMEDIATE`)
	line(`: REPEAT POSTPONE AGAIN POSTPONE THEN ; IMMEDIATE`)

	// Stack shuffling.
	line(`: NIP SWAP DROP ;`)
	line(`: ROT >R SWAP R> SWAP ;`)
	line(`: -ROT ROT ROT ;`)
	line(`: TUCK SWAP OVER ;`)
	line(`: 2DUP OVER OVER ;`)
	line(`: 2DROP DROP DROP ;`)
	line(`: ?DUP DUP IF DUP THEN ;`)

	// Arithmetic and comparison; flags are -1 for true.
	line(`: TRUE -1 ;`)
	line(`: FALSE 0 ;`)
	line(`: 1+ 1 + ;`)
	line(`: 1- 1 - ;`)
	line(`: NEGATE 0 SWAP - ;`)
	line(`: INVERT -1 XOR ;`)
	line(`: = - 0= ;`)
	line(`: <> = 0= ;`)
	line(`: < - 0< ;`)
	line(`: > SWAP < ;`)
	line(`: 0> 0 SWAP < ;`)
	line(`: ABS DUP 0< IF NEGATE THEN ;`)
	line(`: / /MOD NIP ;`)
	line(`: MOD /MOD DROP ;`)
	line(`: MAX 2DUP < IF SWAP THEN DROP ;`)
	line(`: MIN 2DUP > IF SWAP THEN DROP ;`)

	// Data words; @ and ! address whole cells, so CELLS is the identity.
	line(`: CELLS ;`)
	line(`: CELL+ 1 + ;`)
	line(`: VARIABLE CREATE 0 , ;`)
	line(`: CONSTANT CREATE , DOES> @ ;`)
	line(`: +! DUP @ ROT + SWAP ! ;`)
	line(`: ? @ . ;`)
	line(`: DECIMAL 10 BASE ! ;`)
	line(`: HEX 16 BASE ! ;`)

	// Output.
	line(`: BL 32 ;`)
	line(`: CR 10 EMIT ;`)
	line(`: SPACE BL EMIT ;`)
	line(`: SPACES BEGIN DUP 0> WHILE SPACE 1- REPEAT DROP ;`)

	// Compiling literals and characters.
	line(`: LITERAL ['] LIT ,C ,C ; IMMEDIATE`)
	line(`: CHAR BL PARSE DROP C@ ;`)
	line(`: [CHAR] CHAR POSTPONE LITERAL ; IMMEDIATE`)

	return n, err
}
