/* Package main: kFORTH -- a small FORTH on a threaded code VM

kFORTH keeps instructions and data apart: compiled words live in a code
memory of 32-bit cells, while variables, strings and the interpreter's own
state live in a separate data memory. A data stack and a return stack
complete the machine.

Section 1: Cells and Memory

Every value is a 32-bit cell. Code cells are instructions: a primitive token
is the index of a builtin primitive, run directly; a word token has its high
bit set, and the rest names a dictionary entry to run. Data memory is
addressed by cell for @ and !, but by byte for C@ and C!, so that strings
pack four bytes to a cell.

The first cells of data memory are reserved for the interpreter:

	0   STATE  non-zero while compiling
	1   BASE   numeric conversion radix
	2   >IN    parse offset into the terminal input buffer
	3   #TIB   length of the line in the terminal input buffer
	4+  TIB    256 bytes of terminal input buffer

Programs may read and write these cells, which is enough to write a line
oriented read loop in FORTH itself out of REFILL, PARSE, FIND and NUMBER?.

Section 2: Words

The dictionary is a list of entries, each with a name, an immediate flag,
and a kind:

	primitive  runs a builtin
	colon      runs its compiled body, starting at a code address
	variable   pushes its data field address, as made by CREATE
	does       pushes its data field address, then runs the code that
	           followed DOES> in the word that defined it

Defining a name again shadows the older entry for all later lookups; code
compiled before keeps calling the older one.

Section 3: The Outer Interpreter

Input is read a whitespace delimited token at a time. A token naming a word
runs it when interpreting, or when the word is immediate; otherwise a word
token gets compiled. Other tokens must be numbers in the current BASE, which
are pushed or compiled as literals. Anything else is an error.

Errors do not stop the machine: the interpreter reports "? message", clears
both stacks, returns to interpreting, and skips the rest of the input line.

The branch and loop primitives compile themselves when named while
compiling, so the usual control structures are simply immediate colon
words; see prelude.go for them, and the rest of the vocabulary built on
the primitives.

*/
package main
