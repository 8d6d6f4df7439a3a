package main

import (
	"bytes"
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// lineReader is the part of a readline instance used by lineEditor.
type lineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// lineEditor feeds terminal input to the VM one edited line at a time.
//
// VM output is written through the editor, and whatever follows its last
// line feed becomes the editing prompt: readline clears the line it edits
// on every redraw, so an "ok " prompt written by the VM must be redrawn by
// readline itself.
type lineEditor struct {
	lr     lineReader
	out    io.Writer
	tail   []byte
	buf    []byte
	closed bool
}

func newLineEditor(out io.Writer, historyFile string) (*lineEditor, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "\n",
		Stdout:          out,
	})
	if err != nil {
		return nil, err
	}
	return &lineEditor{lr: rl, out: out}, nil
}

func (ed *lineEditor) Write(p []byte) (int, error) {
	if i := bytes.LastIndexByte(p, '\n'); i >= 0 {
		ed.tail = append(ed.tail[:0], p[i+1:]...)
	} else {
		ed.tail = append(ed.tail, p...)
	}
	return ed.out.Write(p)
}

// Read returns bytes from the current line, reading a new one once it has
// been used up. An interrupted line is discarded.
func (ed *lineEditor) Read(p []byte) (int, error) {
	for len(ed.buf) == 0 {
		ed.lr.SetPrompt(string(ed.tail))
		line, err := ed.lr.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return 0, err
		}
		ed.tail = ed.tail[:0]
		ed.buf = append(append(ed.buf, line...), '\n')
	}
	n := copy(p, ed.buf)
	ed.buf = ed.buf[n:]
	return n, nil
}

// Close closes the underlying line reader once; the VM closes its inputs
// before the command is done with the editor.
func (ed *lineEditor) Close() error {
	if ed.closed {
		return nil
	}
	ed.closed = true
	return ed.lr.Close()
}
