package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/kforth/internal/byteio"
	"github.com/jcorbin/kforth/internal/device"
	"github.com/jcorbin/kforth/internal/fileinput"
)

type ioCore struct {
	logging
	in      fileinput.Input
	out     byteio.WriteFlusher
	dev     device.Mux
	closers []io.Closer

	// midLine is set after writing any byte other than line feed, so that
	// diagnostics can start on a fresh line.
	midLine bool
}

func (core *ioCore) Close() (err error) {
	if core.out != nil {
		err = core.out.Flush()
	}
	if cerr := core.in.Close(); err == nil {
		err = cerr
	}
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (core *ioCore) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if core.out != nil {
			if ferr := core.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		core.logf("$", "halt: %v", err)
	}()

	panic(haltError{err})
}

func (core *ioCore) haltif(err error) {
	if err != nil {
		core.halt(err)
	}
}

func (core *ioCore) writeByte(b byte) {
	core.haltif(core.out.WriteByte(b))
	core.midLine = b != '\n'
}

func (core *ioCore) writeString(s string) {
	if s == "" {
		return
	}
	_, err := io.WriteString(core.out, s)
	core.haltif(err)
	core.midLine = s[len(s)-1] != '\n'
}

// freshLine starts a new output line unless already at the start of one.
func (core *ioCore) freshLine() {
	if core.midLine {
		core.writeByte('\n')
	}
}

// key reads the next input byte, returning -1 at end of input. Any pending
// output is flushed first, so that prompts show before blocking.
func (core *ioCore) key() int {
	core.haltif(core.out.Flush())
	b, err := core.in.ReadByte()
	if errors.Is(err, io.EOF) {
		return -1
	}
	core.haltif(err)
	if core.logfn != nil {
		core.logf("<", "key %v", byteio.Name(int(b)))
	}
	return int(b)
}

// consoleIO exposes the VM's own input and output streams as the primary
// device channel.
type consoleIO struct{ core *ioCore }

func (con consoleIO) ReadByte() (byte, error) { return con.core.in.ReadByte() }
func (con consoleIO) Buffered() int           { return con.core.in.Buffered() }
func (con consoleIO) Flush() error            { return con.core.out.Flush() }

func (con consoleIO) WriteByte(b byte) error {
	err := con.core.out.WriteByte(b)
	if err == nil {
		con.core.midLine = b != '\n'
	}
	return err
}

var _ device.ConsoleIO = consoleIO{}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
