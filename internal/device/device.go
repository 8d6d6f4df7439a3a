// Package device provides the generic device I/O hook behind the IO@, IO!
// and IOCTL primitives: byte read, byte write and a control request, keyed
// by an integer handle. None of these operations block; a failed or
// unsupported operation reports false rather than erroring.
package device

import "sync"

// Control request codes understood by the console port.
const (
	ReqAvailable = 0 // y = number of bytes readable without blocking
	ReqFlush     = 1 // flush pending output, y = 0
	ReqSetBaud   = 2 // x = baud rate (> 0), y = x
)

// Port is one device channel.
type Port interface {
	Recv() (b byte, ok bool)
	Send(b byte) (ok bool)
	Control(req, x int32) (y int32, ok bool)
}

// Mux maps handles to ports; handle 0 conventionally names the primary
// console channel. The zero value has no ports, so every operation fails.
type Mux struct {
	ports map[int32]Port
}

// Bind attaches port to handle h, replacing any prior binding; a nil port
// removes the binding.
func (mux *Mux) Bind(h int32, port Port) {
	if port == nil {
		delete(mux.ports, h)
		return
	}
	if mux.ports == nil {
		mux.ports = make(map[int32]Port)
	}
	mux.ports[h] = port
}

// Bound returns true if a port is bound to h.
func (mux *Mux) Bound(h int32) bool {
	_, ok := mux.ports[h]
	return ok
}

// At reads one byte from the port bound to h.
func (mux *Mux) At(h int32) (int32, bool) {
	if port, ok := mux.ports[h]; ok {
		if b, ok := port.Recv(); ok {
			return int32(b), true
		}
	}
	return 0, false
}

// Put writes the low byte of b to the port bound to h.
func (mux *Mux) Put(h int32, b int32) bool {
	if port, ok := mux.ports[h]; ok {
		return port.Send(byte(b))
	}
	return false
}

// Ctl issues a control request to the port bound to h.
func (mux *Mux) Ctl(h, req, x int32) (int32, bool) {
	if port, ok := mux.ports[h]; ok {
		return port.Control(req, x)
	}
	return 0, false
}

// Null is a port on which every operation fails.
type Null struct{}

func (Null) Recv() (byte, bool)                 { return 0, false }
func (Null) Send(byte) bool                     { return false }
func (Null) Control(req, x int32) (int32, bool) { return 0, false }

// Loopback is a port whose written bytes become readable, in order.
// Limit bounds the number of queued bytes, if non-zero.
type Loopback struct {
	Limit int

	mu   sync.Mutex
	buf  []byte
	baud int32
}

func (lb *Loopback) Recv() (byte, bool) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if len(lb.buf) == 0 {
		return 0, false
	}
	b := lb.buf[0]
	lb.buf = lb.buf[1:]
	return b, true
}

func (lb *Loopback) Send(b byte) bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.Limit > 0 && len(lb.buf) >= lb.Limit {
		return false
	}
	lb.buf = append(lb.buf, b)
	return true
}

func (lb *Loopback) Control(req, x int32) (int32, bool) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	switch req {
	case ReqAvailable:
		return int32(len(lb.buf)), true
	case ReqFlush:
		lb.buf = lb.buf[:0]
		return 0, true
	case ReqSetBaud:
		if x <= 0 {
			return 0, false
		}
		lb.baud = x
		return x, true
	default:
		return 0, false
	}
}
