package device

import "io"

// ConsoleIO is the byte stream pair behind a Console port.
type ConsoleIO interface {
	io.ByteReader
	io.ByteWriter
	Buffered() int
	Flush() error
}

// Console is the primary serial-like channel: it only ever reads bytes that
// are already buffered, so that IO@ polls instead of blocking like KEY.
type Console struct {
	IO   ConsoleIO
	Baud int32
}

func (con *Console) Recv() (byte, bool) {
	if con.IO.Buffered() <= 0 {
		return 0, false
	}
	b, err := con.IO.ReadByte()
	return b, err == nil
}

func (con *Console) Send(b byte) bool {
	return con.IO.WriteByte(b) == nil
}

func (con *Console) Control(req, x int32) (int32, bool) {
	switch req {
	case ReqAvailable:
		return int32(con.IO.Buffered()), true
	case ReqFlush:
		return 0, con.IO.Flush() == nil
	case ReqSetBaud:
		if x <= 0 {
			return 0, false
		}
		if con.IO.Flush() != nil {
			return 0, false
		}
		con.Baud = x
		return x, true
	default:
		return 0, false
	}
}
