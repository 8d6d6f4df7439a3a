package mem

import "fmt"

// CellBytes is the number of bytes packed into each cell.
const CellBytes = 4

// LimitError indicates that a memory operation, like load or store, fell
// outside the fixed capacity of a memory.
type LimitError struct {
	Addr int
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("%v out of range @%v", lim.Op, lim.Addr)
}

// Cells implements a fixed-capacity memory of 32-bit cells, additionally
// addressable at byte granularity.
type Cells struct {
	// Name is used as the op prefix in any LimitError, e.g. "code@".
	Name string

	cells []int32
}

// New creates a zeroed memory with room for size cells.
func New(name string, size int) *Cells {
	return &Cells{Name: name, cells: make([]int32, size)}
}

// Cap returns the number of cells in memory.
func (m *Cells) Cap() int { return len(m.cells) }

// Load returns the cell stored at addr.
func (m *Cells) Load(addr int) (int32, error) {
	if addr < 0 || addr >= len(m.cells) {
		return 0, LimitError{addr, m.Name + "@"}
	}
	return m.cells[addr], nil
}

// Stor stores values starting at addr; no partial store is done if any
// value would land out of range.
func (m *Cells) Stor(addr int, values ...int32) error {
	if addr < 0 || addr+len(values) > len(m.cells) {
		return LimitError{addr + len(values) - 1, m.Name + "!"}
	}
	copy(m.cells[addr:], values)
	return nil
}

// LoadInto copies len(buf) cells starting at addr into buf.
func (m *Cells) LoadInto(addr int, buf []int32) error {
	if addr < 0 || addr+len(buf) > len(m.cells) {
		return LimitError{addr + len(buf) - 1, m.Name + "@"}
	}
	copy(buf, m.cells[addr:])
	return nil
}

// ByteAddr splits a byte address into its cell index and intra-cell offset.
func ByteAddr(addr int) (cell, offset int) {
	return addr / CellBytes, addr % CellBytes
}

// LoadByte returns the byte at the given byte address; byte 0 of a cell is
// its least significant byte.
func (m *Cells) LoadByte(addr int) (byte, error) {
	i, off := ByteAddr(addr)
	if addr < 0 || i >= len(m.cells) {
		return 0, LimitError{addr, "C" + m.Name + "@"}
	}
	return byte(uint32(m.cells[i]) >> (8 * uint(off))), nil
}

// StorByte replaces the byte at the given byte address, leaving the other
// bytes of its cell untouched.
func (m *Cells) StorByte(addr int, b byte) error {
	i, off := ByteAddr(addr)
	if addr < 0 || i >= len(m.cells) {
		return LimitError{addr, "C" + m.Name + "!"}
	}
	shift := 8 * uint(off)
	w := uint32(m.cells[i])
	w = w&^(0xff<<shift) | uint32(b)<<shift
	m.cells[i] = int32(w)
	return nil
}

// StorBytes stores p starting at byte address addr.
func (m *Cells) StorBytes(addr int, p []byte) error {
	if end := addr + len(p); addr < 0 || (end+CellBytes-1)/CellBytes > len(m.cells) {
		return LimitError{end - 1, "C" + m.Name + "!"}
	}
	for i, b := range p {
		m.StorByte(addr+i, b)
	}
	return nil
}

// Clear zeroes count cells starting at addr.
func (m *Cells) Clear(addr, count int) error {
	if addr < 0 || addr+count > len(m.cells) {
		return LimitError{addr + count - 1, m.Name + "!"}
	}
	for i := addr; i < addr+count; i++ {
		m.cells[i] = 0
	}
	return nil
}
