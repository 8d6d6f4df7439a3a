package mem_test

import (
	"testing"

	"github.com/jcorbin/kforth/internal/mem"
	"github.com/stretchr/testify/require"
)

func Test_Cells(t *testing.T) {
	type step struct {
		name string
		f    func(t *testing.T, m *mem.Cells)
	}

	expectAt := func(t *testing.T, m *mem.Cells, addr int, values ...int32) {
		buf := make([]int32, len(values))
		require.NoError(t, m.LoadInto(addr, buf),
			"must load %v values from @%v", len(values), addr)
		require.Equal(t, values, buf, "expected values @%v", addr)
	}

	for _, tc := range []struct {
		name  string
		steps []step
	}{
		{"cells", []step{
			{"init", func(t *testing.T, m *mem.Cells) {
				require.Equal(t, 8, m.Cap(), "expected capacity")
				val, err := m.Load(0)
				require.NoError(t, err, "unexpected load error")
				require.Equal(t, int32(0), val, "expected 0 @0")
			}},

			{"9 -> 0", func(t *testing.T, m *mem.Cells) {
				require.NoError(t, m.Stor(0, 9), "must stor @0")
				expectAt(t, m, 0, 9, 0, 0)
			}},

			{"{1, 2, 3} -> 5", func(t *testing.T, m *mem.Cells) {
				require.NoError(t, m.Stor(5, 1, 2, 3), "must stor @5")
				expectAt(t, m, 4, 0, 1, 2, 3)
			}},

			{"{4, 5} -> 7 is out of range", func(t *testing.T, m *mem.Cells) {
				require.EqualError(t, m.Stor(7, 4, 5), "data! out of range @8")
				expectAt(t, m, 7, 3)
			}},

			{"bounds", func(t *testing.T, m *mem.Cells) {
				_, err := m.Load(8)
				require.Equal(t, mem.LimitError{Addr: 8, Op: "data@"}, err)
				_, err = m.Load(-1)
				require.Equal(t, mem.LimitError{Addr: -1, Op: "data@"}, err)
			}},

			{"clear", func(t *testing.T, m *mem.Cells) {
				require.NoError(t, m.Clear(5, 2), "must clear")
				expectAt(t, m, 4, 0, 0, 0, 3)
			}},
		}},

		{"bytes", []step{
			{"little endian packing", func(t *testing.T, m *mem.Cells) {
				require.NoError(t, m.Stor(1, 0x44332211))
				for i, want := range []byte{0x11, 0x22, 0x33, 0x44} {
					b, err := m.LoadByte(4 + i)
					require.NoError(t, err, "unexpected load error")
					require.Equal(t, want, b, "expected byte @%v", 4+i)
				}
			}},

			{"store byte keeps neighbors", func(t *testing.T, m *mem.Cells) {
				require.NoError(t, m.StorByte(6, 0xff))
				expectAt(t, m, 1, 0x44ff2211)
			}},

			{"store bytes", func(t *testing.T, m *mem.Cells) {
				require.NoError(t, m.StorBytes(8, []byte("hello")))
				expectAt(t, m, 2, 0x6c6c6568, 0x6f)
			}},

			{"byte bounds", func(t *testing.T, m *mem.Cells) {
				_, err := m.LoadByte(32)
				require.EqualError(t, err, "Cdata@ out of range @32")
				require.Error(t, m.StorByte(-1, 0))
				require.Error(t, m.StorBytes(30, []byte("abc")))
				require.NoError(t, m.StorBytes(29, []byte("abc")))
			}},
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := mem.New("data", 8)
			for _, step := range tc.steps {
				if !t.Run(step.name, func(t *testing.T) {
					step.f(t, m)
				}) {
					break
				}
			}
		})
	}
}

func Test_ByteAddr(t *testing.T) {
	for _, tc := range []struct {
		addr, cell, offset int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{4, 1, 0},
		{17, 4, 1},
	} {
		cell, offset := mem.ByteAddr(tc.addr)
		require.Equal(t, tc.cell, cell, "cell of %v", tc.addr)
		require.Equal(t, tc.offset, offset, "offset of %v", tc.addr)
	}
}
