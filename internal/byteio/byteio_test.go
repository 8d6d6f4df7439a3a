package byteio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jcorbin/kforth/internal/byteio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	for _, tc := range []struct {
		c    int
		name string
	}{
		{-1, "<EOF>"},
		{0, "<NUL>"},
		{'\n', "<NL>"},
		{' ', "<SP>"},
		{'A', "'A'"},
		{0x7f, "<DEL>"},
		{0xff, `'\xff'`},
	} {
		assert.Equal(t, tc.name, byteio.Name(tc.c), "name of %v", tc.c)
	}
	assert.Equal(t, "^[", byteio.CaretForm(0x1b))
	assert.Equal(t, "", byteio.CaretForm('x'))
}

func TestWriteFlushers(t *testing.T) {
	var a, b bytes.Buffer
	wf := byteio.WriteFlushers(
		byteio.NewWriteFlusher(&a),
		byteio.NewWriteFlusher(&b),
	)
	require.NoError(t, wf.WriteByte('x'))
	_, err := wf.Write([]byte("yz"))
	require.NoError(t, err)
	require.NoError(t, wf.Flush())
	assert.Equal(t, "xyz", a.String())
	assert.Equal(t, "xyz", b.String())
}

func TestNamedReader(t *testing.T) {
	r := byteio.NewReader(byteio.NamedReader("greeting", strings.NewReader("hi")))
	named, ok := r.(interface{ Name() string })
	require.True(t, ok, "expected a named reader")
	assert.Equal(t, "greeting", named.Name())

	c, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('h'), c)
	assert.Equal(t, 1, r.Buffered())
}
