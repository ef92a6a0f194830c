package cryptoutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureBufferOwnership(t *testing.T) {
	src := []byte("sensitive")
	buf := SecureBufferFrom(src)

	src[0] = 'X'
	assert.Equal(t, []byte("sensitive"), buf.Bytes(), "SecureBufferFrom copies its input")
	assert.Equal(t, 9, buf.Len())
}

func TestSecureBufferSliceIsView(t *testing.T) {
	buf := SecureBufferFrom([]byte("0123456789"))
	view := buf.Slice(2, 6)

	assert.Equal(t, []byte("2345"), view.Bytes())

	buf.Zero()
	assert.Equal(t, make([]byte, 4), view.Bytes(), "zeroing the parent zeroes the view")
}

func TestSecureBufferConcat(t *testing.T) {
	a := SecureBufferFrom([]byte("abc"))
	b := SecureBufferFrom([]byte("def"))

	c := a.Concat(b)
	require.Equal(t, []byte("abcdef"), c.Bytes())

	a.Zero()
	b.Zero()
	assert.Equal(t, []byte("abcdef"), c.Bytes(), "concat result is independently owned")
}

func TestSecureBufferZero(t *testing.T) {
	buf := SecureBufferFrom([]byte{1, 2, 3, 4})
	buf.Zero()
	assert.Equal(t, []byte{0, 0, 0, 0}, buf.Bytes())
}
