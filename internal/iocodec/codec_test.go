package iocodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	w := NewWriter(BigEndian())
	w.U8(7)
	w.U16(0x1234)
	w.U32(0x12345678)
	w.U64(0x0123456789ABCDEF)
	w.F32(3.5)
	w.F64(2.25)

	r := NewReader(w.Bytes(), BigEndian())
	u8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(7), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), u32)

	u64, err := r.U64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0123456789ABCDEF), u64)

	f32, err := r.F32()
	require.NoError(t, err)
	require.Equal(t, float32(3.5), f32)

	f64, err := r.F64()
	require.NoError(t, err)
	require.Equal(t, 2.25, f64)
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "H1:STRAIN", "x"} {
		w := NewWriter(LittleEndian())
		require.NoError(t, w.String16(s))
		r := NewReader(w.Bytes(), LittleEndian())
		got, err := r.String16()
		require.NoError(t, err)
		require.Equal(t, s, got)
		require.Equal(t, Sizeof16(s), w.Len())
	}
}

func TestShortRead(t *testing.T) {
	r := NewReader([]byte{0x01}, BigEndian())
	_, err := r.U32()
	require.ErrorIs(t, err, ErrShortRead)
}

func TestSwap(t *testing.T) {
	b := []byte{0x12, 0x34, 0x56, 0x78}
	Swap(b, 4)
	require.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, b)
}
