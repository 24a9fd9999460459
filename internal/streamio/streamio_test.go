package streamio

import (
	"testing"

	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/iocodec"
	"github.com/stretchr/testify/require"
)

func TestMemoryBufferReadWrite(t *testing.T) {
	b := NewMemoryBuffer()
	_, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, b.Seek(0))
	got := make([]byte, 5)
	n, err := b.Read(got)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(got))
}

func TestReadOnlyMemoryBufferRejectsWrite(t *testing.T) {
	b := NewReadOnlyMemoryBuffer([]byte("abc"))
	_, err := b.Write([]byte("x"))
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestStreamChecksumAccumulates(t *testing.T) {
	buf := NewMemoryBuffer()
	s := NewStream(buf, iocodec.BigEndian())
	f := checksum.NewCksum()
	s.Chain.Attach(checksum.ScopeFile, f)

	require.NoError(t, s.WriteU32(0xDEADBEEF))
	require.NoError(t, s.WriteString16("H1:STRAIN"))

	want := checksum.NewCksum()
	_, _ = want.Write(buf.Bytes())
	require.Equal(t, want.Sum(), f.Sum())
}

func TestStreamPrimitiveRoundTrip(t *testing.T) {
	buf := NewMemoryBuffer()
	w := NewStream(buf, iocodec.LittleEndian())
	require.NoError(t, w.WriteU16(0x1234))
	require.NoError(t, w.WriteU64(42))
	require.NoError(t, w.WriteString16("chan0"))

	require.NoError(t, buf.Seek(0))
	r := NewStream(buf, iocodec.LittleEndian())
	u16, err := r.U16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u64, err := r.U64()
	require.NoError(t, err)
	require.Equal(t, uint64(42), u64)

	s, err := r.String16()
	require.NoError(t, err)
	require.Equal(t, "chan0", s)
}
