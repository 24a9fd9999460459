package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCksumDeterministic(t *testing.T) {
	data := []byte("LIGO Virgo gravitational wave frame data")
	f1 := NewCksum()
	f2 := NewCksum()
	_, _ = f1.Write(data)
	_, _ = f2.Write(data)
	require.Equal(t, f1.Sum(), f2.Sum())
}

func TestLDASDeterministic(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	f1 := NewLDAS()
	f2 := NewLDAS()
	_, _ = f1.Write(data[:4])
	_, _ = f1.Write(data[4:])
	_, _ = f2.Write(data)
	require.Equal(t, f1.Sum(), f2.Sum())
}

func TestChainScopedDetach(t *testing.T) {
	var c Chain
	file := NewCksum()
	frame := NewLDAS()
	c.Attach(ScopeFile, file)
	c.Attach(ScopeFrame, frame)
	c.Write([]byte("abc"))

	removed := c.DetachScope(ScopeFrame)
	require.Len(t, removed, 1)
	require.Equal(t, 1, c.Len())

	c.Write([]byte("def"))
	// file filter saw "abcdef"; frame filter only saw "abc".
	want := NewCksum()
	_, _ = want.Write([]byte("abcdef"))
	require.Equal(t, want.Sum(), file.Sum())
}

func TestMD5Filter(t *testing.T) {
	f := New(KindMD5)
	_, _ = f.Write([]byte("hello"))
	require.Len(t, f.Sum(), 16)
}
