// Package streamio implements the Frame buffer layer: three buffer shapes,
// an owning memory buffer, a bounded read-only memory span, and a
// chunk-fed dynamic buffer, all satisfying one seekable, filterable
// Buffer capability, plus the filtered Stream built on top of it with its
// checksum filter attach/detach discipline.
package streamio

import (
	"errors"
	"io"
)

// ErrNeedMoreData is returned by a DynamicBuffer read when the currently
// supplied chunk does not yet satisfy the pending demand: the dynamic
// buffer never blocks waiting for bytes.
var ErrNeedMoreData = errors.New("streamio: need more data")

// ErrReadOnly is returned when Write is called on a read-only buffer.
var ErrReadOnly = errors.New("streamio: buffer is read-only")

// Buffer is the capability every buffer shape provides: seekable read/write
// with an explicit position.
type Buffer interface {
	io.Reader
	io.Writer
	// Seek repositions to an absolute offset from the start.
	Seek(off int64) error
	// Tell returns the current position.
	Tell() int64
	// Len returns the total number of bytes currently held.
	Len() int64
}

// MemoryBuffer is an owning, growable, in-memory byte buffer: the substrate
// used when building a frame file entirely in memory before flushing it, or
// when a caller hands WriteFrame a throwaway destination.
type MemoryBuffer struct {
	data []byte
	pos  int64
}

// NewMemoryBuffer creates an empty owning memory buffer.
func NewMemoryBuffer() *MemoryBuffer { return &MemoryBuffer{} }

// NewMemoryBufferFrom creates an owning memory buffer pre-seeded with data;
// the slice is copied so the caller may reuse it.
func NewMemoryBufferFrom(data []byte) *MemoryBuffer {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &MemoryBuffer{data: cp}
}

func (b *MemoryBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *MemoryBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *MemoryBuffer) Seek(off int64) error { b.pos = off; return nil }
func (b *MemoryBuffer) Tell() int64          { return b.pos }
func (b *MemoryBuffer) Len() int64           { return int64(len(b.data)) }

// Bytes returns the buffer's full contents (not just what's been read).
func (b *MemoryBuffer) Bytes() []byte { return b.data }

// ReadOnlyMemoryBuffer wraps a caller-owned byte span with explicit bounds;
// it never copies and never grows. This is the shape a memory-mapped file
// presents once mapped (see FileBuffer).
type ReadOnlyMemoryBuffer struct {
	data []byte
	pos  int64
}

// NewReadOnlyMemoryBuffer wraps data without copying it.
func NewReadOnlyMemoryBuffer(data []byte) *ReadOnlyMemoryBuffer {
	return &ReadOnlyMemoryBuffer{data: data}
}

func (b *ReadOnlyMemoryBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *ReadOnlyMemoryBuffer) Write(p []byte) (int, error) { return 0, ErrReadOnly }
func (b *ReadOnlyMemoryBuffer) Seek(off int64) error        { b.pos = off; return nil }
func (b *ReadOnlyMemoryBuffer) Tell() int64                 { return b.pos }
func (b *ReadOnlyMemoryBuffer) Len() int64                  { return int64(len(b.data)) }

// Bytes returns the whole wrapped span.
func (b *ReadOnlyMemoryBuffer) Bytes() []byte { return b.data }
