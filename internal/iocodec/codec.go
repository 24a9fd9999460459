// Package iocodec implements the Frame wire format's primitive codec: a
// single active byte order, fixed-width integers/floats, and the two
// length-prefixed string shapes the format uses.
package iocodec

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortRead is returned when fewer bytes remain than a primitive needs.
var ErrShortRead = errors.New("iocodec: short read")

// ErrStringTooLong is returned when a string's length prefix exceeds the
// maximum representable by its prefix width.
var ErrStringTooLong = errors.New("iocodec: string length exceeds prefix range")

// Order is the byte order active on a stream. It is resolved once, from the
// file header's magic-number field, and then threaded explicitly through
// every primitive call for the remainder of the stream.
type Order struct {
	bo     binary.ByteOrder
	Swapped bool // true when bo differs from host order
}

// hostOrder is resolved once at package init by probing a known uint16.
var hostOrder = func() binary.ByteOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 0x0102)
	if b[0] == 0x02 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

// BigEndian and LittleEndian are the two orders a Frame stream may declare.
func BigEndian() Order    { return Order{bo: binary.BigEndian, Swapped: hostOrder != binary.BigEndian} }
func LittleEndian() Order { return Order{bo: binary.LittleEndian, Swapped: hostOrder != binary.LittleEndian} }

// ByteOrder exposes the underlying encoding/binary.ByteOrder.
func (o Order) ByteOrder() binary.ByteOrder { return o.bo }

// Reader decodes primitives from a byte slice at increasing offsets.
type Reader struct {
	buf []byte
	off int
	ord Order
}

// NewReader wraps buf for sequential decode under the given byte order.
func NewReader(buf []byte, ord Order) *Reader {
	return &Reader{buf: buf, ord: ord}
}

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Seek repositions the reader to an absolute offset.
func (r *Reader) Seek(off int) { r.off = off }

func (r *Reader) take(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, ErrShortRead
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// U8 reads one unsigned byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a 2-byte unsigned integer.
func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.ord.bo.Uint16(b), nil
}

// U32 reads a 4-byte unsigned integer.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.ord.bo.Uint32(b), nil
}

// U64 reads an 8-byte unsigned integer.
func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return r.ord.bo.Uint64(b), nil
}

// I16, I32, I64 read signed counterparts by reinterpreting the unsigned read.
func (r *Reader) I16() (int16, error) { v, err := r.U16(); return int16(v), err }
func (r *Reader) I32() (int32, error) { v, err := r.U32(); return int32(v), err }
func (r *Reader) I64() (int64, error) { v, err := r.U64(); return int64(v), err }

// F32 reads an IEEE-754 binary32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F64 reads an IEEE-754 binary64.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Complex64 reads a pair of binary32 as a complex number.
func (r *Reader) Complex64() (complex64, error) {
	re, err := r.F32()
	if err != nil {
		return 0, err
	}
	im, err := r.F32()
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// String16 reads a STRING<2> field: a 2-byte length prefix (including the
// terminating null) followed by prefix-1 bytes of content, or nothing when
// the prefix is zero.
func (r *Reader) String16() (string, error) {
	n, err := r.U16()
	if err != nil {
		return "", err
	}
	return r.stringBody(int(n))
}

// String64 reads a STRING<8> field (8-byte length prefix), used for the
// larger length-prefixed strings introduced in later Frame versions.
func (r *Reader) String64() (string, error) {
	n, err := r.U64()
	if err != nil {
		return "", err
	}
	return r.stringBody(int(n))
}

func (r *Reader) stringBody(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	// prefix includes the terminating null; strip it.
	if n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b), nil
}

// Writer encodes primitives into a growable byte buffer.
type Writer struct {
	buf []byte
	ord Order
}

// NewWriter creates a Writer for the given byte order.
func NewWriter(ord Order) *Writer { return &Writer{ord: ord} }

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) U8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) U16(v uint16) {
	var b [2]byte
	w.ord.bo.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) U32(v uint32) {
	var b [4]byte
	w.ord.bo.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) U64(v uint64) {
	var b [8]byte
	w.ord.bo.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) I16(v int16) { w.U16(uint16(v)) }
func (w *Writer) I32(v int32) { w.U32(uint32(v)) }
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

func (w *Writer) Complex64(v complex64) {
	w.F32(real(v))
	w.F32(imag(v))
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// String16 writes a STRING<2> field: zero bytes for an empty string, or the
// content plus a terminating null with a prefix that includes it.
func (w *Writer) String16(s string) error {
	n := len(s) + 1
	if s == "" {
		n = 0
	}
	if n > 0xFFFF {
		return ErrStringTooLong
	}
	w.U16(uint16(n))
	return w.writeStringBody(s, n)
}

// String64 writes a STRING<8> field.
func (w *Writer) String64(s string) error {
	n := uint64(len(s) + 1)
	if s == "" {
		n = 0
	}
	w.U64(n)
	return w.writeStringBody(s, int(n))
}

func (w *Writer) writeStringBody(s string, n int) error {
	if n == 0 {
		return nil
	}
	w.buf = append(w.buf, []byte(s)...)
	w.buf = append(w.buf, 0)
	return nil
}

// Sizeof16 returns the wire size of s as a STRING<2> field.
func Sizeof16(s string) int {
	if s == "" {
		return 2
	}
	return 2 + len(s) + 1
}

// Sizeof64 returns the wire size of s as a STRING<8> field.
func Sizeof64(s string) int {
	if s == "" {
		return 8
	}
	return 8 + len(s) + 1
}

// Swap reverses the byte order of a width-w primitive in place. Used by
// buffer-level endian swapping passes, invoked only when the active order
// differs from host order.
func Swap(b []byte, width int) {
	switch width {
	case 2:
		b[0], b[1] = b[1], b[0]
	case 4:
		b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	case 8:
		b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7] =
			b[7], b[6], b[5], b[4], b[3], b[2], b[1], b[0]
	}
}
