package streamio

import (
	"math"

	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/iocodec"
)

// Stream is a Buffer plus the ordered filter chain every transferred byte
// visits, plus the single active byte order resolved from the file
// header. It is the substrate the frame package's object codecs read and
// write primitives through.
type Stream struct {
	Buf   Buffer
	Chain checksum.Chain
	Order iocodec.Order
}

// NewStream wraps buf under the given byte order with an empty filter chain.
func NewStream(buf Buffer, ord iocodec.Order) *Stream {
	return &Stream{Buf: buf, Order: ord}
}

// ReadBytes reads n bytes, feeding them through every attached filter.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	read := 0
	for read < n {
		m, err := s.Buf.Read(b[read:])
		read += m
		if err != nil && read < n {
			return nil, iocodec.ErrShortRead
		}
		if m == 0 && read < n {
			return nil, iocodec.ErrShortRead
		}
	}
	s.Chain.Write(b)
	return b, nil
}

// WriteBytes writes raw bytes, feeding them through every attached filter.
func (s *Stream) WriteBytes(b []byte) error {
	if _, err := s.Buf.Write(b); err != nil {
		return err
	}
	s.Chain.Write(b)
	return nil
}

func (s *Stream) U8() (uint8, error) {
	b, err := s.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Stream) U16() (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return s.Order.ByteOrder().Uint16(b), nil
}

func (s *Stream) U32() (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return s.Order.ByteOrder().Uint32(b), nil
}

func (s *Stream) U64() (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return s.Order.ByteOrder().Uint64(b), nil
}

func (s *Stream) WriteU8(v uint8) error { return s.WriteBytes([]byte{v}) }

func (s *Stream) WriteU16(v uint16) error {
	var b [2]byte
	s.Order.ByteOrder().PutUint16(b[:], v)
	return s.WriteBytes(b[:])
}

func (s *Stream) WriteU32(v uint32) error {
	var b [4]byte
	s.Order.ByteOrder().PutUint32(b[:], v)
	return s.WriteBytes(b[:])
}

func (s *Stream) WriteU64(v uint64) error {
	var b [8]byte
	s.Order.ByteOrder().PutUint64(b[:], v)
	return s.WriteBytes(b[:])
}

func (s *Stream) I16() (int16, error) { v, err := s.U16(); return int16(v), err }
func (s *Stream) I32() (int32, error) { v, err := s.U32(); return int32(v), err }
func (s *Stream) I64() (int64, error) { v, err := s.U64(); return int64(v), err }

func (s *Stream) F32() (float32, error) {
	v, err := s.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (s *Stream) F64() (float64, error) {
	v, err := s.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (s *Stream) WriteI16(v int16) error { return s.WriteU16(uint16(v)) }
func (s *Stream) WriteI32(v int32) error { return s.WriteU32(uint32(v)) }
func (s *Stream) WriteI64(v int64) error { return s.WriteU64(uint64(v)) }

func (s *Stream) WriteF32(v float32) error { return s.WriteU32(math.Float32bits(v)) }
func (s *Stream) WriteF64(v float64) error { return s.WriteU64(math.Float64bits(v)) }

// String16 reads a STRING<2> field through the filter chain.
func (s *Stream) String16() (string, error) {
	n, err := s.U16()
	if err != nil {
		return "", err
	}
	return s.stringBody(int(n))
}

// String64 reads a STRING<8> field through the filter chain.
func (s *Stream) String64() (string, error) {
	n, err := s.U64()
	if err != nil {
		return "", err
	}
	return s.stringBody(int(n))
}

func (s *Stream) stringBody(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	b, err := s.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b), nil
}

// WriteString16 writes a STRING<2> field through the filter chain.
func (s *Stream) WriteString16(v string) error {
	n := len(v) + 1
	if v == "" {
		n = 0
	}
	if n > 0xFFFF {
		return iocodec.ErrStringTooLong
	}
	if err := s.WriteU16(uint16(n)); err != nil {
		return err
	}
	return s.writeStringBody(v, n)
}

// WriteString64 writes a STRING<8> field through the filter chain.
func (s *Stream) WriteString64(v string) error {
	n := len(v) + 1
	if v == "" {
		n = 0
	}
	if err := s.WriteU64(uint64(n)); err != nil {
		return err
	}
	return s.writeStringBody(v, n)
}

func (s *Stream) writeStringBody(v string, n int) error {
	if n == 0 {
		return nil
	}
	if err := s.WriteBytes([]byte(v)); err != nil {
		return err
	}
	return s.WriteBytes([]byte{0})
}

// Tell and Seek expose the underlying buffer's position, used for TOC
// offset bookkeeping.
func (s *Stream) Tell() int64      { return s.Buf.Tell() }
func (s *Stream) Seek(off int64) error { return s.Buf.Seek(off) }
