package frame

import "github.com/ligo-gw/frame/internal/iocodec"

// bodyWriter accumulates a kind's encoded record body in memory under the
// write-target stream's byte order, latching the first error so call sites
// can chain primitive writes without checking every return.
type bodyWriter struct {
	w   *iocodec.Writer
	err error
}

// newBodyWriter creates a bodyWriter under wc's stream's active byte order.
func newBodyWriter(wc *writeContext) *bodyWriter {
	return &bodyWriter{w: iocodec.NewWriter(wc.s.Order)}
}

func (b *bodyWriter) U8(v uint8)   { b.w.U8(v) }
func (b *bodyWriter) U16(v uint16) { b.w.U16(v) }
func (b *bodyWriter) U32(v uint32) { b.w.U32(v) }
func (b *bodyWriter) U64(v uint64) { b.w.U64(v) }
func (b *bodyWriter) I16(v int16)  { b.w.I16(v) }
func (b *bodyWriter) I32(v int32)  { b.w.I32(v) }
func (b *bodyWriter) I64(v int64)  { b.w.I64(v) }
func (b *bodyWriter) F32(v float32) { b.w.F32(v) }
func (b *bodyWriter) F64(v float64) { b.w.F64(v) }

func (b *bodyWriter) WriteBytes(raw []byte) { b.w.WriteBytes(raw) }

func (b *bodyWriter) String16(s string) {
	if b.err != nil {
		return
	}
	b.err = b.w.String16(s)
}

func (b *bodyWriter) String64(s string) {
	if b.err != nil {
		return
	}
	b.err = b.w.String64(s)
}

// Bytes returns the accumulated body. Callers must check Err first.
func (b *bodyWriter) Bytes() []byte { return b.w.Bytes() }

// Err returns the first error latched by a String16/String64 call, if any.
func (b *bodyWriter) Err() error { return b.err }

func sizeofString16(s string) int { return iocodec.Sizeof16(s) }
func sizeofString64(s string) int { return iocodec.Sizeof64(s) }
