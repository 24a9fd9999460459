package frame

import (
	"github.com/ligo-gw/frame/internal/iocodec"
)

const (
	magic16 = 0x1234
	magic32 = 0x12345678
	magic64 = 0x0123456789ABCDEF

	originatorLen = 5
	headerFixedLen = originatorLen + 1 + 1 // tag + major + minor
	magicLen       = 2 + 4 + 8
	headerTotalLen = headerFixedLen + magicLen
)

// FileHeader is the fixed preamble every frame file begins with: a 5-byte
// ASCII originator tag, a one-byte major and minor version, and a
// magic-number record whose observed byte order fixes the stream's
// endianness for everything that follows.
type FileHeader struct {
	Originator   string
	VersionMajor uint8
	VersionMinor uint8
}

// Version returns the frame format version declared by the header.
func (h FileHeader) Version() Version { return Version(h.VersionMajor) }

// parseFileHeader reads and endian-detects the fixed header from raw bytes,
// returning the header, the detected byte order, and the number of bytes
// consumed. A magic region that matches neither byte order is reported as
// ErrNotAFrameFile.
func parseFileHeader(buf []byte) (FileHeader, iocodec.Order, int, error) {
	if len(buf) < headerTotalLen {
		return FileHeader{}, iocodec.Order{}, 0, ErrUnexpectedEOF
	}

	tag := string(buf[:originatorLen])
	major := buf[originatorLen]
	minor := buf[originatorLen+1]

	magicRegion := buf[headerFixedLen:headerTotalLen]

	order, ok := detectOrder(magicRegion)
	if !ok {
		return FileHeader{}, iocodec.Order{}, 0, ErrNotAFrameFile
	}

	h := FileHeader{Originator: tag, VersionMajor: major, VersionMinor: minor}
	return h, order, headerTotalLen, nil
}

func detectOrder(magicRegion []byte) (iocodec.Order, bool) {
	for _, order := range []iocodec.Order{iocodec.BigEndian(), iocodec.LittleEndian()} {
		bo := order.ByteOrder()
		u16 := bo.Uint16(magicRegion[0:2])
		u32 := bo.Uint32(magicRegion[2:6])
		u64 := bo.Uint64(magicRegion[6:14])
		if u16 == magic16 && u32 == magic32 && u64 == magic64 {
			return order, true
		}
	}
	return iocodec.Order{}, false
}

// writeFileHeader appends the fixed header, including the magic record, for
// ver under order, to buf.
func writeFileHeader(buf []byte, originator string, ver Version, order iocodec.Order) []byte {
	tag := make([]byte, originatorLen)
	copy(tag, originator)
	buf = append(buf, tag...)
	buf = append(buf, byte(ver), 0)

	bo := order.ByteOrder()
	var b16 [2]byte
	bo.PutUint16(b16[:], magic16)
	buf = append(buf, b16[:]...)

	var b32 [4]byte
	bo.PutUint32(b32[:], magic32)
	buf = append(buf, b32[:]...)

	var b64 [8]byte
	bo.PutUint64(b64[:], magic64)
	buf = append(buf, b64[:]...)

	return buf
}
