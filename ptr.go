package frame

import (
	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/dictionary"
	"github.com/ligo-gw/frame/internal/streamio"
)

// ptrHeader is PTR_STRUCT, the (class, instance) pointer header preceding
// every record body on the wire. The short form (versions <= 7) is just
// class+instance; the long form (version >= 8) prefixes an 8-byte
// total-record length and a 2-byte checksum-type.
type ptrHeader struct {
	Length  uint64 // long form only; whole record including this field
	ChkType uint16 // long form only
	Class   uint32
	Instance uint32
}

func (p ptrHeader) key() dictionary.Key {
	return dictionary.Key{Class: p.Class, Instance: p.Instance}
}

// readPtrHeader decodes a PTR_STRUCT for the given version.
func readPtrHeader(s *streamio.Stream, ver Version) (ptrHeader, error) {
	var p ptrHeader
	if ver.UsesLongPointer() {
		length, err := s.U64()
		if err != nil {
			return p, err
		}
		chk, err := s.U16()
		if err != nil {
			return p, err
		}
		p.Length = length
		p.ChkType = chk
	}
	class, err := s.U32()
	if err != nil {
		return p, err
	}
	instance, err := s.U32()
	if err != nil {
		return p, err
	}
	p.Class = class
	p.Instance = instance
	return p, nil
}

// writePtrHeader encodes a PTR_STRUCT. For the long form, length must
// already reflect the whole record's size including the header itself;
// callers compute it before calling.
func writePtrHeader(s *streamio.Stream, ver Version, p ptrHeader) error {
	if ver.UsesLongPointer() {
		if err := s.WriteU64(p.Length); err != nil {
			return err
		}
		if err := s.WriteU16(p.ChkType); err != nil {
			return err
		}
	}
	if err := s.WriteU32(p.Class); err != nil {
		return err
	}
	return s.WriteU32(p.Instance)
}

// ptrHeaderSize returns the on-wire size of a PTR_STRUCT for ver.
func ptrHeaderSize(ver Version) int {
	if ver.UsesLongPointer() {
		return 8 + 2 + 4 + 4
	}
	return 4 + 4
}

// nullPtr is the (class=0, instance=0) chain terminator.
var nullPtr = ptrHeader{}

func (p ptrHeader) isNull() bool { return p.Class == 0 && p.Instance == 0 }

// chkTypeToChecksumKind maps the wire chkType byte to a checksum.Kind.
func chkTypeToChecksumKind(t uint16) checksum.Kind { return checksum.Kind(t) }
