package frame

import (
	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/dictionary"
	"github.com/ligo-gw/frame/internal/streamio"
)

// readContext bundles everything a kind's decode function needs: the
// stream to read from, the dictionary entries are declared into, the
// deferred-resolver queue pointer fields register against, and the active
// version (so a kind can pick its v3/v4/.../v8 wire shape).
type readContext struct {
	s        *streamio.Stream
	dict     *dictionary.Dictionary
	resolver *dictionary.Resolver
	ver      Version
	logger   *logHelper

	// onEOFChecksumBoundary, if set, is called by decodeFrEndOfFile after
	// its ChkType field and before its Checksum field: the one point where
	// a file-scope checksum/MD5 filter must stop accumulating so the
	// stored value and a freshly recomputed one cover the same bytes.
	onEOFChecksumBoundary func()
}

// writeContext bundles what an encode function needs: the stream to write
// to (for side-channel pointer assignment via dict), the dictionary (to
// assign/reuse instance ids for referenced objects), and the write-target
// version.
type writeContext struct {
	s    *streamio.Stream
	dict *dictionary.Dictionary
	ver  Version
}

// kindInfo is one registry entry: the operations the registry is
// consulted for once per record on read, once per object on write.
type kindInfo struct {
	ID       KindID
	Name     string
	Decode   func(rc *readContext) (any, error)
	SizeOf   func(obj any, ver Version) uint64
	Encode   func(wc *writeContext, obj any) ([]byte, error)
	Verify   func(obj any) []error
	ClassOf  func(obj any) uint32 // returns the wire class id for an in-memory object
}

// registry is the process-wide kind table, populated by each kind file's
// own init() (the same self-registration idiom Go's image and database/sql
// packages use) before any stream is opened.
var registry = map[KindID]*kindInfo{}
var registryByName = map[string]*kindInfo{}

func registerKind(info *kindInfo) {
	registry[info.ID] = info
	registryByName[lower(info.Name)] = info
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// readRecord reads one complete record: pointer header, dispatch to the
// registered kind's decode, an optional per-structure checksum trailer
// (version >= 8), and dictionary declaration. It returns KindNullTerminator
// with a zero key, a nil object and a nil error when the null chain
// terminator is read.
func readRecord(rc *readContext) (KindID, dictionary.Key, any, error) {
	// Object-scope checksum: attached at record begin, detached right
	// after the body, compared against the trailing structure CRC.
	var objFilter checksum.Filter
	if rc.ver.HasStructureChecksum() {
		objFilter = checksum.NewLDAS()
		rc.s.Chain.Attach(checksum.ScopeObject, objFilter)
	}

	ph, err := readPtrHeader(rc.s, rc.ver)
	if err != nil {
		if objFilter != nil {
			rc.s.Chain.Detach(objFilter)
		}
		return 0, dictionary.Key{}, nil, err
	}

	if ph.isNull() {
		if objFilter != nil {
			rc.s.Chain.Detach(objFilter)
		}
		return KindNullTerminator, dictionary.Key{}, nil, nil
	}

	kind := KindID(ph.Class)
	info, ok := registry[kind]
	if !ok {
		if objFilter != nil {
			rc.s.Chain.Detach(objFilter)
		}
		return 0, dictionary.Key{}, nil, ErrInvalidFrameStructure
	}

	obj, err := info.Decode(rc)
	if err != nil {
		if objFilter != nil {
			rc.s.Chain.Detach(objFilter)
		}
		return 0, dictionary.Key{}, nil, err
	}

	if rc.ver.HasStructureChecksum() {
		rc.s.Chain.Detach(objFilter)
		computed := objFilter.Sum()
		stored, err := rc.s.U32()
		if err != nil {
			return 0, dictionary.Key{}, nil, err
		}
		if stored != 0 {
			var computedU32 uint32
			computedU32 = uint32(computed[0])<<24 | uint32(computed[1])<<16 | uint32(computed[2])<<8 | uint32(computed[3])
			if computedU32 != stored {
				return 0, dictionary.Key{}, nil, &ChecksumMismatchError{
					Kind: "LDAS", Scope: ScopeStructure,
					Expected: u32Bytes(stored), Actual: computed,
					Detail: info.Name,
				}
			}
		}
	}

	key := ph.key()
	if err := rc.dict.Declare(dictionary.StreamRef{Key: key, Length: ph.Length, ChkType: ph.ChkType}, obj); err != nil {
		return 0, dictionary.Key{}, nil, err
	}
	return kind, key, obj, nil
}

func u32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// writeRecord assigns (or reuses) an instance id for obj under kind, writes
// its pointer header, body, and (version >= 8) trailing structure checksum.
// It returns the StreamRef assigned so callers can wire the pointer into a
// referencing field.
func writeRecord(wc *writeContext, kind KindID, obj any) (dictionary.StreamRef, error) {
	info := registry[kind]
	sr := wc.dict.RefCreate(obj, uint32(kind))

	body, err := info.Encode(wc, obj)
	if err != nil {
		return sr, err
	}

	ph := ptrHeader{Class: sr.Class, Instance: sr.Instance}
	if wc.ver.UsesLongPointer() {
		ph.ChkType = uint16(checksum.KindCRCLDAS)
		ph.Length = uint64(ptrHeaderSize(wc.ver) + len(body) + 4)
	}

	var objFilter checksum.Filter
	if wc.ver.HasStructureChecksum() {
		objFilter = checksum.NewLDAS()
		wc.s.Chain.Attach(checksum.ScopeObject, objFilter)
	}

	if err := writePtrHeader(wc.s, wc.ver, ph); err != nil {
		return sr, err
	}
	if err := wc.s.WriteBytes(body); err != nil {
		return sr, err
	}

	if wc.ver.HasStructureChecksum() {
		wc.s.Chain.Detach(objFilter)
		sum := objFilter.Sum()
		crc := uint32(sum[0])<<24 | uint32(sum[1])<<16 | uint32(sum[2])<<8 | uint32(sum[3])
		if err := wc.s.WriteU32(crc); err != nil {
			return sr, err
		}
	}
	return sr, nil
}

// deferNext registers obj's "next" wire pointer for resolution once the
// object it names has itself been declared: container fields are rebuilt
// by walking a linked list of next pointers terminated by null. It is a
// no-op when nextHead is the null terminator.
func deferNext(rc *readContext, obj any, nextHead ptrHeader) {
	if nextHead.isNull() {
		return
	}
	rc.resolver.Defer(nextHead.key(), func(v any) { rc.dict.SetNext(obj, v) })
}

// nextPtrOf returns the wire pointer for whatever dict currently knows as
// obj's successor (set by headOf when the container was assembled for
// writing), or the null terminator if obj is the last element.
func nextPtrOf(wc *writeContext, obj any) ptrHeader {
	nxt := wc.dict.Next(obj)
	if nxt == nil {
		return nullPtr
	}
	sr, ok := wc.dict.RefOf(nxt)
	if !ok {
		return nullPtr
	}
	return ptrHeader{Class: sr.Class, Instance: sr.Instance}
}

// writeNullTerminator writes the (class=0, instance=0) chain terminator.
func writeNullTerminator(s *streamio.Stream, ver Version) error {
	return writePtrHeader(s, ver, nullPtr)
}
