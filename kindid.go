package frame

// KindID is a closed enum value identifying an object kind. Ids 0, 1, 2
// are reserved.
type KindID uint32

const (
	// KindNullTerminator (id 0) closes a linked-list chain on the wire.
	KindNullTerminator KindID = 0
	// KindFrSH (id 1) is the schema-descriptor record.
	KindFrSH KindID = 1
	// KindFrSE (id 2) is the schema-element record.
	KindFrSE KindID = 2

	// All other ids are library-assigned within a version. gwframe uses
	// one stable numbering across every supported version rather than
	// replicating the historical per-version numbering used by LDAS
	// frameCPP: round-tripping, checksums and reference
	// resolution all key off field shapes and declared (class, instance)
	// pairs, never off the numeric value of a kind id.
	KindFrameH      KindID = 10
	KindFrRawData   KindID = 11
	KindFrAdcData   KindID = 12
	KindFrProcData  KindID = 13
	KindFrVect      KindID = 14
	KindFrEndOfFile KindID = 15
	KindFrTOC       KindID = 16
	KindFrDetector  KindID = 17
	KindFrHistory   KindID = 18
	KindFrEvent     KindID = 19
	KindFrSimEvent  KindID = 20
	KindFrSimData   KindID = 21
	KindFrSummary   KindID = 22
	KindFrTable     KindID = 23
	KindFrMsg       KindID = 24
	KindFrSerData   KindID = 25
	KindFrVersion   KindID = 26 // FrameH.types container entries
)

// Version identifies one on-disk Frame format version. The library's
// in-memory ("current") version is CurrentVersion.
type Version uint8

const (
	Version3 Version = 3
	Version4 Version = 4
	Version6 Version = 6
	Version7 Version = 7
	Version8 Version = 8

	// CurrentVersion is the in-memory object model's native version.
	CurrentVersion Version = Version8
)

// SupportedVersions lists every version the promote/demote pipeline knows
// how to translate to and from CurrentVersion.
var SupportedVersions = []Version{Version3, Version4, Version6, Version7, Version8}

// IsSupported reports whether v is one of SupportedVersions.
func (v Version) IsSupported() bool {
	for _, s := range SupportedVersions {
		if s == v {
			return true
		}
	}
	return false
}

// UsesLongPointer reports whether a version uses the 8-byte-length,
// checksum-typed long pointer form instead of the short class+instance
// form.
func (v Version) UsesLongPointer() bool { return v >= Version8 }

// HasStructureChecksum reports whether records on this version carry a
// trailing per-structure CRC.
func (v Version) HasStructureChecksum() bool { return v >= Version8 }
