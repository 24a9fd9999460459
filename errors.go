package frame

import "fmt"

// Sentinel errors for the flat cases of the §7 taxonomy. Structural errors
// that carry data of their own (checksum mismatches, dangling/duplicate
// references, channel name collisions, filename mismatches) are typed
// below instead, and compared with errors.As.
var (
	// ErrNotAFrameFile is returned when the magic number never matches,
	// even after a byte-swap attempt.
	ErrNotAFrameFile = fmtErr("not a frame file")

	// ErrUnsupportedVersion is returned when a stream declares a version
	// outside the library's promote/demote chain.
	ErrUnsupportedVersion = fmtErr("unsupported frame version")

	// ErrUnexpectedEOF is returned on a short read.
	ErrUnexpectedEOF = fmtErr("unexpected end of frame data")

	// ErrProtocolMisuse is returned for any stream state-machine
	// transition that isn't valid from the current state.
	ErrProtocolMisuse = fmtErr("invalid frame stream state transition")

	// ErrNoChecksum is reported by Verify when RequireEOFChecksum finds the
	// EOF record's Checksum stored as zero ("not computed"), or when Strict
	// is set and a requested file-scope CRC/MD5 check has nothing computed
	// to compare.
	ErrNoChecksum = fmtErr("required checksum is absent")

	// ErrStringTooLong is returned when a string exceeds its prefix range.
	ErrStringTooLong = fmtErr("string exceeds maximum prefix length")

	// ErrLossyDemote is returned when demoting would drop information and
	// strict mode is enabled.
	ErrLossyDemote = fmtErr("demotion would lose information")

	// ErrUnimplemented is returned when a demotion adapter has no
	// representation at all for the older version.
	ErrUnimplemented = fmtErr("version adapter not implemented for this value")

	// ErrInvalidFrameStructure is the catch-all for structural violations
	// not otherwise classified.
	ErrInvalidFrameStructure = fmtErr("invalid frame structure")

	// ErrTruncation is returned when the EOF record is absent or points
	// past the end of the buffer.
	ErrTruncation = fmtErr("frame file truncated")

	// ErrDataInvalid is reported by Verify for each FrAdcData with
	// DataValid != 0 when CheckDataValidAll is set.
	ErrDataInvalid = fmtErr("channel data marked invalid")
)

func fmtErr(msg string) error { return fmt.Errorf("frame: %s", msg) }

// ChecksumScope names which of the three checksum scopes a
// ChecksumMismatchError pertains to.
type ChecksumScope int

const (
	ScopeFile ChecksumScope = iota
	ScopeFrame
	ScopeStructure
)

func (s ChecksumScope) String() string {
	switch s {
	case ScopeFile:
		return "file"
	case ScopeFrame:
		return "frame"
	case ScopeStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// ChecksumMismatchError reports a CRC or MD5 value that didn't match what
// was stored on disk.
type ChecksumMismatchError struct {
	Kind     string
	Expected []byte
	Actual   []byte
	Scope    ChecksumScope
	Detail   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("frame: %s checksum mismatch (%s): expected % x, got % x",
		e.Scope, e.Kind, e.Expected, e.Actual) + detailSuffix(e.Detail)
}

func detailSuffix(d string) string {
	if d == "" {
		return ""
	}
	return ": " + d
}

// DanglingReferenceError reports a resolver drain that found a reference
// with no matching declaration.
type DanglingReferenceError struct {
	Class, Instance uint32
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("frame: dangling reference (class=%d, instance=%d)", e.Class, e.Instance)
}

// DuplicateDeclarationError reports the same (class, instance) declared
// twice in one file.
type DuplicateDeclarationError struct {
	Class, Instance uint32
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("frame: duplicate declaration (class=%d, instance=%d)", e.Class, e.Instance)
}

// DuplicateChannelNameError reports two channels of the same kind sharing a
// name within one frame (checked when the verifier's duplicate-name flag
// is enabled).
type DuplicateChannelNameError struct {
	Kind, Name string
}

func (e *DuplicateChannelNameError) Error() string {
	return fmt.Sprintf("frame: duplicate %s channel name %q", e.Kind, e.Name)
}

// MetadataInvalidError reports an internally inconsistent metadata field,
// e.g. a leap-second count that disagrees with the stored GPS time.
type MetadataInvalidError struct {
	Detail string
}

func (e *MetadataInvalidError) Error() string { return "frame: metadata invalid: " + e.Detail }

// MetadataMismatchError reports a disagreement between a frame file's
// contents and its filename, per the LIGO/Virgo file naming convention.
type MetadataMismatchError struct {
	Field           string
	FromFilename    string
	FromFrame       string
}

func (e *MetadataMismatchError) Error() string {
	return fmt.Sprintf("frame: filename/content mismatch on %s: filename says %q, frame says %q",
		e.Field, e.FromFilename, e.FromFrame)
}
