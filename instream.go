package frame

import (
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/dictionary"
	"github.com/ligo-gw/frame/internal/iocodec"
	"github.com/ligo-gw/frame/internal/streamio"
)

// FrameMask selects which branches of a FrameH's tree ReadFrameSubset
// decodes. Fields outside the mask are left at their zero value on the
// returned FrameH.
type FrameMask uint32

const (
	MaskDetectors FrameMask = 1 << iota
	MaskProcData
	MaskRawData
	MaskAuxData
	MaskAuxTable
	MaskType // FrameH.Versions
	MaskUser // FrameH.History

	MaskAll = MaskDetectors | MaskProcData | MaskRawData | MaskAuxData | MaskAuxTable | MaskType | MaskUser
)

// InputOptions configures OpenRead. A zero value is a valid, fully default
// configuration.
type InputOptions struct {
	// Logger overrides the default stderr/warn logger.
	Logger log.Logger
}

// InputStream is the read-side façade: it owns one buffer and decodes the
// file header eagerly (to fix byte order and declared version) but defers
// decoding any record body until the first call that needs one, so
// SetChecksumFile/SetMD5Sum can still arm a file-scope filter beforehand.
// Once that first call happens, gwframe decodes every top-level record in
// one pass into memory rather than streaming record-by-record; ReadFrame
// and its siblings are then simple slice/map lookups.
type InputStream struct {
	s      *streamio.Stream
	dict   *dictionary.Dictionary
	header FileHeader
	ver    Version

	decoded bool
	frames  []*FrameH
	toc     *FrTOC
	eof     *FrEndOfFile

	checksumFileKind checksum.Kind
	md5Enabled       bool
	fileChecksum     []byte
	md5Sum           []byte
	storedMD5        []byte

	logger *logHelper
}

// FileChecksum returns the computed file-scope checksum, if SetChecksumFile
// armed one before the first record was decoded; nil otherwise.
func (in *InputStream) FileChecksum() []byte { return in.fileChecksum }

// MD5Sum returns the computed file-scope MD5 digest, if SetMD5Sum(true) was
// called before the first record was decoded; nil otherwise.
func (in *InputStream) MD5Sum() []byte { return in.md5Sum }

// StoredMD5Sum returns the 16-byte MD5 digest read from the trailer
// immediately following the EOF record, if SetMD5Sum(true) was called
// before the first record was decoded and the stream carried a trailer;
// nil otherwise. A mismatch against MD5Sum indicates corruption.
func (in *InputStream) StoredMD5Sum() []byte { return in.storedMD5 }

// OpenRead reads and parses the file header out of buf. Record bodies are
// read from buf later, in one pass, by the first accessor that needs them
// (see InputStream's doc comment on lazy decode).
func OpenRead(buf streamio.Buffer, opts *InputOptions) (*InputStream, error) {
	if opts == nil {
		opts = &InputOptions{}
	}
	logger := defaultLogger()
	if opts.Logger != nil {
		logger = log.NewHelper(opts.Logger)
	}

	raw := make([]byte, headerTotalLen)
	read := 0
	for read < len(raw) {
		n, err := buf.Read(raw[read:])
		read += n
		if err != nil && read < len(raw) {
			return nil, ErrUnexpectedEOF
		}
		if n == 0 && read < len(raw) {
			return nil, ErrUnexpectedEOF
		}
	}
	header, order, consumed, err := parseFileHeader(raw)
	if err != nil {
		return nil, err
	}
	if !header.Version().IsSupported() {
		return nil, ErrUnsupportedVersion
	}
	if err := buf.Seek(int64(consumed)); err != nil {
		return nil, err
	}

	in := &InputStream{
		s:      streamio.NewStream(buf, order),
		dict:   dictionary.New(),
		header: header,
		ver:    header.Version(),
		logger: logger,
	}
	return in, nil
}

// OpenReadFile memory-maps name read-only and opens it as a frame stream.
func OpenReadFile(name string, opts *InputOptions) (*InputStream, error) {
	fb, err := streamio.OpenFileBuffer(name)
	if err != nil {
		return nil, err
	}
	in, err := OpenRead(fb, opts)
	if err != nil {
		fb.Close()
		return nil, err
	}
	return in, nil
}

// OpenReadBytes opens a frame stream directly out of an in-memory buffer,
// copying data so the caller may reuse or discard its slice afterward.
func OpenReadBytes(data []byte, opts *InputOptions) (*InputStream, error) {
	return OpenRead(streamio.NewMemoryBufferFrom(data), opts)
}

// Close releases the underlying file descriptor, if OpenReadFile was used.
func (in *InputStream) Close() error {
	if c, ok := in.s.Buf.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// ByteSwapping reports whether the detected file byte order differs from
// the host's native order.
func (in *InputStream) ByteSwapping() bool { return in.s.Order.Swapped }

// Header returns the decoded file header.
func (in *InputStream) Header() FileHeader { return in.header }

// SetChecksumFile arms (or disarms, with checksum.KindNone) the file-scope
// checksum computed while decoding. It has no effect once a record has
// already been decoded (see InputStream's doc comment on lazy decode).
func (in *InputStream) SetChecksumFile(kind checksum.Kind) { in.checksumFileKind = kind }

// SetMD5Sum enables or disables the file-scope MD5 digest computed while
// decoding. It has no effect once a record has already been decoded.
func (in *InputStream) SetMD5Sum(enabled bool) { in.md5Enabled = enabled }

// GetFrameCount returns how many FrameH records were decoded.
func (in *InputStream) GetFrameCount() (uint32, error) {
	if err := in.ensureDecoded(); err != nil {
		return 0, err
	}
	return uint32(len(in.frames)), nil
}

// ReadFrame returns the frame at index. decompress is accepted for
// signature parity with the façade this library models; gwframe never ships
// a compression codec (see FrVect.Expand), so it has no effect here and a
// caller wanting expanded FrVect payloads calls Expand directly with its own
// Decompressor.
func (in *InputStream) ReadFrame(index int, decompress bool) (*FrameH, error) {
	if err := in.ensureDecoded(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(in.frames) {
		return nil, ErrInvalidFrameStructure
	}
	return in.frames[index], nil
}

// ReadFrameSubset returns a shallow copy of the frame at index with only the
// branches selected by mask populated.
func (in *InputStream) ReadFrameSubset(index int, mask FrameMask) (*FrameH, error) {
	full, err := in.ReadFrame(index, false)
	if err != nil {
		return nil, err
	}
	out := &FrameH{
		Name: full.Name, Run: full.Run, Frame: full.Frame,
		DataQuality: full.DataQuality, GTimeS: full.GTimeS, GTimeN: full.GTimeN,
		ULeapS: full.ULeapS, Dt: full.Dt,
	}
	if mask&MaskRawData != 0 {
		out.RawData = full.RawData
	}
	if mask&MaskProcData != 0 {
		out.ProcData = full.ProcData
		out.SimData = full.SimData
		out.SimEvent = full.SimEvent
		out.Summary = full.Summary
	}
	if mask&MaskDetectors != 0 {
		out.Detectors = full.Detectors
	}
	if mask&MaskAuxData != 0 {
		out.Aux = full.Aux
		out.Event = full.Event
	}
	if mask&MaskAuxTable != 0 {
		out.Table = full.Table
	}
	if mask&MaskType != 0 {
		out.Versions = full.Versions
	}
	if mask&MaskUser != 0 {
		out.History = full.History
	}
	return out, nil
}

// ReadAdcData returns the named ADC channel's record from frame index's raw
// data, or ErrInvalidFrameStructure if the frame has no raw data or the
// channel is absent.
func (in *InputStream) ReadAdcData(index int, channel string) (*FrAdcData, error) {
	fr, err := in.ReadFrame(index, false)
	if err != nil {
		return nil, err
	}
	if fr.RawData == nil {
		return nil, ErrInvalidFrameStructure
	}
	for _, a := range fr.RawData.Adc {
		if a.Name == channel {
			return a, nil
		}
	}
	return nil, ErrInvalidFrameStructure
}

// ReadProcData returns the named processed-data channel's record from frame
// index.
func (in *InputStream) ReadProcData(index int, channel string) (*FrProcData, error) {
	fr, err := in.ReadFrame(index, false)
	if err != nil {
		return nil, err
	}
	for _, p := range fr.ProcData {
		if p.Name == channel {
			return p, nil
		}
	}
	return nil, ErrInvalidFrameStructure
}

// ReadEvent returns the offset'th event named typeName within frame index.
func (in *InputStream) ReadEvent(index int, typeName string, offset int) (*FrEvent, error) {
	fr, err := in.ReadFrame(index, false)
	if err != nil {
		return nil, err
	}
	found := 0
	for _, e := range fr.Event {
		if e.Name != typeName {
			continue
		}
		if found == offset {
			return e, nil
		}
		found++
	}
	return nil, ErrInvalidFrameStructure
}

// ReadDetector finds the named detector record, searching frames in
// declared order. gwframe's TOC (toc.go) does not index detector offsets
// (see FrTOC's doc comment on scope), so this is a linear scan over the
// already fully-decoded frame set rather than a seek-and-decode-one.
func (in *InputStream) ReadDetector(name string) (*FrDetector, error) {
	if err := in.ensureDecoded(); err != nil {
		return nil, err
	}
	for _, fr := range in.frames {
		for _, d := range fr.Detectors {
			if d.Name == name {
				return d, nil
			}
		}
	}
	return nil, ErrInvalidFrameStructure
}

// TOC returns the decoded table of contents, or nil if the stream carried
// none.
func (in *InputStream) TOC() (*FrTOC, error) {
	if err := in.ensureDecoded(); err != nil {
		return nil, err
	}
	return in.toc, nil
}

// EndOfFile returns the decoded end-of-file record, or nil if the stream
// was truncated before one was reached.
func (in *InputStream) EndOfFile() (*FrEndOfFile, error) {
	if err := in.ensureDecoded(); err != nil {
		return nil, err
	}
	return in.eof, nil
}

// ensureDecoded performs the one-shot top-level decode pass the first time
// any read accessor is called, walking every top-level record until the
// end-of-file record closes the logical file, or the buffer is exhausted.
// gwframe supports one logical file per buffer: the original format allows
// several header/...​/FrEndOfFile sub-files concatenated in one physical
// file, but this loop stops at the first FrEndOfFile, and any bytes after
// it (other than the MD5 trailer, when SetMD5Sum armed one) are never read.
func (in *InputStream) ensureDecoded() error {
	if in.decoded {
		return nil
	}
	in.decoded = true
	resolver := dictionary.NewResolver()
	rc := &readContext{s: in.s, dict: in.dict, resolver: resolver, ver: in.ver, logger: in.logger}

	if in.checksumFileKind != checksum.KindNone {
		in.s.Chain.Attach(checksum.ScopeFile, checksum.New(in.checksumFileKind))
	}
	if in.md5Enabled {
		in.s.Chain.Attach(checksum.ScopeFile, checksum.NewMD5())
	}
	// decodeFrEndOfFile calls this between its ChkType and Checksum fields,
	// the same point writeEndOfFileRecord detaches at on write, so a clean
	// file's stored Checksum matches one recomputed here byte for byte.
	rc.onEOFChecksumBoundary = func() {
		for _, f := range in.s.Chain.DetachScope(checksum.ScopeFile) {
			switch f.Kind() {
			case checksum.KindMD5:
				in.md5Sum = f.Sum()
			default:
				in.fileChecksum = f.Sum()
			}
		}
	}

	for {
		if in.s.Tell() >= in.s.Buf.Len() {
			break
		}
		kind, _, obj, err := readRecord(rc)
		if err != nil {
			if errors.Is(err, iocodec.ErrShortRead) {
				return ErrUnexpectedEOF
			}
			return err
		}
		switch kind {
		case KindNullTerminator:
			continue
		case KindFrameH:
			in.frames = append(in.frames, obj.(*FrameH))
		case KindFrTOC:
			in.toc = obj.(*FrTOC)
		case KindFrEndOfFile:
			in.eof = obj.(*FrEndOfFile)
		case KindFrSH, KindFrSE:
			// Read and discarded: see frsh.go's doc comment on why these
			// carry no behavior in the static registry model.
		}
		if kind == KindFrEndOfFile {
			break
		}
	}

	// A truncated stream that never reaches FrEndOfFile leaves the hook
	// above unfired; fall back to detaching here so FileChecksum/MD5Sum
	// still report over whatever was actually read.
	for _, f := range in.s.Chain.DetachScope(checksum.ScopeFile) {
		switch f.Kind() {
		case checksum.KindMD5:
			in.md5Sum = f.Sum()
		default:
			in.fileChecksum = f.Sum()
		}
	}

	// The stored digest is a raw trailer, not itself part of the hashed
	// range, so it is read only after both filters are detached above.
	if in.md5Enabled && in.eof != nil {
		if trailer, err := in.s.ReadBytes(16); err == nil {
			in.storedMD5 = trailer
		}
	}

	if err := resolver.Drain(in.dict); err != nil {
		return wrapDanglingReference(err)
	}
	return nil
}

func wrapDanglingReference(err error) error {
	if dr, ok := err.(*dictionary.ErrDanglingReference); ok {
		return &DanglingReferenceError{Class: dr.Key.Class, Instance: dr.Key.Instance}
	}
	return err
}
