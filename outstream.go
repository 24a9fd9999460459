package frame

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/dictionary"
	"github.com/ligo-gw/frame/internal/iocodec"
	"github.com/ligo-gw/frame/internal/streamio"
)

type outputState int

const (
	stateInit outputState = iota
	stateHeaderEmitted
	stateClosed
)

// OutputOptions configures OpenWrite.
type OutputOptions struct {
	// Originator is the 5-byte ASCII tag written into the file header.
	// Defaults to "GWFR " if empty.
	Originator string
	// Order selects the on-disk byte order; defaults to big-endian if left
	// zero-valued.
	Order iocodec.Order
	// Logger overrides the default stderr/warn logger.
	Logger log.Logger
}

// OutputStream is the write-side façade. It follows the writer state
// machine Init -> HeaderEmitted -> (FrameBegin -> FrameBody -> FrameEnd)* ->
// TocEmitted -> EofEmitted -> Closed; any other call sequence fails with
// ErrProtocolMisuse.
type OutputStream struct {
	s    *streamio.Stream
	dict *dictionary.Dictionary
	ver  Version

	state      outputState
	disableTOC bool

	toc               *FrTOC
	lastFrameChecksum []byte
	md5Attached       bool
	fileChkType       checksum.Kind

	logger *logHelper
}

// OpenWrite starts a new frame stream writing to buf at version ver, and
// immediately emits the file header.
func OpenWrite(buf streamio.Buffer, ver Version, opts *OutputOptions) (*OutputStream, error) {
	if !ver.IsSupported() {
		return nil, ErrUnsupportedVersion
	}
	if opts == nil {
		opts = &OutputOptions{}
	}
	logger := defaultLogger()
	if opts.Logger != nil {
		logger = log.NewHelper(opts.Logger)
	}
	originator := opts.Originator
	if originator == "" {
		originator = "GWFR "
	}
	order := opts.Order
	if order.ByteOrder() == nil {
		order = iocodec.BigEndian()
	}

	out := &OutputStream{
		s:      streamio.NewStream(buf, order),
		dict:   dictionary.New(),
		ver:    ver,
		toc:    newFrTOC(),
		logger: logger,
	}

	header := writeFileHeader(nil, originator, ver, order)
	if err := out.s.WriteBytes(header); err != nil {
		return nil, err
	}
	out.state = stateHeaderEmitted
	return out, nil
}

// OpenWriteMemory is a convenience constructor writing into a fresh owning
// MemoryBuffer, returned alongside the stream so a caller can read its
// accumulated bytes back out (e.g. via OpenReadBytes) once Close returns.
func OpenWriteMemory(ver Version, opts *OutputOptions) (*OutputStream, *streamio.MemoryBuffer, error) {
	mb := streamio.NewMemoryBuffer()
	out, err := OpenWrite(mb, ver, opts)
	if err != nil {
		return nil, nil, err
	}
	return out, mb, nil
}

// DisableTOC suppresses table-of-contents emission on Close. Valid only
// before the first WriteFrame call.
func (out *OutputStream) DisableTOC() error {
	if out.state != stateHeaderEmitted || out.toc.FrameCount() > 0 {
		return ErrProtocolMisuse
	}
	out.disableTOC = true
	return nil
}

// SetChecksumFile arms a file-scope checksum, accumulated over every byte
// written from this call onward. Valid only before the first WriteFrame
// call; the computed value is written into the EOF record's Checksum/
// ChkType fields at Close.
func (out *OutputStream) SetChecksumFile(kind checksum.Kind) error {
	if out.state != stateHeaderEmitted || out.toc.FrameCount() > 0 {
		return ErrProtocolMisuse
	}
	if kind == checksum.KindNone {
		return nil
	}
	out.s.Chain.Attach(checksum.ScopeFile, checksum.New(kind))
	out.fileChkType = kind
	return nil
}

// SetMD5Sum arms a file-scope MD5 digest. gwframe follows the frameCPP
// convention of appending the 16-byte digest as a raw trailer immediately
// after the EOF record, with no pointer header of its own (see Close and
// InputStream.ensureDecoded's matching read-side logic).
func (out *OutputStream) SetMD5Sum(enabled bool) error {
	if out.state != stateHeaderEmitted {
		return ErrProtocolMisuse
	}
	if !enabled || out.md5Attached {
		return nil
	}
	out.s.Chain.Attach(checksum.ScopeFile, checksum.NewMD5())
	out.md5Attached = true
	return nil
}

// LastFrameChecksum returns the most recently computed frame-scope checksum
// from WriteFrame, or nil if none was requested. gwframe's wire format
// models no on-disk slot for a frame-scope checksum (toc.go/eof.go model
// file scope only), so this exists purely for a caller or test to inspect
// the value WriteFrame computed.
func (out *OutputStream) LastFrameChecksum() []byte { return out.lastFrameChecksum }

// WriteFrame encodes fr and its entire owned object graph as a flat run of
// top-level records (the wire format has no structural nesting: every
// record a FrameH transitively owns is its own record, linked only by
// pointer fields). compressionScheme and compressionLevel are accepted for
// signature parity with the façade this library models and are not
// interpreted: gwframe never compresses FrVect payloads itself, a caller
// compresses into FrVect.Data before calling WriteFrame. checksumKind arms
// a per-frame checksum filter for the duration of this call.
func (out *OutputStream) WriteFrame(fr *FrameH, compressionScheme, compressionLevel int, checksumKind checksum.Kind) error {
	if out.state != stateHeaderEmitted {
		return ErrProtocolMisuse
	}

	var frameFilter checksum.Filter
	if checksumKind != checksum.KindNone {
		frameFilter = checksum.New(checksumKind)
		out.s.Chain.Attach(checksum.ScopeFrame, frameFilter)
	}

	offset := out.s.Tell()
	wc := &writeContext{s: out.s, dict: out.dict, ver: out.ver}
	if err := out.writeFrameGraph(wc, fr); err != nil {
		if frameFilter != nil {
			out.s.Chain.Detach(frameFilter)
		}
		return err
	}

	if frameFilter != nil {
		out.s.Chain.Detach(frameFilter)
		out.lastFrameChecksum = frameFilter.Sum()
	}

	out.toc.AddFrame(offset, fr.GTimeS, fr.GTimeN, fr.Dt)
	if !out.disableTOC {
		frameIdx := out.toc.FrameCount() - 1
		if fr.RawData != nil {
			for _, a := range fr.RawData.Adc {
				if _, ok := out.dict.RefOf(a); ok {
					out.toc.SetChannelOffset(a.Name, frameIdx, offset)
				}
			}
		}
	}
	return nil
}

// writeFrameGraph writes fr and every object it transitively owns as its
// own top-level record. The wire format's nesting is entirely pointer-based
// (frameh.go's headOf assigns instance ids and next-chains during fr's own
// Encode, but never emits the referenced objects itself), so this walk is
// what actually puts each referenced FrAdcData/FrVect/etc. onto the stream.
func (out *OutputStream) writeFrameGraph(wc *writeContext, fr *FrameH) error {
	if _, err := writeRecord(wc, KindFrameH, fr); err != nil {
		return err
	}
	if fr.RawData != nil {
		if err := out.writeRawDataGraph(wc, fr.RawData); err != nil {
			return err
		}
	}
	for _, p := range fr.ProcData {
		if err := out.writeProcDataGraph(wc, p); err != nil {
			return err
		}
	}
	for _, v := range fr.Aux {
		if _, err := writeRecord(wc, KindFrVect, v); err != nil {
			return err
		}
	}
	for _, t := range fr.Table {
		if err := out.writeShapeKindGraph(wc, KindFrTable, t); err != nil {
			return err
		}
	}
	for _, d := range fr.Detectors {
		if err := out.writeShapeKindGraph(wc, KindFrDetector, d); err != nil {
			return err
		}
	}
	for _, h := range fr.History {
		if err := out.writeShapeKindGraph(wc, KindFrHistory, h); err != nil {
			return err
		}
	}
	for _, e := range fr.Event {
		if err := out.writeShapeKindGraph(wc, KindFrEvent, e); err != nil {
			return err
		}
	}
	for _, se := range fr.SimEvent {
		if err := out.writeShapeKindGraph(wc, KindFrSimEvent, se); err != nil {
			return err
		}
	}
	for _, sd := range fr.SimData {
		if err := out.writeShapeKindGraph(wc, KindFrSimData, sd); err != nil {
			return err
		}
	}
	for _, sm := range fr.Summary {
		if err := out.writeShapeKindGraph(wc, KindFrSummary, sm); err != nil {
			return err
		}
	}
	for _, ver := range fr.Versions {
		if err := out.writeShapeKindGraph(wc, KindFrVersion, ver); err != nil {
			return err
		}
	}
	return nil
}

func (out *OutputStream) writeRawDataGraph(wc *writeContext, rd *FrRawData) error {
	if _, err := writeRecord(wc, KindFrRawData, rd); err != nil {
		return err
	}
	for _, a := range rd.Adc {
		if err := out.writeAdcDataGraph(wc, a); err != nil {
			return err
		}
	}
	for _, se := range rd.Ser {
		if err := out.writeShapeKindGraph(wc, KindFrSerData, se); err != nil {
			return err
		}
	}
	for _, t := range rd.Table {
		if err := out.writeShapeKindGraph(wc, KindFrTable, t); err != nil {
			return err
		}
	}
	for _, v := range rd.Other {
		if _, err := writeRecord(wc, KindFrVect, v); err != nil {
			return err
		}
	}
	return nil
}

func (out *OutputStream) writeAdcDataGraph(wc *writeContext, a *FrAdcData) error {
	if _, err := writeRecord(wc, KindFrAdcData, a); err != nil {
		return err
	}
	for _, v := range a.Data {
		if _, err := writeRecord(wc, KindFrVect, v); err != nil {
			return err
		}
	}
	for _, v := range a.Aux {
		if _, err := writeRecord(wc, KindFrVect, v); err != nil {
			return err
		}
	}
	return nil
}

func (out *OutputStream) writeProcDataGraph(wc *writeContext, p *FrProcData) error {
	if _, err := writeRecord(wc, KindFrProcData, p); err != nil {
		return err
	}
	for _, v := range p.Data {
		if _, err := writeRecord(wc, KindFrVect, v); err != nil {
			return err
		}
	}
	for _, v := range p.Aux {
		if _, err := writeRecord(wc, KindFrVect, v); err != nil {
			return err
		}
	}
	if p.Table != nil {
		if err := out.writeShapeKindGraph(wc, KindFrTable, p.Table); err != nil {
			return err
		}
	}
	return nil
}

// writeShapeKindGraph writes one of the shapeKind-backed auxiliary kinds
// (auxkinds.go) plus the FrVect entries in its Data container.
func (out *OutputStream) writeShapeKindGraph(wc *writeContext, kind KindID, obj any) error {
	if _, err := writeRecord(wc, kind, obj); err != nil {
		return err
	}
	for _, v := range shapeKindDataOf(obj) {
		if _, err := writeRecord(wc, KindFrVect, v); err != nil {
			return err
		}
	}
	return nil
}

func shapeKindDataOf(obj any) []*FrVect {
	switch v := obj.(type) {
	case *FrDetector:
		return v.Data
	case *FrHistory:
		return v.Data
	case *FrEvent:
		return v.Data
	case *FrSimEvent:
		return v.Data
	case *FrSimData:
		return v.Data
	case *FrSummary:
		return v.Data
	case *FrTable:
		return v.Data
	case *FrMsg:
		return v.Data
	case *FrSerData:
		return v.Data
	case *FrVersion:
		return v.Data
	default:
		return nil
	}
}

// WriteStaticData attaches detector and history records to fr's containers
// before it is written. gwframe models static data as ordinary
// FrameH.Detectors/History container entries (see frameh.go) rather than a
// separate wire concept, so this exists for signature parity with the
// façade this library models: a caller could as well append to fr directly.
func (out *OutputStream) WriteStaticData(fr *FrameH, detectors []*FrDetector, history []*FrHistory) error {
	if out.state != stateHeaderEmitted {
		return ErrProtocolMisuse
	}
	fr.Detectors = append(fr.Detectors, detectors...)
	fr.History = append(fr.History, history...)
	return nil
}

// Close emits the table of contents (unless DisableTOC was called), the
// end-of-file record, finalizes any file-scope checksum/MD5 filters still
// attached, and transitions the stream to Closed. Calling Close twice is
// ErrProtocolMisuse.
func (out *OutputStream) Close() error {
	if out.state == stateClosed {
		return ErrProtocolMisuse
	}

	wc := &writeContext{s: out.s, dict: out.dict, ver: out.ver}
	seekTOC := uint64(out.s.Tell())
	if !out.disableTOC {
		if _, err := writeRecord(wc, KindFrTOC, out.toc); err != nil {
			return err
		}
	}

	// NBytes counts bytes written through the end of the TOC, not including
	// the EOF record's own bytes: a structure-checksummed record (v8+)
	// cannot report its own final size without either patching already-
	// checksummed bytes or omitting itself from the checksum, so gwframe
	// defines NBytes the way that keeps it self-consistent to compute.
	endOfFile := &FrEndOfFile{
		NFrames: uint32(out.toc.FrameCount()),
		NBytes:  uint64(out.s.Tell()),
		SeekTOC: seekTOC,
		ChkType: uint16(out.fileChkType),
	}
	md5Sum, err := writeEndOfFileRecord(wc, endOfFile)
	if err != nil {
		return err
	}

	if md5Sum != nil {
		if err := out.s.WriteBytes(md5Sum); err != nil {
			return err
		}
	}

	out.state = stateClosed
	if c, ok := out.s.Buf.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
