package streamio

// Scanner lets a DynamicBuffer understand enough of the Frame record
// framing to know how many bytes it needs next, without the buffer layer
// itself knowing anything about Frame kinds.
type Scanner interface {
	// HeaderSize is the fixed number of bytes the file header occupies,
	// including the byte-order magic record.
	HeaderSize() int
	// OnHeader is called once, with the complete header bytes, so the
	// scanner can record the detected Frame version.
	OnHeader(header []byte) (version int, err error)
	// RecordPrefixSize is how many bytes of a record must be read before
	// its total length is known (short form: class+instance give no length,
	// so the scanner falls back to a fixed minimal read; long form: the
	// leading 8-byte length field).
	RecordPrefixSize(version int) int
	// RecordTotalLen decodes prefix and returns the record's total length
	// on the wire, prefix included.
	RecordTotalLen(version int, prefix []byte) (int, error)
	// OnRecord is called with one complete record's bytes. It reports
	// whether this record is the logical file's EndOfFile record (closing
	// out the scan) and, when the record carries frame/duration metadata,
	// updates frameNumber/duration via the returned values.
	OnRecord(record []byte) (isEOF bool, frameNumber int, durationDelta float64)
}

type dynPhase int

const (
	phaseHeader dynPhase = iota
	phasePrefix
	phaseBody
	phaseDone
)

// DynamicBuffer is fed in chunks from an external source: it never blocks
// waiting for bytes, instead failing with ErrNeedMoreData when the chunk
// it was given doesn't yet satisfy its current demand. The caller drives
// it with NextBlockSize/NextBlock until Ready is true.
type DynamicBuffer struct {
	scanner Scanner

	phase  dynPhase
	need   int
	pend   []byte // bytes accumulated for the current phase
	prefix []byte // the record prefix, kept to compute total length

	Version     int
	FrameNumber int
	Duration    float64
	Ready       bool
}

// NewDynamicBuffer starts a scan driven by scanner.
func NewDynamicBuffer(scanner Scanner) *DynamicBuffer {
	d := &DynamicBuffer{scanner: scanner, phase: phaseHeader}
	d.need = scanner.HeaderSize()
	return d
}

// NextBlockSize reports how many bytes the scanner wants next.
func (d *DynamicBuffer) NextBlockSize() int {
	if d.Ready {
		return 0
	}
	return d.need - len(d.pend)
}

// NextBlock delivers exactly NextBlockSize() (or fewer, leaving the demand
// unmet) bytes. Supplying fewer than demanded simply leaves NextBlockSize
// non-zero; the caller is expected to keep calling with more data.
func (d *DynamicBuffer) NextBlock(b []byte) error {
	if d.Ready {
		return nil
	}
	d.pend = append(d.pend, b...)
	if len(d.pend) < d.need {
		return ErrNeedMoreData
	}

	chunk := d.pend[:d.need]
	d.pend = d.pend[d.need:]

	switch d.phase {
	case phaseHeader:
		ver, err := d.scanner.OnHeader(chunk)
		if err != nil {
			return err
		}
		d.Version = ver
		d.phase = phasePrefix
		d.need = d.scanner.RecordPrefixSize(ver)
		d.prefix = nil
	case phasePrefix:
		d.prefix = chunk
		total, err := d.scanner.RecordTotalLen(d.Version, chunk)
		if err != nil {
			return err
		}
		d.phase = phaseBody
		d.need = total - len(chunk)
		if d.need < 0 {
			d.need = 0
		}
	case phaseBody:
		record := append(append([]byte{}, d.prefix...), chunk...)
		isEOF, frameNo, durDelta := d.scanner.OnRecord(record)
		d.FrameNumber = frameNo
		d.Duration += durDelta
		if isEOF {
			d.phase = phaseDone
			d.Ready = true
			d.need = 0
			return nil
		}
		d.phase = phasePrefix
		d.need = d.scanner.RecordPrefixSize(d.Version)
		d.prefix = nil
	}

	// Any leftover bytes from an over-generous NextBlock call are replayed
	// through the new phase's demand immediately.
	if len(d.pend) > 0 && !d.Ready {
		leftover := d.pend
		d.pend = nil
		return d.NextBlock(leftover)
	}
	return nil
}
