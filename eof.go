package frame

import "github.com/ligo-gw/frame/internal/checksum"

// FrEndOfFile is the record every frame file ends with: how many frames and
// bytes it holds, where its table of contents starts, which checksum
// scheme was used at file scope, and the computed file checksum itself.
// NextFrameOffset is a hint letting a reader that already holds one
// FrEndOfFile locate the next frame in a multi-frame stream without
// re-scanning from the TOC; OutputStream.Close always writes it as 0, and
// InputStream does not use it.
type FrEndOfFile struct {
	NFrames         uint32
	NBytes          uint64
	SeekTOC         uint64
	NextFrameOffset uint64
	ChkType         uint16
	Checksum        uint32
}

// decodeFrEndOfFile reads the fields one at a time and calls
// rc.onEOFChecksumBoundary between ChkType and Checksum, so
// InputStream.ensureDecoded can detach its file-scope filters there: the
// stored Checksum cannot cover its own bytes.
func decodeFrEndOfFile(rc *readContext) (any, error) {
	s := rc.s
	e := &FrEndOfFile{}
	var err error
	if e.NFrames, err = s.U32(); err != nil {
		return nil, err
	}
	if e.NBytes, err = s.U64(); err != nil {
		return nil, err
	}
	if e.SeekTOC, err = s.U64(); err != nil {
		return nil, err
	}
	if e.NextFrameOffset, err = s.U64(); err != nil {
		return nil, err
	}
	if e.ChkType, err = s.U16(); err != nil {
		return nil, err
	}
	if rc.onEOFChecksumBoundary != nil {
		rc.onEOFChecksumBoundary()
	}
	if e.Checksum, err = s.U32(); err != nil {
		return nil, err
	}
	return e, nil
}

// writeEndOfFileRecord writes the terminal FrEndOfFile record directly to
// wc's stream instead of through the generic writeRecord body-buffer path,
// so the file-scope checksum/MD5 filters can be detached between the
// ChkType and Checksum fields: out.Close finalizes eof.Checksum from
// exactly the bytes a clean read will recompute it from (every frame and
// TOC record, and this record's own fields up to but excluding Checksum
// itself), matching InputStream.ensureDecoded's detach point. The file
// header is not covered: it is written and read before any file-scope
// filter is attached.
// It returns the MD5 digest to append as a trailer, if one was armed.
func writeEndOfFileRecord(wc *writeContext, eof *FrEndOfFile) ([]byte, error) {
	sr := wc.dict.RefCreate(eof, uint32(KindFrEndOfFile))
	ph := ptrHeader{Class: sr.Class, Instance: sr.Instance}
	if wc.ver.UsesLongPointer() {
		ph.ChkType = uint16(checksum.KindCRCLDAS)
		ph.Length = uint64(ptrHeaderSize(wc.ver) + int(sizeOfFrEndOfFile(eof, wc.ver)) + 4)
	}

	var objFilter checksum.Filter
	if wc.ver.HasStructureChecksum() {
		objFilter = checksum.NewLDAS()
		wc.s.Chain.Attach(checksum.ScopeObject, objFilter)
	}

	if err := writePtrHeader(wc.s, wc.ver, ph); err != nil {
		return nil, err
	}
	if err := wc.s.WriteU32(eof.NFrames); err != nil {
		return nil, err
	}
	if err := wc.s.WriteU64(eof.NBytes); err != nil {
		return nil, err
	}
	if err := wc.s.WriteU64(eof.SeekTOC); err != nil {
		return nil, err
	}
	if err := wc.s.WriteU64(eof.NextFrameOffset); err != nil {
		return nil, err
	}
	if err := wc.s.WriteU16(eof.ChkType); err != nil {
		return nil, err
	}

	var md5Sum []byte
	for _, f := range wc.s.Chain.DetachScope(checksum.ScopeFile) {
		switch f.Kind() {
		case checksum.KindMD5:
			md5Sum = f.Sum()
		default:
			sum := f.Sum()
			eof.Checksum = uint32(sum[0])<<24 | uint32(sum[1])<<16 | uint32(sum[2])<<8 | uint32(sum[3])
		}
	}

	if err := wc.s.WriteU32(eof.Checksum); err != nil {
		return nil, err
	}

	if wc.ver.HasStructureChecksum() {
		wc.s.Chain.Detach(objFilter)
		sum := objFilter.Sum()
		crc := uint32(sum[0])<<24 | uint32(sum[1])<<16 | uint32(sum[2])<<8 | uint32(sum[3])
		if err := wc.s.WriteU32(crc); err != nil {
			return nil, err
		}
	}
	return md5Sum, nil
}

func sizeOfFrEndOfFile(obj any, ver Version) uint64 { return 4 + 8 + 8 + 8 + 2 + 4 }

func init() {
	registerKind(&kindInfo{
		ID: KindFrEndOfFile, Name: "FrEndOfFile",
		Decode: decodeFrEndOfFile, SizeOf: sizeOfFrEndOfFile,
	})
}
