package frame

import (
	"bytes"
	"strconv"

	"github.com/ligo-gw/frame/filename"
	"github.com/ligo-gw/frame/internal/checksum"
)

// VerifyOptions configures Verify. A zero value runs the cheapest
// meaningful pass: a full decode with no extra checks and fail-fast on the
// first error.
type VerifyOptions struct {
	// Strict makes a requested file-scope check that has nothing to compare
	// fail with ErrNoChecksum instead of being skipped: CheckFileCRC when the
	// stream computed no file checksum, CheckMD5 when it computed no digest
	// or read no MD5 trailer. It does not apply to per-structure checksums:
	// a zero structure CRC slot is skipped during decode whether or not
	// Strict is set.
	Strict bool
	// RequireEOFChecksum fails with ErrNoChecksum if the EOF record's own
	// Checksum field is zero.
	RequireEOFChecksum bool
	// CheckFileCRC recomputes the file-scope CRC and compares it against
	// the EOF record's stored value.
	CheckFileCRC bool
	// CheckMD5 recomputes the file-scope MD5 digest and compares it
	// against the trailer following the EOF record.
	CheckMD5 bool
	// Fast skips the per-frame checks and the file CRC/MD5 comparison and
	// only checks the TOC and EOF records are present and agree on the frame
	// count; the stream's decode pass still reads every record. Only meaningful at
	// version 8 and above, since earlier versions carry no per-structure
	// checksum to lean on for a shortcut; Fast is silently ignored below
	// Version8.
	Fast bool
	// CheckExpandability asks every FrAdcData/FrProcData (via Promoter)
	// whether it would survive a demotion to Version3 losslessly, without
	// actually performing the demotion.
	CheckExpandability bool
	// CheckDuplicateNames runs every registered kind's Verify hook across
	// the decoded frame tree (this is where FrRawData's duplicate-ADC-name
	// check and similar per-kind checks fire).
	CheckDuplicateNames bool
	// CheckDataValidAll reports ErrDataInvalid for every FrAdcData whose
	// DataValid field is nonzero.
	CheckDataValidAll bool
	// ValidateMetadataAgainstFilename, if non-empty, parses it with the
	// filename package and compares its fields against the first frame's
	// metadata.
	ValidateMetadataAgainstFilename string
	// CollectAllErrors accumulates every error Verify's own checks find
	// instead of returning on the first one. It does not change the
	// fail-fast behavior of the underlying decode itself (see Verify's
	// doc comment).
	CollectAllErrors bool
}

// Report is the typed result of a Verify call: every error found, and
// whether the stream is otherwise sound.
type Report struct {
	Errors     []error
	FrameCount int
}

// OK reports whether Verify found zero errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Verify walks in according to opts, producing a Report. Decode-time
// failures (a structure checksum mismatch, a dangling reference, a short
// read) necessarily abort the underlying decode pass itself — the stream
// has no way to skip an unreadable record and keep going — so exactly one
// such error is ever reported regardless of CollectAllErrors. Once the
// stream decodes cleanly, the checks Verify performs on top of it
// (duplicate names, data validity, CRC/MD5 recomputation, metadata-vs-
// filename, expandability) are all independent of each other and do honor
// CollectAllErrors, continuing past a failed check instead of stopping.
func Verify(in *InputStream, opts VerifyOptions) (*Report, error) {
	report := &Report{}

	if opts.Fast && in.ver >= Version8 {
		return verifyFast(in, opts, report)
	}

	// GetFrameCount forces the one-shot decode pass; a structure checksum
	// mismatch, dangling reference, or short read necessarily aborts it,
	// since there is no way to skip an unreadable record and keep going.
	// Exactly one such error is ever reported regardless of
	// CollectAllErrors; every check below assumes this already succeeded.
	count, err := in.GetFrameCount()
	if err != nil {
		report.Errors = append(report.Errors, err)
		return report, nil
	}
	report.FrameCount = int(count)

	for i := 0; i < int(count); i++ {
		fr, err := in.ReadFrame(i, false)
		if err != nil {
			report.Errors = append(report.Errors, err)
			if !opts.CollectAllErrors {
				return report, nil
			}
			continue
		}
		if opts.CheckDuplicateNames {
			errs := walkFrameVerify(fr)
			report.Errors = append(report.Errors, errs...)
			if !opts.CollectAllErrors && len(errs) > 0 {
				return report, nil
			}
		}
		if opts.CheckDataValidAll {
			errs := checkDataValid(fr)
			report.Errors = append(report.Errors, errs...)
			if !opts.CollectAllErrors && len(errs) > 0 {
				return report, nil
			}
		}
		if opts.CheckExpandability {
			errs := checkExpandability(fr)
			report.Errors = append(report.Errors, errs...)
			if !opts.CollectAllErrors && len(errs) > 0 {
				return report, nil
			}
		}
		if i == 0 && opts.ValidateMetadataAgainstFilename != "" {
			if err := checkMetadataAgainstFilename(fr, opts.ValidateMetadataAgainstFilename); err != nil {
				report.Errors = append(report.Errors, err)
				if !opts.CollectAllErrors {
					return report, nil
				}
			}
		}
	}

	if opts.CheckFileCRC || opts.CheckMD5 {
		if err := checkFileChecksums(in, opts); err != nil {
			report.Errors = append(report.Errors, err)
			if !opts.CollectAllErrors {
				return report, nil
			}
		}
	}

	if opts.RequireEOFChecksum {
		eof, err := in.EndOfFile()
		if err != nil {
			report.Errors = append(report.Errors, err)
		} else if eof == nil || eof.Checksum == 0 {
			report.Errors = append(report.Errors, ErrNoChecksum)
		}
	}

	return report, nil
}

// verifyFast checks that the TOC and EOF records are present and mutually
// consistent without running the per-frame checks; in.TOC still triggers
// the stream's full decode pass.
func verifyFast(in *InputStream, opts VerifyOptions, report *Report) (*Report, error) {
	toc, err := in.TOC()
	if err != nil {
		report.Errors = append(report.Errors, err)
		return report, nil
	}
	eof, err := in.EndOfFile()
	if err != nil {
		report.Errors = append(report.Errors, err)
		return report, nil
	}
	if eof == nil {
		report.Errors = append(report.Errors, ErrTruncation)
		return report, nil
	}
	if toc != nil && uint32(toc.FrameCount()) != eof.NFrames {
		report.Errors = append(report.Errors, &MetadataInvalidError{
			Detail: "TOC frame count disagrees with EOF.NFrames",
		})
	}
	if opts.RequireEOFChecksum && eof.Checksum == 0 {
		report.Errors = append(report.Errors, ErrNoChecksum)
	}
	report.FrameCount = int(eof.NFrames)
	return report, nil
}

// walkFrameVerify runs every registered kind's Verify hook over fr, its
// FrRawData with each FrAdcData and their FrVects, the raw data's Other
// FrVects, each FrProcData with its FrVects, and fr's Aux FrVects. It does
// not visit the shapeKind-backed records (Detectors, History, Event,
// SimEvent, SimData, Summary, Table, Versions, RawData.Ser, RawData.Table,
// FrProcData.Table) or the FrVects they hold, all of which outstream.go's
// writeFrameGraph does write.
func walkFrameVerify(fr *FrameH) []error {
	var errs []error
	visit := func(kind KindID, obj any) {
		if info, ok := registry[kind]; ok && info.Verify != nil {
			errs = append(errs, info.Verify(obj)...)
		}
	}

	visit(KindFrameH, fr)
	if fr.RawData != nil {
		visit(KindFrRawData, fr.RawData)
		for _, a := range fr.RawData.Adc {
			visit(KindFrAdcData, a)
			for _, v := range a.Data {
				visit(KindFrVect, v)
			}
			for _, v := range a.Aux {
				visit(KindFrVect, v)
			}
		}
		for _, v := range fr.RawData.Other {
			visit(KindFrVect, v)
		}
	}
	for _, p := range fr.ProcData {
		visit(KindFrProcData, p)
		for _, v := range p.Data {
			visit(KindFrVect, v)
		}
		for _, v := range p.Aux {
			visit(KindFrVect, v)
		}
	}
	for _, v := range fr.Aux {
		visit(KindFrVect, v)
	}
	return errs
}

// checkDataValid reports ErrDataInvalid for every ADC channel whose
// DataValid field is nonzero.
func checkDataValid(fr *FrameH) []error {
	var errs []error
	if fr.RawData == nil {
		return errs
	}
	for _, a := range fr.RawData.Adc {
		if a.DataValid != 0 {
			errs = append(errs, ErrDataInvalid)
		}
	}
	return errs
}

// checkExpandability asks every FrAdcData/FrProcData whether it would
// survive a demotion to Version3 losslessly.
func checkExpandability(fr *FrameH) []error {
	var errs []error
	if fr.RawData != nil {
		for _, a := range fr.RawData.Adc {
			if !a.CanDemoteLosslessly(Version3) {
				errs = append(errs, ErrLossyDemote)
			}
		}
	}
	for _, p := range fr.ProcData {
		if !p.CanDemoteLosslessly(Version3) {
			errs = append(errs, ErrLossyDemote)
		}
	}
	return errs
}

// checkMetadataAgainstFilename parses name per the LIGO/Virgo S-D-G-T.ext
// convention and compares its fields against fr.
func checkMetadataAgainstFilename(fr *FrameH, name string) error {
	p, err := filename.Parse(name)
	if err != nil {
		return &MetadataInvalidError{Detail: err.Error()}
	}
	if uint32(p.GPSStart) != fr.GTimeS {
		return &MetadataMismatchError{
			Field:        "GPSStart",
			FromFilename: strconv.FormatInt(p.GPSStart, 10),
			FromFrame:    strconv.FormatUint(uint64(fr.GTimeS), 10),
		}
	}
	return nil
}

// checkFileChecksums recomputes the file-scope CRC/MD5 from the decode
// pass InputStream already ran and compares them against the values stored
// in the EOF record and its trailer.
func checkFileChecksums(in *InputStream, opts VerifyOptions) error {
	eof, err := in.EndOfFile()
	if err != nil {
		return err
	}
	if eof == nil {
		return ErrTruncation
	}
	if opts.CheckFileCRC {
		computed := in.FileChecksum()
		if computed == nil {
			if opts.Strict {
				return ErrNoChecksum
			}
		} else {
			expected := u32Bytes(eof.Checksum)
			if !bytes.Equal(computed, expected) {
				return &ChecksumMismatchError{
					Kind: checksumKindName(checksum.Kind(eof.ChkType)), Scope: ScopeFile,
					Expected: expected, Actual: computed,
				}
			}
		}
	}
	if opts.CheckMD5 {
		computed := in.MD5Sum()
		stored := in.StoredMD5Sum()
		if computed == nil || stored == nil {
			if opts.Strict {
				return ErrNoChecksum
			}
		} else if !bytes.Equal(computed, stored) {
			return &ChecksumMismatchError{
				Kind: "MD5", Scope: ScopeFile,
				Expected: stored, Actual: computed,
			}
		}
	}
	return nil
}

func checksumKindName(k checksum.Kind) string {
	switch k {
	case checksum.KindCRCCksum:
		return "cksum"
	case checksum.KindCRCLDAS:
		return "LDAS"
	case checksum.KindMD5:
		return "MD5"
	default:
		return "none"
	}
}
