package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/iocodec"
)

func sampleFrame() *FrameH {
	adc := &FrAdcData{
		Name:          "H1:STRAIN",
		ChannelGroup:  1,
		ChannelNumber: 2,
		NBits:         16,
		SampleRate:    16384,
		TimeOffset:    0.5,
		Units:         "counts",
		DataValid:     0,
		Data: []*FrVect{{
			Name:   "H1:STRAIN",
			Type:   1,
			NData:  4,
			NBytes: 4,
			Data:   []byte{1, 2, 3, 4},
			Dim:    []VectDim{{NX: 4, DX: 1, StartX: 0, UnitX: "s"}},
			UnitY:  "counts",
		}},
	}
	return &FrameH{
		Name:   "H1",
		Run:    1,
		Frame:  0,
		GTimeS: 1000000000,
		GTimeN: 0,
		ULeapS: 18,
		Dt:     1,
		RawData: &FrRawData{
			Name: "H1",
			Adc:  []*FrAdcData{adc},
		},
	}
}

func writeOneFrame(t *testing.T, ver Version, order iocodec.Order) []byte {
	t.Helper()
	out, mb, err := OpenWriteMemory(ver, &OutputOptions{Order: order})
	require.NoError(t, err)
	require.NoError(t, out.WriteFrame(sampleFrame(), 0, 0, checksum.KindNone))
	require.NoError(t, out.Close())
	return mb.Bytes()
}

func TestWriteReadRoundTrip(t *testing.T) {
	data := writeOneFrame(t, Version8, iocodec.BigEndian())

	in, err := OpenReadBytes(data, nil)
	require.NoError(t, err)
	defer in.Close()

	count, err := in.GetFrameCount()
	require.NoError(t, err)
	require.Equal(t, uint32(1), count)

	fr, err := in.ReadFrame(0, false)
	require.NoError(t, err)
	assert.Equal(t, "H1", fr.Name)
	require.NotNil(t, fr.RawData)
	require.Len(t, fr.RawData.Adc, 1)
	assert.Equal(t, "H1:STRAIN", fr.RawData.Adc[0].Name)
	require.Len(t, fr.RawData.Adc[0].Data, 1)
	assert.Equal(t, []byte{1, 2, 3, 4}, fr.RawData.Adc[0].Data[0].Data)
}

func TestShapeKindDataContainerRoundTrip(t *testing.T) {
	fr := sampleFrame()
	fr.Detectors = []*FrDetector{{shapeKind{
		Name:    "H1",
		Comment: "calibration",
		Payload: []byte{9, 9},
		Data: []*FrVect{{
			Name:  "H1:CAL",
			Type:  1,
			NData: 2,
			NBytes: 2,
			Data:  []byte{5, 6},
			UnitY: "counts",
		}},
	}}}

	out, mb, err := OpenWriteMemory(Version8, &OutputOptions{Order: iocodec.BigEndian()})
	require.NoError(t, err)
	require.NoError(t, out.WriteFrame(fr, 0, 0, checksum.KindNone))
	require.NoError(t, out.Close())

	in, err := OpenReadBytes(mb.Bytes(), nil)
	require.NoError(t, err)
	defer in.Close()

	got, err := in.ReadFrame(0, false)
	require.NoError(t, err)
	require.Len(t, got.Detectors, 1)
	require.Len(t, got.Detectors[0].Data, 1)
	assert.Equal(t, "H1:CAL", got.Detectors[0].Data[0].Name)
	assert.Equal(t, []byte{5, 6}, got.Detectors[0].Data[0].Data)
}

func TestByteOrderDetection(t *testing.T) {
	big := writeOneFrame(t, Version8, iocodec.BigEndian())
	little := writeOneFrame(t, Version8, iocodec.LittleEndian())

	inBig, err := OpenReadBytes(big, nil)
	require.NoError(t, err)
	defer inBig.Close()
	assert.Equal(t, iocodec.BigEndian().Swapped, inBig.ByteSwapping())

	inLittle, err := OpenReadBytes(little, nil)
	require.NoError(t, err)
	defer inLittle.Close()
	assert.Equal(t, iocodec.LittleEndian().Swapped, inLittle.ByteSwapping())
	assert.NotEqual(t, inBig.ByteSwapping(), inLittle.ByteSwapping())

	frBig, err := inBig.ReadFrame(0, false)
	require.NoError(t, err)
	frLittle, err := inLittle.ReadFrame(0, false)
	require.NoError(t, err)
	assert.Equal(t, frBig.Name, frLittle.Name)
	assert.Equal(t, frBig.GTimeS, frLittle.GTimeS)
}

func TestVersionDemoteAndPromoteRoundTrip(t *testing.T) {
	data := writeOneFrame(t, Version3, iocodec.BigEndian())

	in, err := OpenReadBytes(data, nil)
	require.NoError(t, err)
	defer in.Close()

	fr, err := in.ReadFrame(0, false)
	require.NoError(t, err)
	require.Len(t, fr.RawData.Adc, 1)

	adc := fr.RawData.Adc[0]
	assert.Equal(t, uint32(1), adc.ChannelGroup)
	assert.Equal(t, uint32(2), adc.ChannelNumber)
	assert.InDelta(t, 0.5, adc.TimeOffset, 1e-6)
	assert.Equal(t, uint16(0), adc.DataValid)
}

func TestChecksumTamperDetected(t *testing.T) {
	out, mb, err := OpenWriteMemory(Version8, &OutputOptions{Order: iocodec.BigEndian()})
	require.NoError(t, err)
	require.NoError(t, out.SetChecksumFile(checksum.KindCRCLDAS))
	require.NoError(t, out.WriteFrame(sampleFrame(), 0, 0, checksum.KindNone))
	require.NoError(t, out.Close())

	data := mb.Bytes()
	tampered := make([]byte, len(data))
	copy(tampered, data)
	tampered[len(tampered)/2] ^= 0xFF

	in, err := OpenReadBytes(tampered, nil)
	require.NoError(t, err)
	defer in.Close()
	in.SetChecksumFile(checksum.KindCRCLDAS)

	_, err = in.GetFrameCount()
	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, ScopeStructure, mismatch.Scope)

	report, err := Verify(in, VerifyOptions{CheckFileCRC: true})
	require.NoError(t, err)
	assert.False(t, report.OK())
}

func TestDanglingReference(t *testing.T) {
	out, mb, err := OpenWriteMemory(Version8, &OutputOptions{Order: iocodec.BigEndian()})
	require.NoError(t, err)
	require.NoError(t, out.WriteFrame(sampleFrame(), 0, 0, checksum.KindNone))
	require.NoError(t, out.Close())

	data := mb.Bytes()
	// Truncate just after the FrameH record (pointer header, body, structure
	// CRC) to drop every later record, including the FrRawData the FrameH
	// record's RawData pointer refers to.
	truncated := data[:headerTotalLen+ptrHeaderSize(Version8)+int(sizeOfFrameH(sampleFrame(), Version8))+4]

	in, err := OpenReadBytes(truncated, nil)
	require.NoError(t, err)
	defer in.Close()

	_, err = in.GetFrameCount()
	assert.Error(t, err)
	var dangling *DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, uint32(KindFrRawData), dangling.Class)
}

func TestAppendCommentNoOpOnRepeat(t *testing.T) {
	c := AppendComment("", "first pass", 1024)
	assert.Equal(t, "first pass", c)

	c2 := AppendComment(c, "second pass", 1024)
	assert.Equal(t, "first pass\nsecond pass", c2)

	c3 := AppendComment(c2, c2, 1024)
	assert.Equal(t, c2, c3)
}

func TestAppendCommentTruncates(t *testing.T) {
	c := AppendComment("abc", "def", 5)
	assert.Len(t, c, 4)
	assert.Equal(t, "abc\n", c)
}
