package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligo-gw/frame/internal/checksum"
	"github.com/ligo-gw/frame/internal/iocodec"
)

func TestVerifyCleanFrameOK(t *testing.T) {
	data := writeOneFrame(t, Version8, iocodec.BigEndian())
	in, err := OpenReadBytes(data, nil)
	require.NoError(t, err)
	defer in.Close()

	report, err := Verify(in, VerifyOptions{CheckDuplicateNames: true})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.FrameCount)
}

func TestVerifyFastMode(t *testing.T) {
	data := writeOneFrame(t, Version8, iocodec.BigEndian())
	in, err := OpenReadBytes(data, nil)
	require.NoError(t, err)
	defer in.Close()

	report, err := Verify(in, VerifyOptions{Fast: true})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.FrameCount)
}

func TestVerifyDataValid(t *testing.T) {
	fr := sampleFrame()
	fr.RawData.Adc[0].DataValid = 1

	out, mb, err := OpenWriteMemory(Version8, &OutputOptions{Order: iocodec.BigEndian()})
	require.NoError(t, err)
	require.NoError(t, out.WriteFrame(fr, 0, 0, checksum.KindNone))
	require.NoError(t, out.Close())

	in, err := OpenReadBytes(mb.Bytes(), nil)
	require.NoError(t, err)
	defer in.Close()

	report, err := Verify(in, VerifyOptions{CheckDataValidAll: true})
	require.NoError(t, err)
	assert.False(t, report.OK())
}

func TestVerifyCleanFileCRCMatches(t *testing.T) {
	out, mb, err := OpenWriteMemory(Version8, &OutputOptions{Order: iocodec.BigEndian()})
	require.NoError(t, err)
	require.NoError(t, out.SetChecksumFile(checksum.KindCRCLDAS))
	require.NoError(t, out.SetMD5Sum(true))
	require.NoError(t, out.WriteFrame(sampleFrame(), 0, 0, checksum.KindNone))
	require.NoError(t, out.Close())

	in, err := OpenReadBytes(mb.Bytes(), nil)
	require.NoError(t, err)
	defer in.Close()
	in.SetChecksumFile(checksum.KindCRCLDAS)
	in.SetMD5Sum(true)

	report, err := Verify(in, VerifyOptions{CheckFileCRC: true, CheckMD5: true})
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestVerifyMetadataAgainstFilename(t *testing.T) {
	data := writeOneFrame(t, Version8, iocodec.BigEndian())
	in, err := OpenReadBytes(data, nil)
	require.NoError(t, err)
	defer in.Close()

	report, err := Verify(in, VerifyOptions{
		ValidateMetadataAgainstFilename: "H-R-1000000000-16.gwf",
	})
	require.NoError(t, err)
	assert.True(t, report.OK())

	in2, err := OpenReadBytes(data, nil)
	require.NoError(t, err)
	defer in2.Close()
	report2, err := Verify(in2, VerifyOptions{
		ValidateMetadataAgainstFilename: "H-R-999999999-16.gwf",
	})
	require.NoError(t, err)
	assert.False(t, report2.OK())
}
