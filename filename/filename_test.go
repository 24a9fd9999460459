package filename

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	p, err := Parse("H-R-1000000000-16.gwf")
	require.NoError(t, err)
	require.Equal(t, "H", p.Source)
	require.Equal(t, "R", p.Description)
	require.Equal(t, int64(1000000000), p.GPSStart)
	require.Equal(t, int64(16), p.Duration)
	require.Equal(t, "gwf", p.Ext)
}

func TestParseIgnoresDirectory(t *testing.T) {
	p, err := Parse("/data/frames/H-R-1000000000-16.gwf")
	require.NoError(t, err)
	require.Equal(t, "H", p.Source)
}

func TestParseWrongFieldCount(t *testing.T) {
	_, err := Parse("H-R-1000000000.gwf")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseNonNumericGPS(t *testing.T) {
	_, err := Parse("H-R-notanumber-16.gwf")
	require.ErrorIs(t, err, ErrMalformed)
}
