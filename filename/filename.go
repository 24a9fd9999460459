// Package filename parses the LIGO/Virgo frame file naming convention
// S-D-G-T.ext (source, description, GPS start seconds, duration seconds),
// used only by the optional metadata-vs-filename validator.
package filename

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Parsed holds the four dash-separated fields of a frame filename plus its
// extension.
type Parsed struct {
	Source      string
	Description string
	GPSStart    int64
	Duration    int64
	Ext         string
}

// ErrMalformed is returned when name does not have the S-D-G-T.ext shape.
var ErrMalformed = fmt.Errorf("filename: does not match S-D-G-T.ext convention")

// Parse splits name (basename only; any directory component is ignored)
// into its S-D-G-T.ext fields.
func Parse(name string) (Parsed, error) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	ext = strings.TrimPrefix(ext, ".")

	fields := strings.Split(stem, "-")
	if len(fields) != 4 {
		return Parsed{}, ErrMalformed
	}

	gps, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: GPS start %q: %v", ErrMalformed, fields[2], err)
	}
	dur, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: duration %q: %v", ErrMalformed, fields[3], err)
	}

	return Parsed{
		Source:      fields[0],
		Description: fields[1],
		GPSStart:    gps,
		Duration:    dur,
		Ext:         ext,
	}, nil
}
