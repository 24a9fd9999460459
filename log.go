package frame

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// logHelper is the logger every stream carries: a Kratos-style
// Logger/Helper pair (NewStdLogger, NewHelper, NewFilter, FilterLevel).
type logHelper = log.Helper

// defaultLogger builds the library's default logger: stderr, filtered to
// warnings and errors. The streams store it (or the logger from their
// options); no code path in gwframe writes to it.
func defaultLogger() *logHelper {
	base := log.NewStdLogger(os.Stderr)
	filtered := log.NewFilter(base, log.FilterLevel(log.LevelWarn))
	return log.NewHelper(filtered)
}
