package log

import (
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	dskit_log "github.com/grafana/dskit/log"
)

// Logger is a shared go-kit logger.
var Logger = log.NewNopLogger()

// InitLogger initialises the global logger with a logfmt logger on w
// filtered to lvl. A nil w means stderr.
func InitLogger(w io.Writer, lvl dskit_log.Level) log.Logger {
	if w == nil {
		w = os.Stderr
	}
	Logger = NewLogger(w, lvl)
	return Logger
}

// NewLogger returns a logfmt logger writing to w that drops entries below
// lvl. Each entry carries a timestamp and the caller.
func NewLogger(w io.Writer, lvl dskit_log.Level) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	if lvl.Option != nil {
		logger = level.NewFilter(logger, lvl.Option)
	}
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.Caller(3))
}
