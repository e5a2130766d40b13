package coge

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// logger is the package logger. Replace it with SetLogger.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "coge",
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
})

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Logger returns the package logger.
func Logger() *log.Logger { return logger }

// frameWarner throttles warnings raised from the per-frame path so a missing
// screen or background does not flood the log at 60 lines a second.
type frameWarner struct {
	limiter *rate.Limiter
	dropped int
}

func newFrameWarner() *frameWarner {
	return &frameWarner{limiter: rate.NewLimiter(rate.Every(time.Second), 1)}
}

// Warn logs msg when the limiter allows it and counts the rest.
func (w *frameWarner) Warn(msg string, keyvals ...any) {
	if !w.limiter.Allow() {
		w.dropped++
		return
	}
	if w.dropped > 0 {
		keyvals = append(keyvals, "suppressed", w.dropped)
		w.dropped = 0
	}
	logger.Warn(msg, keyvals...)
}
