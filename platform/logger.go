package platform

import (
	"go.uber.org/zap"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/ul"
)

// Logger forwards library log messages to zap.
type Logger struct {
	log *zap.Logger
}

var _ ul.Logger = (*Logger)(nil)

// NewLogger returns a Logger writing to l under the name "ultralight". A
// nil l uses the package logger of ffi.
func NewLogger(l *zap.Logger) *Logger {
	if l == nil {
		l = ffi.Logger()
	}
	return &Logger{log: l.Named("ultralight")}
}

// LogMessage writes one engine message at the matching zap level.
func (l *Logger) LogMessage(level ul.LogLevel, message string) {
	switch level {
	case ul.LogLevelError:
		l.log.Error(message)
	case ul.LogLevelWarning:
		l.log.Warn(message)
	case ul.LogLevelInfo:
		l.log.Info(message)
	default:
		l.log.Debug(message, zap.Stringer("level", level))
	}
}
