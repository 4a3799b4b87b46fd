package ffi

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logEnv is read once with the UL2 prefix: UL2_LOG selects the level
// (debug|info|warn|error), UL2_LOG_DEV switches to the console encoder.
type logEnv struct {
	Level       string `envconfig:"LOG" default:"warn"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(newEnvLogger())
}

func newEnvLogger() *zap.Logger {
	var env logEnv
	if err := envconfig.Process("UL2", &env); err != nil {
		env = logEnv{Level: "warn"}
	}

	level := zapcore.WarnLevel
	if err := level.UnmarshalText([]byte(env.Level)); err != nil {
		level = zapcore.WarnLevel
	}

	cfg := zap.NewProductionConfig()
	if env.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = !env.Development

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("ul2")
}

// Logger returns the logger used by the binding layer.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger replaces the binding logger. A nil logger silences it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// safeCall runs fn and recovers any panic, returning it as an error.
// Every path from native code into user Go code goes through it: a panic
// unwinding across the cgo boundary is undefined behaviour.
func safeCall(kind string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			callbackPanics.WithLabelValues(kind).Inc()
			Logger().Error("panic in native callback",
				zap.String("kind", kind),
				zap.String("recover", fmt.Sprintf("%v", r)),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("panic in %s callback: %v", kind, r)
		}
	}()
	return fn()
}
