// Package log holds the process wide zap logger.
package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var defaultLogger = zap.NewNop()

// Get returns the process logger. It is a no-op logger until Set is called.
func Get() *zap.Logger {
	return defaultLogger
}

// Set replaces the process logger with a console logger writing to stderr
// at level. dev enables development mode (stack traces on warnings).
func Set(level string, dev bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}

	encoder := zap.NewProductionEncoderConfig()
	if dev {
		encoder = zap.NewDevelopmentEncoderConfig()
	}
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      dev,
		Encoding:         "console",
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	defaultLogger = logger
	return nil
}

// Flush syncs buffered log entries.
func Flush() {
	_ = defaultLogger.Sync()
}
