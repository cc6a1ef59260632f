package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewWithSyncer creates a logger writing to ws at the given level.
// format is "json" or "console".
func NewWithSyncer(level, format string, ws zapcore.WriteSyncer) (*zap.Logger, error) {
	atom, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewWithLevel(atom, format, ws), nil
}

// ParseLevel returns an adjustable level set to level.
func ParseLevel(level string) (zap.AtomicLevel, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zap.NewAtomicLevelAt(lvl), nil
}

// NewWithLevel creates a logger whose level follows atom, so it can be
// changed while the process runs.
func NewWithLevel(atom zap.AtomicLevel, format string, ws zapcore.WriteSyncer) *zap.Logger {
	core := zapcore.NewCore(newEncoder(format), ws, atom)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// NewTestLogger returns a logger that records every entry in memory.
func NewTestLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.DebugLevel)
	return zap.New(core), observed
}
