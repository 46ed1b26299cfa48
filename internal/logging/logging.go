// Package logging builds the zap loggers shared by the restadmin binaries.
package logging

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sampling settings of the server logger.
const (
	samplingTick       = 100
	samplingThereafter = 100
)

// Options tunes a logger built by New.
type Options struct {
	// Sampled drops repeated entries the way the zap production config
	// does. Long-running servers set it; one-shot commands do not.
	Sampled bool
}

// encoderConfig is the JSON layout used by every binary.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// ParseLevel parses a zap level name such as "debug" or "warn".
func ParseLevel(level string) (zapcore.Level, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapLevel, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	return zapLevel, nil
}

// New builds a JSON logger at level writing to w. Errors logged at Error
// level and above carry a stack trace.
func New(level string, w io.Writer, opts Options) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(zapLevel),
	)
	if opts.Sampled {
		core = zapcore.NewSamplerWithOptions(core, time.Second, samplingTick, samplingThereafter)
	}

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
