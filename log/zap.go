// MIT License
//
// Copyright (c) 2024-2026 Quorumline
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DebugLogger is a global logger configured to output messages at DebugLevel
	// and above to os.Stdout.
	DebugLogger = NewZap(DebugLevel, os.Stdout)

	// DiscardLogger is a no-op logger that discards all log messages.
	DiscardLogger Logger = discardLogger{}

	// DefaultLogger is a global logger configured to output messages at InfoLevel
	// and above to os.Stdout.
	DefaultLogger = NewZap(InfoLevel, os.Stdout)
)

// Zap implements Logger interface with zap as the underlying logging library.
type Zap struct {
	logger  *zap.SugaredLogger
	level   Level
	outputs []io.Writer
}

// enforce compilation and linter error
var _ Logger = (*Zap)(nil)

// NewZap creates an instance of Zap logging to the given writers at the given
// level.
func NewZap(level Level, writers ...io.Writer) *Zap {
	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		toZapLevel(level),
	)

	zapLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Zap{
		logger:  zapLogger.Sugar(),
		level:   level,
		outputs: writers,
	}
}

// Debug starts a new message with debug level.
func (l *Zap) Debug(v ...any) { l.logger.Debug(v...) }

// Debugf starts a new message with debug level.
func (l *Zap) Debugf(format string, v ...any) { l.logger.Debugf(format, v...) }

// Info starts a new message with info level.
func (l *Zap) Info(v ...any) { l.logger.Info(v...) }

// Infof starts a new message with info level.
func (l *Zap) Infof(format string, v ...any) { l.logger.Infof(format, v...) }

// Warn starts a new message with warn level.
func (l *Zap) Warn(v ...any) { l.logger.Warn(v...) }

// Warnf starts a new message with warn level.
func (l *Zap) Warnf(format string, v ...any) { l.logger.Warnf(format, v...) }

// Error starts a new message with error level.
func (l *Zap) Error(v ...any) { l.logger.Error(v...) }

// Errorf starts a new message with error level.
func (l *Zap) Errorf(format string, v ...any) { l.logger.Errorf(format, v...) }

// LogLevel returns the log level being used
func (l *Zap) LogLevel() Level { return l.level }

// LogOutput returns the log output that is set
func (l *Zap) LogOutput() []io.Writer { return l.outputs }

// Sync flushes any buffered log entries. Applications should take care to
// call Sync before exiting.
func (l *Zap) Sync() error {
	return multierr.Combine(l.logger.Sync())
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarningLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
