// internal/logger/pretty.go
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// CreatePrettyLogger creates a logger with user-friendly output on w (stdout when nil)
func CreatePrettyLogger(debug bool, w io.Writer) (*zap.Logger, error) {
	if w == nil {
		w = os.Stdout
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(prettyEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)

	return zap.New(&FieldFilterCore{core: core}), nil
}

// FormatMessage creates user-friendly log messages
func FormatMessage(msg string, fields ...zap.Field) string {
	switch {
	case strings.Contains(msg, "Mock positions API listening"):
		addr := extractField(fields, "addr")
		return fmt.Sprintf("%s🚀 Positions API listening on %s%s", ColorGreen, addr, ColorReset)

	case strings.Contains(msg, "Wallet connected"):
		addr := extractField(fields, "address")
		return fmt.Sprintf("%s🔗 Wallet connected: %s%s", ColorGreen, shortenAddress(addr), ColorReset)

	case strings.Contains(msg, "Wallet disconnected"):
		return fmt.Sprintf("%s⛓ Wallet disconnected%s", ColorYellow, ColorReset)

	case strings.Contains(msg, "Seed pre-fetched"):
		count := extractField(fields, "positions")
		return fmt.Sprintf("%s📋 Pre-fetched %s positions%s", ColorBlue, count, ColorReset)

	case strings.Contains(msg, "Fetch failed"):
		err := extractError(fields)
		return fmt.Sprintf("%s✗ Positions refresh failed: %s%s", ColorRed, err, ColorReset)

	case strings.Contains(msg, "Injecting failure"):
		req := extractField(fields, "request")
		return fmt.Sprintf("%s💥 Injected failure on request #%s%s", ColorPurple, req, ColorReset)

	case strings.Contains(msg, "Positions exported"):
		file := extractField(fields, "file")
		return fmt.Sprintf("%s💾 Positions exported to %s%s", ColorCyan, file, ColorReset)

	case strings.Contains(msg, "Mock positions API stopped"):
		return fmt.Sprintf("%s✓ Positions API stopped%s", ColorGreen, ColorReset)

	default:
		return msg
	}
}

// Helper functions
func extractField(fields []zap.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Uint64Type, zapcore.Uint32Type:
			return fmt.Sprintf("%d", field.Integer)
		default:
			return fmt.Sprintf("%v", field.Interface)
		}
	}
	return ""
}

func extractError(fields []zap.Field) string {
	for _, field := range fields {
		if field.Type == zapcore.ErrorType {
			if err, ok := field.Interface.(error); ok {
				return err.Error()
			}
		}
	}
	return "unknown error"
}

func shortenAddress(addr string) string {
	if len(addr) > 12 {
		return addr[:6] + "..." + addr[len(addr)-4:]
	}
	return addr
}

// FieldFilterCore wraps a zapcore.Core to filter out unwanted fields
type FieldFilterCore struct {
	core zapcore.Core
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &FieldFilterCore{core: c.core.With(fields)}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write drops structured fields and renders known messages through FormatMessage
func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	cleanEntry := entry
	cleanEntry.Message = FormatMessage(entry.Message, fields...)

	return c.core.Write(cleanEntry, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

// CreateTUILoggerWithBuffer creates a TUI-compatible logger that only writes to buffer
func CreateTUILoggerWithBuffer(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	// Create clean encoder for buffer logs
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	// Only use buffer core - NO console output to avoid breaking TUI
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)
	bufferCore := zapcore.NewCore(
		jsonEncoder,
		buffer,
		level,
	)

	return zap.New(bufferCore), nil
}
