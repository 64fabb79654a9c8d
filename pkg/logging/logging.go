// Package logging adapts zerolog to comms.Logger.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// Logger implements comms.Logger on top of a zerolog.Logger.
type Logger struct {
	logger zerolog.Logger
}

var _ comms.Logger = (*Logger)(nil)

// New wraps logger.
func New(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// NewConsole returns a human-readable logger writing to w at level.
func NewConsole(w io.Writer, level string) *Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}

	return New(zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Logger())
}

// NewJSON returns a JSON logger writing to w at level.
func NewJSON(w io.Writer, level string) *Logger {
	return New(zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger())
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Zerolog returns the wrapped logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

// Debug implements comms.Logger.Debug.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

// Info implements comms.Logger.Info.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

// Warn implements comms.Logger.Warn.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

// Error implements comms.Logger.Error.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}
