// Package logging wraps zerolog behind small leveled helpers taking
// alternating key/value pairs.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// InitLogger configures the process-wide logger. When file is non-empty, log
// output goes through lumberjack rotation with the given size/backup/age
// settings; otherwise it stays on stderr. An unknown level falls back to info.
func InitLogger(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {
	var w io.Writer = os.Stderr
	if file != "" {
		w = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
		}
	}
	logger = zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
}

// SetLogLevel changes the minimum level of the current logger.
func SetLogLevel(level string) {
	logger = logger.Level(parseLevel(level))
}

// SetLoggerForTest replaces the package logger. Tests only.
func SetLoggerForTest(l zerolog.Logger) {
	logger = l
}

// Info logs at info level with alternating key/value pairs.
func Info(msg string, kv ...any) {
	withFields(logger.Info(), kv).Msg(msg)
}

// Warn logs at warn level with alternating key/value pairs.
func Warn(msg string, kv ...any) {
	withFields(logger.Warn(), kv).Msg(msg)
}

// Error logs at error level with alternating key/value pairs.
func Error(msg string, kv ...any) {
	withFields(logger.Error(), kv).Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func withFields(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}
