package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns the service logger. LOG_LEVEL and ENV are read directly so the
// logger is usable before configuration has loaded.
func New() zerolog.Logger {
	return NewWithOptions(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("ENV") == "development")
}

func NewWithOptions(out io.Writer, level string, console bool) zerolog.Logger {
	// For Google Cloud Logging, the level field name should be "severity".
	// This allows Cloud Logging to automatically parse the log level.
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if console {
		out = zerolog.ConsoleWriter{Out: out}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()

	return logger.Level(ParseLevel(level))
}

// ParseLevel maps debug/info/warn/error to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
