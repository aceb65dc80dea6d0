package logger

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// NewLogger creates a new zerolog logger with console output on stderr
func NewLogger() zerolog.Logger {
	return New(os.Stderr)
}

// New creates a console logger writing to w
func New(w io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewLoggerWithLevel creates a new logger with a level parsed from name.
// An empty name means info.
func NewLoggerWithLevel(name string) (zerolog.Logger, error) {
	level, err := ParseLevel(name)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return NewLogger().Level(level), nil
}

func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "invalid log level %q", name)
	}
	return level, nil
}
