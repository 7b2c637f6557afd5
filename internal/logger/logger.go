// Package logger builds the zerolog logger shared by the service and the CLI.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var ErrUnknownFormat = errors.New("unknown log format")

type Config struct {
	Level  string `mapstructure:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `mapstructure:"format" default:"json" validate:"oneof=json console"`
	// Output is stdout, stderr or a file path
	Output string `mapstructure:"output" default:"stderr" validate:"required"`
}

// New creates a logger writing to the configured output. The returned closer releases the
// log file when Output is a path and is a no-op otherwise.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("unable to parse log level %q, %w", cfg.Level, err)
	}

	var out io.Writer
	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("unable to open log file, %w", err)
		}
		out = file
		closer = file
	}

	switch cfg.Format {
	case "", "json":
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		closer.Close()
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("%q, %w", cfg.Format, ErrUnknownFormat)
	}

	return NewWithWriter(out, level), closer, nil
}

// NewWithWriter creates a timestamped logger at the given level
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
