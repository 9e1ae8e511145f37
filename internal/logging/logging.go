// Package logging builds the zerolog logger used by the engine and the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	// FieldComponent tags log lines with the emitting subsystem.
	FieldComponent = "component"
)

// Config selects level, format and destination. A nil Output writes to stderr.
type Config struct {
	Level   string
	Format  string
	Output  io.Writer
	NoColor bool
	Service string
}

// New returns a logger for cfg. Unknown levels fall back to info. The level is
// applied to the returned logger only; the zerolog global level is untouched.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if strings.EqualFold(cfg.Level, "disabled") {
		level = zerolog.Disabled
	} else if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && cfg.Level != "" {
		level = parsed
	}

	var zl zerolog.Logger
	if strings.EqualFold(cfg.Format, FormatConsole) {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		})
	} else {
		zl = zerolog.New(output)
	}

	ctx := zl.Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	return ctx.Logger()
}

// Component returns a child logger tagged with name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str(FieldComponent, name).Logger()
}
