// Package logging configures the process-wide zerolog logger used by
// every other package in this module. zerolog is the logging library
// this repository's dependency surface is grounded on — see
// _examples/joeycumines-go-utilpkg/logiface-zerolog/zerolog.go, which
// wraps the same library behind a facade this module doesn't need.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console-writer logger at the given level, writing to
// w (typically os.Stderr so stdout stays free for the dashboard).
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a CLI-supplied level name to a zerolog.Level,
// defaulting to Info on an unrecognized string.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Default returns the standard stderr console logger at Info level,
// for callers that have not configured one explicitly.
func Default() zerolog.Logger {
	return New(os.Stderr, zerolog.InfoLevel)
}
