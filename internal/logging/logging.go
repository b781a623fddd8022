// Package logging configures the global zerolog logger for the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables.
const (
	envLevel  = "EAFPREP_LOG_LEVEL"  // debug, info, warn, error
	envFormat = "EAFPREP_LOG_FORMAT" // console (default) or json
)

// Setup initializes the global logger, writing to w (normally stderr so
// plan output on stdout stays clean). Level and format come from the
// environment; unknown values fall back to info/console.
func Setup(w io.Writer) {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv(envLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(os.Getenv(envFormat)) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
