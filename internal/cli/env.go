// Package cli wires the eafprep subcommands: parse, bulk, split, index,
// verify, and config.
package cli

import (
	"io"
	"os"

	"github.com/liepalab/eafprep/internal/config"
	"github.com/liepalab/eafprep/internal/cut"
	"github.com/liepalab/eafprep/internal/ffmpeg"
	"github.com/liepalab/eafprep/internal/verify"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing commands in isolation.
// All fields have working defaults via DefaultEnv().
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// LoadConfig loads user configuration.
	LoadConfig func() (config.Config, error)

	// ResolveFFmpeg locates the ffmpeg binary.
	ResolveFFmpeg func() (string, error)

	// NewCutter creates the ffmpeg-backed clip cutter.
	NewCutter func(ffmpegPath string) (cut.Cutter, error)

	// NewWavCutter creates the in-process wav cutter.
	NewWavCutter func() cut.Cutter

	// NewTranscriber creates the verification transcriber.
	NewTranscriber func(apiKey string) (verify.Transcriber, error)
}

// DefaultEnv creates an Env wired to the real implementations.
func DefaultEnv() *Env {
	return &Env{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		LoadConfig: config.Load,

		ResolveFFmpeg: ffmpeg.Resolve,
		NewCutter: func(ffmpegPath string) (cut.Cutter, error) {
			return cut.NewFFmpegCutter(ffmpegPath)
		},
		NewWavCutter: func() cut.Cutter {
			return cut.NewWavCutter()
		},
		NewTranscriber: func(apiKey string) (verify.Transcriber, error) {
			return verify.NewOpenAITranscriber(apiKey)
		},
	}
}
