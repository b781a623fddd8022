// Command eafprep prepares speech-transcription corpora for training:
// it parses ELAN annotation files, merges segments into bounded chunks,
// resolves source recordings, and drives clip extraction.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/cli"
	"github.com/liepalab/eafprep/internal/cut"
	"github.com/liepalab/eafprep/internal/eaf"
	"github.com/liepalab/eafprep/internal/ffmpeg"
	"github.com/liepalab/eafprep/internal/logging"
	"github.com/liepalab/eafprep/internal/verify"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitExport     = 5
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	logging.Setup(os.Stderr)

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "eafprep",
		Short:   "Prepare speech-transcription corpora from ELAN annotations",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.ParseCmd(env))
	rootCmd.AddCommand(cli.BulkCmd(env))
	rootCmd.AddCommand(cli.SplitCmd(env))
	rootCmd.AddCommand(cli.IndexCmd(env))
	rootCmd.AddCommand(cli.VerifyCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Cobra doesn't expose typed flag/arg parsing errors, so usage errors
	// are recognized by known message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, verify.ErrAPIKeyMissing) {
		return ExitSetup
	}
	if errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrDirNotFound) ||
		errors.Is(err, cli.ErrUnknownConfigKey) ||
		errors.Is(err, eaf.ErrMalformedDocument) || errors.Is(err, eaf.ErrUnknownTimeSlot) {
		return ExitValidation
	}
	if errors.Is(err, cut.ErrCutFailed) || errors.Is(err, cut.ErrUnsupportedAudio) {
		return ExitExport
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate
// Cobra usage errors. The patterns are stable across Cobra versions (v1.8+).
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"accepts ", // wrong number of arguments, e.g. "accepts 1 arg(s)"
	"requires at least",
	"requires at most",
}

// isCobraUsageError reports whether err is a Cobra flag/arg parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
