// Package ffmpeg resolves and runs the ffmpeg binary used for clip
// extraction.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNotFound indicates no usable ffmpeg binary could be located.
var ErrNotFound = errors.New("ffmpeg not found")

// EnvPath overrides binary resolution when set.
const EnvPath = "FFMPEG_PATH"

// Resolve locates the ffmpeg binary.
// Order: FFMPEG_PATH environment variable, then PATH lookup. Corpus
// processing hosts are expected to have ffmpeg provisioned; there is no
// auto-download.
func Resolve() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%q: %w", EnvPath, p, ErrNotFound)
		}
		return p, nil
	}

	p, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("install ffmpeg or set %s: %w", EnvPath, ErrNotFound)
	}
	return p, nil
}

// Run executes ffmpeg with the given arguments.
// ffmpeg writes diagnostics to stderr; on failure the captured output is
// attached to the returned error.
func Run(ctx context.Context, ffmpegPath string, args []string) error {
	// #nosec G204 -- ffmpegPath comes from Resolve, not user input
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg: %w\nOutput: %s", err, stderr.String())
	}
	return nil
}
