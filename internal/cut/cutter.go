// Package cut extracts utterance clips from source recordings.
//
// Two implementations exist: FFmpegCutter shells out to ffmpeg and
// transcodes to mp3 (the normal path), and WavCutter slices PCM frames
// in-process for hosts without ffmpeg.
package cut

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/liepalab/eafprep/internal/ffmpeg"
	"github.com/liepalab/eafprep/internal/format"
)

// Sentinel errors for clip extraction.
var (
	// ErrCutFailed indicates the extraction itself failed.
	ErrCutFailed = errors.New("clip extraction failed")

	// ErrUnsupportedAudio indicates the source format cannot be sliced
	// in-process. Only PCM wav is supported without ffmpeg.
	ErrUnsupportedAudio = errors.New("unsupported audio format")
)

// Cutter extracts one clip from a source recording.
// Start and end are cut-plan time fields: millisecond counts or clock
// times (see format.SegmentTime).
type Cutter interface {
	Cut(ctx context.Context, src, dst, start, end string) error
}

// FFmpegCutter extracts clips with ffmpeg, encoding to mp3.
type FFmpegCutter struct {
	ffmpegPath string
}

// NewFFmpegCutter creates a cutter using the given ffmpeg binary.
func NewFFmpegCutter(ffmpegPath string) (*FFmpegCutter, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	return &FFmpegCutter{ffmpegPath: ffmpegPath}, nil
}

// Cut extracts [start, end) from src into dst.
// The encoder settings follow the corpus convention: libmp3lame at VBR
// quality 2. The destination directory is created if missing.
func (c *FFmpegCutter) Cut(ctx context.Context, src, dst, start, end string) error {
	startSec, err := format.SegmentTime(start)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCutFailed, err)
	}
	endSec, err := format.SegmentTime(end)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCutFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := []string{
		"-i", src,
		"-ss", startSec,
		"-to", endSec,
		"-c:a", "libmp3lame",
		"-q:a", "2",
		"-y", dst,
	}
	if err := ffmpeg.Run(ctx, c.ffmpegPath, args); err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", ErrCutFailed, src, dst, err)
	}
	return nil
}
