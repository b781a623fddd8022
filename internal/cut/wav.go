package cut

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavCutter slices PCM wav files in-process, without ffmpeg.
// Clips stay wav in this mode; the destination name's extension is
// rewritten accordingly. The whole source file is decoded into memory, so
// this path is for modest recordings and ffmpeg-less hosts, not the bulk
// runs.
type WavCutter struct{}

// NewWavCutter creates an in-process wav cutter.
func NewWavCutter() *WavCutter {
	return &WavCutter{}
}

// Cut extracts [start, end) PCM frames from src into dst.
func (c *WavCutter) Cut(ctx context.Context, src, dst, start, end string) error {
	startMS, err := parseMillis(start)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCutFailed, err)
	}
	endMS, err := parseMillis(end)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCutFailed, err)
	}

	f, err := os.Open(src) // #nosec G304 -- resolved corpus path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCutFailed, err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnsupportedAudio, src, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	window, err := sliceFrames(buf, startMS, endMS)
	if err != nil {
		return err
	}

	return writeWav(dst, window, int(dec.BitDepth))
}

// sliceFrames cuts the [startMS, endMS) window out of a PCM buffer.
func sliceFrames(buf *audio.IntBuffer, startMS, endMS int) (*audio.IntBuffer, error) {
	if buf.Format == nil || buf.Format.SampleRate == 0 {
		return nil, fmt.Errorf("%w: missing format info", ErrUnsupportedAudio)
	}

	channels := buf.Format.NumChannels
	rate := buf.Format.SampleRate

	startIdx := startMS * rate / 1000 * channels
	endIdx := endMS * rate / 1000 * channels
	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx > len(buf.Data) {
		endIdx = len(buf.Data)
	}
	if startIdx >= endIdx {
		return nil, fmt.Errorf("%w: empty window %dms-%dms", ErrCutFailed, startMS, endMS)
	}

	return &audio.IntBuffer{
		Format:         buf.Format,
		Data:           buf.Data[startIdx:endIdx],
		SourceBitDepth: buf.SourceBitDepth,
	}, nil
}

// writeWav encodes a PCM window to a wav file.
func writeWav(dst string, buf *audio.IntBuffer, bitDepth int) error {
	if bitDepth == 0 {
		bitDepth = 16
	}

	// This cutter emits wav, whatever the plan row says.
	dst = strings.TrimSuffix(dst, filepath.Ext(dst)) + ".wav"

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out, err := os.Create(dst) // #nosec G304 -- output path derived from plan
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCutFailed, err)
	}

	enc := wav.NewEncoder(out, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1) // PCM
	if err := enc.Write(buf); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: encode %s: %v", ErrCutFailed, dst, err)
	}
	if err := enc.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: finalize %s: %v", ErrCutFailed, dst, err)
	}
	return out.Close()
}

// parseMillis parses a plan time field into integer milliseconds.
// Clock times are not supported by the in-process cutter.
func parseMillis(field string) (int, error) {
	if strings.Contains(field, ":") {
		return 0, fmt.Errorf("clock time %q not supported without ffmpeg", field)
	}
	ms, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid segment time %q: %w", field, err)
	}
	return int(ms), nil
}
