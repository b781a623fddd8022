// Package format holds small display and time-field formatting helpers
// shared by the export, cut, and CLI layers.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration formats a duration as HH:MM:SS or MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// SegmentTime converts a cut-plan time field to an ffmpeg time argument.
// Fields containing ':' are already clock times (HH:MM:SS.ms) and pass
// through; anything else is a millisecond count.
func SegmentTime(field string) (string, error) {
	if strings.Contains(field, ":") {
		return field, nil
	}
	ms, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return "", fmt.Errorf("invalid segment time %q: %w", field, err)
	}
	return strconv.FormatFloat(ms/1000, 'f', -1, 64), nil
}

// Size formats a size in bytes for human display.
func Size(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	if bytes >= mb {
		return fmt.Sprintf("%d MB", bytes/mb)
	}
	if bytes >= kb {
		return fmt.Sprintf("%d KB", bytes/kb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}
