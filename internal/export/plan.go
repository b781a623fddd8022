package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMalformedRow indicates a plan line that cannot be used for cutting.
var ErrMalformedRow = errors.New("malformed plan row")

// PlanEntry is one parsed cut-plan row as consumed by the split stage.
// Start and End stay strings: they may be millisecond counts or clock
// times, and the distinction is resolved by format.SegmentTime at cut time.
type PlanEntry struct {
	InputWAV   string
	OutputClip string
	Start      string
	End        string
	// Length, TextLen, and Text ride along for record keeping.
	Length  int
	TextLen int
	Text    string
}

// ParsePlan reads cut-plan rows from r.
// Malformed rows (fewer than four fields, or empty critical fields) are
// skipped with a log line, matching the tolerant line-by-line behavior of
// the cutting stage. Only a read failure is an error.
func ParsePlan(r io.Reader) ([]PlanEntry, error) {
	var entries []PlanEntry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := parseRow(line)
		if err != nil {
			log.Warn().Int("line", lineNum).Err(err).Msg("skipping plan row")
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return entries, nil
}

// parseRow splits one plan line into a PlanEntry.
func parseRow(line string) (PlanEntry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return PlanEntry{}, fmt.Errorf("%w: %d fields", ErrMalformedRow, len(fields))
	}

	entry := PlanEntry{
		InputWAV:   fields[0],
		OutputClip: fields[1],
		Start:      fields[2],
		End:        fields[3],
	}
	if entry.InputWAV == "" || entry.OutputClip == "" || entry.Start == "" || entry.End == "" {
		return PlanEntry{}, fmt.Errorf("%w: missing critical field", ErrMalformedRow)
	}

	// Optional record-keeping fields.
	if len(fields) > 4 {
		entry.Length, _ = strconv.Atoi(fields[4])
	}
	if len(fields) > 5 {
		entry.TextLen, _ = strconv.Atoi(fields[5])
	}
	if len(fields) > 6 {
		entry.Text = fields[6]
	}
	return entry, nil
}
