package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// metadataPrefix anchors clip paths inside the dataset layout expected by
// audiofolder-style loaders.
const metadataPrefix = "./mp3/"

// MetadataWriter appends dataset metadata records for emitted clips.
// The format is the flat comma-separated layout the training tooling
// expects: file, transcription, duration-ms, text-len. Field separators
// are stripped from the text instead of quoted, so the file stays
// readable by the simplest consumers.
type MetadataWriter struct {
	w io.Writer
}

// NewMetadataWriter wraps w, typically an append-mode metadata.csv handle.
func NewMetadataWriter(w io.Writer) *MetadataWriter {
	return &MetadataWriter{w: w}
}

// metadataCleaner strips characters that would break the flat record.
var metadataCleaner = strings.NewReplacer(",", "", `"`, "", "|", "")

// Write appends one clip record.
func (m *MetadataWriter) Write(clip, text string, durationMS, textLen int) error {
	clean := metadataCleaner.Replace(text)
	_, err := fmt.Fprintf(m.w, "%s%s,%s,%d,%d\n", metadataPrefix, clip, clean, durationMS, textLen)
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// MetadataEntry is one parsed metadata record.
type MetadataEntry struct {
	Clip       string
	Text       string
	DurationMS int
	TextLen    int
}

// ReadMetadata parses metadata records written by MetadataWriter.
// The writer strips field separators from text, so plain CSV reading is
// safe.
func ReadMetadata(r io.Reader) ([]MetadataEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	entries := make([]MetadataEntry, 0, len(records))
	for _, rec := range records {
		if len(rec) < 4 {
			continue
		}
		entry := MetadataEntry{
			Clip: strings.TrimPrefix(rec[0], metadataPrefix),
			Text: rec[1],
		}
		entry.DurationMS, _ = strconv.Atoi(rec[2])
		entry.TextLen, _ = strconv.Atoi(rec[3])
		entries = append(entries, entry)
	}
	return entries, nil
}
