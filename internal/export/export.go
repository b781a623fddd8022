// Package export turns merged chunks into cut-plan rows and metadata
// records consumed by the audio cutting stage.
//
// The plan format is plain tab-separated text, one cut per row:
//
//	input-wav  output-clip  start-ms  end-ms  length-ms  text-len  text
//
// Output clip names number accepted chunks sequentially per document
// (`..._chunk_001.mp3`); the counter advances only on acceptance, so the
// numbering has no gaps.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/liepalab/eafprep/internal/eaf"
	"github.com/liepalab/eafprep/internal/segment"
)

// pathPrefix pads the source wav path. Downstream shell tooling drops the
// first symbols of a line; the inert prefix absorbs the damage.
const pathPrefix = "./././././"

// Row is one cut instruction.
type Row struct {
	InputWAV   string
	OutputClip string
	Start      int // ms
	End        int // ms
	Length     int // ms
	TextLen    int // characters
	Text       string
}

// String renders the row in plan format.
func (r Row) String() string {
	return fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%d\t%s",
		r.InputWAV, r.OutputClip, r.Start, r.End, r.Length, r.TextLen, r.Text)
}

// CutPlan maps a document's chunks to cut instructions.
//
// Each chunk passes a second validity check, intentionally repeating the
// grouping-stage bounds: merging can grow a chunk past the text limit,
// and the duplicate duration check keeps the two stages auditable
// independently.
func CutPlan(doc *eaf.Document, chunks []segment.Chunk) []Row {
	base := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	dir := filepath.Base(filepath.Dir(doc.Path))

	rows := make([]Row, 0, len(chunks))
	counter := 1
	for _, c := range chunks {
		length := c.Duration()
		if length > segment.MaxSegmentDuration {
			log.Debug().Str("id", c.ID).Int("length_ms", length).
				Msg("chunk rejected at export: over duration limit")
			continue
		}

		text := cleanText(c.Text)
		if len(text) == 0 {
			log.Debug().Str("id", c.ID).Msg("chunk rejected at export: empty text")
			continue
		}
		textLen := utf8.RuneCountInString(text)
		if textLen > segment.MaxSegmentTextLen {
			log.Debug().Str("id", c.ID).Int("text_len", textLen).
				Msg("chunk rejected at export: over text length limit")
			continue
		}

		rows = append(rows, Row{
			InputWAV:   fmt.Sprintf("%s%s/%s.wav", pathPrefix, dir, base),
			OutputClip: fmt.Sprintf("%s/%s_chunk_%03d.mp3", dir, base, counter),
			Start:      c.Start,
			End:        c.End,
			Length:     length,
			TextLen:    textLen,
			Text:       text,
		})
		counter++
	}
	return rows
}

// FormatPlan renders rows as plan text, one row per line.
func FormatPlan(rows []Row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// cleanText applies the inline cleanup of the export stage: newlines
// become spaces and typographic punctuation is unified. Full markup
// normalization is the normalize package's job and happens later.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "—", "-")
	s = strings.ReplaceAll(s, "“", `"`)
	s = strings.ReplaceAll(s, "„", `"`)
	return s
}
