// Package segment turns the flat annotation set of one document into an
// ordered sequence of merged, bounded-duration chunks ready for cutting.
//
// The scan is a single left-to-right pass over the time-sorted annotations.
// A chunk grows while the gap to the next segment, the combined duration,
// and the combined text length all stay within bounds; any violation
// finalizes the chunk and opens a new one.
package segment

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/liepalab/eafprep/internal/eaf"
)

// Per-segment admission thresholds. Segments violating these are dropped
// before merging. The same bounds are re-checked on merged chunks by the
// export stage; keep both checks.
const (
	// MaxSegmentDuration is the longest single source segment accepted, in
	// milliseconds. Anything above 30 real-world seconds is unusable for
	// training and almost always an annotation mistake.
	MaxSegmentDuration = 30000

	// MaxSegmentTextLen is the longest accepted segment text, in characters.
	// Lithuanian text is mostly multi-byte UTF-8, so this is a rune count,
	// not a byte count.
	MaxSegmentTextLen = 700
)

// Default merge bounds, matching the corpus preparation runs.
const (
	DefaultMaxChunkDuration = 26000 // ms
	DefaultMaxGap           = 1000  // ms
	DefaultMaxTextLen       = 500   // characters
)

// textJoiner separates the texts of merged segments inside a chunk.
const textJoiner = " | "

// tierJoiner separates contributing tier ids in a finalized chunk.
const tierJoiner = "|"

// Options bounds the merge scan.
type Options struct {
	// MaxChunkDuration is the longest combined chunk span in milliseconds.
	MaxChunkDuration int
	// MaxGap is the longest silence tolerated between the end of the chunk
	// and the start of the next segment, in milliseconds.
	MaxGap int
	// MaxTextLen caps the combined text length of a chunk, in characters.
	MaxTextLen int
}

// DefaultOptions returns the merge bounds used by the corpus runs.
func DefaultOptions() Options {
	return Options{
		MaxChunkDuration: DefaultMaxChunkDuration,
		MaxGap:           DefaultMaxGap,
		MaxTextLen:       DefaultMaxTextLen,
	}
}

// Chunk is a merged group of one or more time-adjacent annotations.
// It mirrors the eaf.Annotation shape: TierID holds the pipe-joined set of
// contributing tiers in first-appearance order, Text the pipe-joined
// segment texts in time order, and the interval spans the merged segments.
type Chunk struct {
	ID          string // ID of the first contributing segment.
	TierID      string
	StartSlotID string
	Start       int
	EndSlotID   string
	End         int
	Text        string
}

// Duration returns the chunk span in milliseconds.
func (c Chunk) Duration() int {
	return c.End - c.Start
}

// builder accumulates one chunk during the scan. It is finalized into an
// immutable Chunk on each split decision, so already-emitted chunks never
// alias the accumulator.
type builder struct {
	id          string
	startSlotID string
	start       int
	endSlotID   string
	end         int
	text        strings.Builder
	textRunes   int      // accumulated text length in characters
	tierIDs     []string // insertion order, deduplicated
}

// open starts a builder from a single admitted segment.
func open(s eaf.Annotation) *builder {
	b := &builder{
		id:          s.ID,
		startSlotID: s.StartSlotID,
		start:       s.Start,
		endSlotID:   s.EndSlotID,
		end:         s.End,
		textRunes:   utf8.RuneCountInString(s.Text),
		tierIDs:     []string{s.TierID},
	}
	b.text.WriteString(s.Text)
	return b
}

// extend appends a segment to the builder. The chunk start never moves.
func (b *builder) extend(s eaf.Annotation) {
	b.text.WriteString(textJoiner)
	b.text.WriteString(s.Text)
	b.textRunes += len(textJoiner) + utf8.RuneCountInString(s.Text)
	b.endSlotID = s.EndSlotID
	b.end = s.End
	if !slices.Contains(b.tierIDs, s.TierID) {
		b.tierIDs = append(b.tierIDs, s.TierID)
	}
}

// finalize freezes the builder into a Chunk.
// Contributing tier ids are joined in first-appearance order so the output
// is reproducible run to run.
func (b *builder) finalize() Chunk {
	return Chunk{
		ID:          b.id,
		TierID:      strings.Join(b.tierIDs, tierJoiner),
		StartSlotID: b.startSlotID,
		Start:       b.start,
		EndSlotID:   b.endSlotID,
		End:         b.end,
		Text:        b.text.String(),
	}
}

// textLen returns the current combined text length in characters.
func (b *builder) textLen() int {
	return b.textRunes
}

// Group merges a document's annotations into ordered chunks.
//
// All tiers are flattened into one collection and stable-sorted by start
// offset (ties keep input order). Malformed segments are dropped with a log
// line, never an error. An empty or tier-less document yields nil with a
// warning; a nil document is a caller bug and panics.
//
// Two deliberate boundary behaviors are preserved:
//   - a single admitted segment longer than MaxChunkDuration still becomes
//     its own one-segment chunk (the duration cap gates merging, it does
//     not reject lone segments);
//   - dropping an oversized segment that straddled two admitted neighbors
//     can leave a later chunk starting before an earlier chunk's end.
func Group(doc *eaf.Document, opts Options) []Chunk {
	if len(doc.Tiers) == 0 {
		log.Warn().Str("path", doc.Path).Msg("no annotations found in document")
		return nil
	}

	all := flatten(doc)
	if len(all) == 0 {
		log.Warn().Str("path", doc.Path).Msg("no annotations found in document")
		return nil
	}

	var chunks []Chunk
	var cur *builder

	for _, s := range all {
		if !admit(s) {
			continue
		}

		if cur == nil {
			cur = open(s)
			continue
		}

		gap := s.Start - cur.end
		duration := s.End - cur.start
		textLen := cur.textLen() + utf8.RuneCountInString(s.Text)

		if gap > opts.MaxGap || duration > opts.MaxChunkDuration || textLen > opts.MaxTextLen {
			chunks = append(chunks, cur.finalize())
			cur = open(s)
			continue
		}

		cur.extend(s)
	}

	if cur != nil {
		chunks = append(chunks, cur.finalize())
	}

	return chunks
}

// flatten collects all tiers' annotations and stable-sorts them by start
// offset. Stability keeps equal-start segments in input order.
func flatten(doc *eaf.Document) []eaf.Annotation {
	all := make([]eaf.Annotation, 0, doc.AnnotationCount())
	for _, t := range doc.Tiers {
		all = append(all, t.Annotations...)
	}
	slices.SortStableFunc(all, func(a, b eaf.Annotation) int {
		return a.Start - b.Start
	})
	return all
}

// admit applies the per-segment admission filter, logging rejections.
func admit(s eaf.Annotation) bool {
	switch {
	case s.Duration() > MaxSegmentDuration:
		log.Debug().Str("id", s.ID).Int("duration_ms", s.Duration()).
			Msg("segment skipped: over duration limit")
		return false
	case len(s.Text) == 0:
		log.Debug().Str("id", s.ID).Msg("segment skipped: empty text")
		return false
	case utf8.RuneCountInString(s.Text) > MaxSegmentTextLen:
		log.Debug().Str("id", s.ID).Int("text_len", utf8.RuneCountInString(s.Text)).
			Msg("segment skipped: over text length limit")
		return false
	}
	return true
}
