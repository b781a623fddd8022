package export_test

// Notes:
// - CutPlan is exercised on synthetic chunks; the second-stage filter must
//   reject what the grouping stage could not have seen (grown text, edge
//   durations) and clip numbering must advance only on acceptance.
// - ParsePlan and ReadMetadata are fed literal text so the on-disk formats
//   stay pinned.

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/liepalab/eafprep/internal/eaf"
	"github.com/liepalab/eafprep/internal/export"
	"github.com/liepalab/eafprep/internal/segment"
)

func planDoc() *eaf.Document {
	return &eaf.Document{Path: "/corpus/LRT1/LRT1_0001.eaf"}
}

func chunk(start, end int, text string) segment.Chunk {
	return segment.Chunk{
		ID:     "a1",
		TierID: "S0001",
		Start:  start,
		End:    end,
		Text:   text,
	}
}

// ---------------------------------------------------------------------------
// CutPlan
// ---------------------------------------------------------------------------

func TestCutPlan_RowShape(t *testing.T) {
	t.Parallel()

	rows := export.CutPlan(planDoc(), []segment.Chunk{
		chunk(0, 5000, "labas rytas"),
	})

	if len(rows) != 1 {
		t.Fatalf("CutPlan() returned %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.InputWAV != "./././././LRT1/LRT1_0001.wav" {
		t.Errorf("InputWAV = %q", r.InputWAV)
	}
	if r.OutputClip != "LRT1/LRT1_0001_chunk_001.mp3" {
		t.Errorf("OutputClip = %q", r.OutputClip)
	}
	if r.Start != 0 || r.End != 5000 || r.Length != 5000 {
		t.Errorf("interval = (%d, %d, %d), want (0, 5000, 5000)", r.Start, r.End, r.Length)
	}
	if r.TextLen != len("labas rytas") || r.Text != "labas rytas" {
		t.Errorf("text = (%d, %q)", r.TextLen, r.Text)
	}
}

func TestCutPlan_CounterAdvancesOnAcceptanceOnly(t *testing.T) {
	t.Parallel()

	rows := export.CutPlan(planDoc(), []segment.Chunk{
		chunk(0, 5000, "vienas"),
		chunk(5000, 45000, "per ilgas"), // rejected: 40s
		chunk(45000, 46000, ""),         // rejected: empty
		chunk(46000, 47000, "du"),
	})

	if len(rows) != 2 {
		t.Fatalf("CutPlan() returned %d rows, want 2", len(rows))
	}
	if rows[0].OutputClip != "LRT1/LRT1_0001_chunk_001.mp3" {
		t.Errorf("first clip = %q", rows[0].OutputClip)
	}
	// The rejected chunks must not leave a numbering gap.
	if rows[1].OutputClip != "LRT1/LRT1_0001_chunk_002.mp3" {
		t.Errorf("second clip = %q, want ..._chunk_002.mp3", rows[1].OutputClip)
	}
}

func TestCutPlan_SecondStageFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    segment.Chunk
		want int
	}{
		{name: "duration at limit accepted", c: chunk(0, 30000, "ok"), want: 1},
		{name: "duration over limit rejected", c: chunk(0, 30001, "ok"), want: 0},
		{name: "grown text over limit rejected", c: chunk(0, 1000, strings.Repeat("x", 701)), want: 0},
		{name: "text at limit accepted", c: chunk(0, 1000, strings.Repeat("x", 700)), want: 1},
		{name: "multibyte text within limit accepted", c: chunk(0, 1000, strings.Repeat("ą", 400)), want: 1},
		{name: "empty text rejected", c: chunk(0, 1000, ""), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rows := export.CutPlan(planDoc(), []segment.Chunk{tt.c})
			if len(rows) != tt.want {
				t.Errorf("CutPlan() returned %d rows, want %d", len(rows), tt.want)
			}
		})
	}
}

func TestCutPlan_TextCleanup(t *testing.T) {
	t.Parallel()

	rows := export.CutPlan(planDoc(), []segment.Chunk{
		chunk(0, 1000, "pirma\neilutė — „citata“"),
	})

	if len(rows) != 1 {
		t.Fatalf("CutPlan() returned %d rows, want 1", len(rows))
	}
	want := `pirma eilutė - "citata"`
	if rows[0].Text != want {
		t.Errorf("Text = %q, want %q", rows[0].Text, want)
	}
	if rows[0].TextLen != utf8.RuneCountInString(want) {
		t.Errorf("TextLen = %d, want %d", rows[0].TextLen, utf8.RuneCountInString(want))
	}
}

func TestCutPlan_TextLenCountsCharacters(t *testing.T) {
	t.Parallel()

	// 400 characters but 800 bytes; the reported length follows characters.
	rows := export.CutPlan(planDoc(), []segment.Chunk{
		chunk(0, 1000, strings.Repeat("ą", 400)),
	})

	if len(rows) != 1 {
		t.Fatalf("CutPlan() returned %d rows, want 1", len(rows))
	}
	if rows[0].TextLen != 400 {
		t.Errorf("TextLen = %d, want 400", rows[0].TextLen)
	}
}

func TestFormatPlan(t *testing.T) {
	t.Parallel()

	rows := export.CutPlan(planDoc(), []segment.Chunk{
		chunk(0, 1000, "vienas"),
		chunk(2000, 3000, "du"),
	})

	got := export.FormatPlan(rows)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("FormatPlan() produced %d lines, want 2", len(lines))
	}
	wantFirst := "./././././LRT1/LRT1_0001.wav\tLRT1/LRT1_0001_chunk_001.mp3\t0\t1000\t1000\t6\tvienas"
	if lines[0] != wantFirst {
		t.Errorf("line 0 = %q, want %q", lines[0], wantFirst)
	}
}

// ---------------------------------------------------------------------------
// ParsePlan
// ---------------------------------------------------------------------------

func TestParsePlan(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"./././././LRT1/LRT1_0001.wav\tLRT1/LRT1_0001_chunk_001.mp3\t0\t5000\t5000\t11\tlabas rytas",
		"", // blank lines are skipped silently
		"broken row without tabs",
		"\t\t0\t1000", // critical fields empty
		"in.wav\tout.mp3\t00:00:01.000\t00:00:02.500",
	}, "\n")

	entries, err := export.ParsePlan(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePlan() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ParsePlan() returned %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.InputWAV != "./././././LRT1/LRT1_0001.wav" {
		t.Errorf("InputWAV = %q", first.InputWAV)
	}
	if first.Start != "0" || first.End != "5000" {
		t.Errorf("interval = (%q, %q), want (0, 5000)", first.Start, first.End)
	}
	if first.Length != 5000 || first.TextLen != 11 || first.Text != "labas rytas" {
		t.Errorf("record fields = (%d, %d, %q)", first.Length, first.TextLen, first.Text)
	}

	// Clock times stay untouched for the cutter to interpret.
	second := entries[1]
	if second.Start != "00:00:01.000" || second.End != "00:00:02.500" {
		t.Errorf("clock interval = (%q, %q)", second.Start, second.End)
	}
}

func TestParsePlan_Empty(t *testing.T) {
	t.Parallel()

	entries, err := export.ParsePlan(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParsePlan() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ParsePlan() returned %d entries, want 0", len(entries))
	}
}

// ---------------------------------------------------------------------------
// Metadata
// ---------------------------------------------------------------------------

func TestMetadataWriter(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	w := export.NewMetadataWriter(&buf)

	if err := w.Write("LRT1/LRT1_0001_chunk_001.mp3", `labas, "rytas" | čia`, 5000, 20); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	want := "./mp3/LRT1/LRT1_0001_chunk_001.mp3,labas rytas  čia,5000,20\n"
	if buf.String() != want {
		t.Errorf("metadata line = %q, want %q", buf.String(), want)
	}
}

func TestReadMetadata(t *testing.T) {
	t.Parallel()

	input := "./mp3/LRT1/LRT1_0001_chunk_001.mp3,labas rytas,5000,11\n" +
		"short,row\n" +
		"./mp3/LRT1/LRT1_0001_chunk_002.mp3,kaip sekasi,4000,11\n"

	entries, err := export.ReadMetadata(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ReadMetadata() returned %d entries, want 2", len(entries))
	}
	if entries[0].Clip != "LRT1/LRT1_0001_chunk_001.mp3" {
		t.Errorf("Clip = %q", entries[0].Clip)
	}
	if entries[0].Text != "labas rytas" || entries[0].DurationMS != 5000 || entries[0].TextLen != 11 {
		t.Errorf("entry = %+v", entries[0])
	}
}
