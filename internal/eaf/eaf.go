// Package eaf loads ELAN annotation files (.eaf) into an in-memory
// document model: tiers of time-aligned annotations plus the time-slot
// table that anchors them to millisecond offsets.
//
// Only the subset of the EAF format used by the Liepa corpora is read:
// media descriptors, the time order, and alignable annotations. Reference
// annotations, linguistic types, and controlled vocabularies are ignored.
package eaf

// TimeSlot is a named point in time within a recording.
type TimeSlot struct {
	ID    string
	Value int // Millisecond offset. -1 when the slot carries no TIME_VALUE.
}

// Annotation is one labeled time interval on one tier.
// Start and End are millisecond offsets resolved from the time-slot table
// at load time; StartSlotID and EndSlotID keep the original references.
type Annotation struct {
	ID          string
	TierID      string
	StartSlotID string
	Start       int
	EndSlotID   string
	End         int
	Text        string
}

// Duration returns the annotation length in milliseconds.
// Zero-length and negative intervals are possible with degenerate input
// and are passed through unchanged.
func (a Annotation) Duration() int {
	return a.End - a.Start
}

// Tier groups the annotations of one annotation layer (typically one
// speaker) together with its annotator and participant metadata.
type Tier struct {
	ID          string
	Annotator   string
	Participant string
	Annotations []Annotation
}

// Document is one parsed .eaf file.
type Document struct {
	MediaURL  string
	Path      string // Path the document was loaded from.
	Tiers     []Tier
	TimeSlots []TimeSlot
}

// AnnotationCount returns the total number of annotations across all tiers.
func (d *Document) AnnotationCount() int {
	n := 0
	for _, t := range d.Tiers {
		n += len(t.Annotations)
	}
	return n
}
