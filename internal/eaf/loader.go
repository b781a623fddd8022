package eaf

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// noiseTierID marks a Liepa2 tier that holds noise markup, not speech.
const noiseTierID = "noise"

// XML shapes for the subset of EAF we read.

type xmlDocument struct {
	Header    xmlHeader `xml:"HEADER"`
	TimeOrder xmlTime   `xml:"TIME_ORDER"`
	Tiers     []xmlTier `xml:"TIER"`
}

type xmlHeader struct {
	MediaDescriptors []xmlMediaDescriptor `xml:"MEDIA_DESCRIPTOR"`
}

type xmlMediaDescriptor struct {
	MediaURL string `xml:"MEDIA_URL,attr"`
}

type xmlTime struct {
	Slots []xmlTimeSlot `xml:"TIME_SLOT"`
}

type xmlTimeSlot struct {
	ID    string `xml:"TIME_SLOT_ID,attr"`
	Value string `xml:"TIME_VALUE,attr"`
}

type xmlTier struct {
	ID          string          `xml:"TIER_ID,attr"`
	Annotator   string          `xml:"ANNOTATOR,attr"`
	Participant string          `xml:"PARTICIPANT,attr"`
	Annotations []xmlAnnotation `xml:"ANNOTATION"`
}

type xmlAnnotation struct {
	Alignable *xmlAlignable `xml:"ALIGNABLE_ANNOTATION"`
}

type xmlAlignable struct {
	ID       string `xml:"ANNOTATION_ID,attr"`
	StartRef string `xml:"TIME_SLOT_REF1,attr"`
	EndRef   string `xml:"TIME_SLOT_REF2,attr"`
	Value    string `xml:"ANNOTATION_VALUE"`
}

// Load reads and parses an .eaf file.
// Time-slot references are resolved to millisecond offsets eagerly; a
// dangling reference is a hard error (the file is broken, and tolerating
// it here would surface as silent data loss downstream).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- corpus path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("read eaf: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse parses EAF XML bytes into a Document.
func Parse(data []byte) (*Document, error) {
	var raw xmlDocument
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	slots := make([]TimeSlot, 0, len(raw.TimeOrder.Slots))
	values := make(map[string]int, len(raw.TimeOrder.Slots))
	for _, s := range raw.TimeOrder.Slots {
		slot := TimeSlot{ID: s.ID, Value: -1}
		if s.Value != "" {
			v, err := strconv.Atoi(s.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: time slot %s has value %q", ErrMalformedDocument, s.ID, s.Value)
			}
			slot.Value = v
			values[s.ID] = v
		}
		slots = append(slots, slot)
	}

	doc := &Document{TimeSlots: slots}
	if len(raw.Header.MediaDescriptors) > 0 {
		doc.MediaURL = raw.Header.MediaDescriptors[0].MediaURL
	}

	for _, t := range raw.Tiers {
		tier, ok := mapTier(t)
		if !ok {
			log.Debug().Str("tier", t.ID).Msg("tier excluded by inclusion policy")
			continue
		}
		for _, a := range t.Annotations {
			if a.Alignable == nil {
				// Reference annotations are derived layers; skip.
				continue
			}
			ann, err := mapAnnotation(t.ID, *a.Alignable, values)
			if err != nil {
				return nil, err
			}
			tier.Annotations = append(tier.Annotations, ann)
		}
		doc.Tiers = append(doc.Tiers, tier)
	}

	return doc, nil
}

// mapTier applies the tier inclusion policy.
// Liepa3 tiers carry an ANNOTATOR attribute. Liepa2 tiers do not, and are
// accepted by name unless they hold the noise markup layer.
func mapTier(t xmlTier) (Tier, bool) {
	participant := t.Participant
	if participant == "" {
		participant = "NONE"
	}

	if t.Annotator != "" {
		return Tier{ID: t.ID, Annotator: t.Annotator, Participant: participant}, true
	}
	if t.ID != "" && t.ID != noiseTierID {
		return Tier{ID: t.ID, Annotator: "-", Participant: participant}, true
	}
	return Tier{}, false
}

// mapAnnotation resolves an alignable annotation's time-slot references.
func mapAnnotation(tierID string, a xmlAlignable, values map[string]int) (Annotation, error) {
	start, ok := values[a.StartRef]
	if !ok {
		return Annotation{}, fmt.Errorf("annotation %s ref %s: %w", a.ID, a.StartRef, ErrUnknownTimeSlot)
	}
	end, ok := values[a.EndRef]
	if !ok {
		return Annotation{}, fmt.Errorf("annotation %s ref %s: %w", a.ID, a.EndRef, ErrUnknownTimeSlot)
	}

	return Annotation{
		ID:          a.ID,
		TierID:      tierID,
		StartSlotID: a.StartRef,
		Start:       start,
		EndSlotID:   a.EndRef,
		End:         end,
		Text:        a.Value,
	}, nil
}
