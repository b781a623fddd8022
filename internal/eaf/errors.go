package eaf

import "errors"

// Sentinel errors for EAF loading.
//
// Wrap with context at the call site:
//
//	return fmt.Errorf("annotation %s: %w", id, ErrUnknownTimeSlot)

var (
	// ErrMalformedDocument indicates the file is not a parseable EAF document.
	ErrMalformedDocument = errors.New("malformed eaf document")

	// ErrUnknownTimeSlot indicates an annotation references a time slot
	// that is missing from the time order, or one without a time value.
	// This is a contract violation of the source file and fails the load.
	ErrUnknownTimeSlot = errors.New("unknown time slot reference")
)
