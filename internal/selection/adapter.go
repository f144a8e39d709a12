package selection

import (
	"strings"

	"squadvault/internal/window"
)

// Confidence is an ordered signal confidence category. A is strongest.
type Confidence string

const (
	ConfidenceA Confidence = "A"
	ConfidenceB Confidence = "B"
	ConfidenceC Confidence = "C"
)

var confidenceRank = map[Confidence]int{
	ConfidenceA: 3,
	ConfidenceB: 2,
	ConfidenceC: 1,
}

// ParseConfidence normalizes an external category string. Unrecognized values
// map to C, the strictest interpretation, never a permissive one.
func ParseConfidence(value string) Confidence {
	switch Confidence(strings.ToUpper(strings.TrimSpace(value))) {
	case ConfidenceA:
		return ConfidenceA
	case ConfidenceB:
		return ConfidenceB
	default:
		return ConfidenceC
	}
}

// AtLeast reports whether c meets or exceeds the minimum category.
func (c Confidence) AtLeast(minimum Confidence) bool {
	return confidenceRank[c] >= confidenceRank[minimum]
}

// Adapter exposes per-signal predicates over an opaque signal value.
// Implementations are swappable without touching the builder. Errors from any
// method propagate out of Build unchanged: a broken adapter must never
// masquerade as "everything excluded".
type Adapter interface {
	// SignalID returns the signal identifier, unique within one batch.
	SignalID(signal any) (string, error)
	// EventType returns the signal's event type, or "" when absent.
	EventType(signal any) (string, error)
	// IsInWindow reports whether the signal falls inside the window.
	IsInWindow(signal any, w window.Window) (bool, error)
	// Confidence returns the raw confidence category string; the builder
	// normalizes it via ParseConfidence.
	Confidence(signal any) (string, error)
	// IsLineageComplete reports whether the signal's provenance lineage is
	// fully recorded.
	IsLineageComplete(signal any) (bool, error)
	// IsSensitive reports whether the signal is flagged sensitive.
	IsSensitive(signal any) (bool, error)
	// RedundancyKey returns the near-duplicate grouping key, or "" when the
	// signal has none.
	RedundancyKey(signal any) (string, error)
}
