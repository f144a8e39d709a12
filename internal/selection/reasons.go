package selection

// ReasonCode is the closed set of exclusion reasons.
type ReasonCode string

const (
	// ReasonIntentionalSilence marks event types the product deliberately
	// never narrates. Checked before any other predicate.
	ReasonIntentionalSilence ReasonCode = "INTENTIONAL_SILENCE"
	ReasonOutOfWindow        ReasonCode = "OUT_OF_WINDOW"
	ReasonLowConfidence      ReasonCode = "LOW_CONFIDENCE"
	ReasonIncompleteLineage  ReasonCode = "INCOMPLETE_LINEAGE"
	ReasonSensitive          ReasonCode = "SENSITIVE"
	ReasonRedundant          ReasonCode = "REDUNDANT"
)

// WithheldNoEligibleSignals is the only withheld reason the builder emits.
// A week where every exclusion was INTENTIONAL_SILENCE still withholds with
// this reason; the distinction is observable through the excluded list.
const WithheldNoEligibleSignals = "NO_ELIGIBLE_SIGNALS"

// intentionalSilenceEvents is the fixed allowlist of event types excluded
// regardless of window or confidence.
var intentionalSilenceEvents = map[string]struct{}{
	"TRANSACTION_LOCK_ALL_PLAYERS":          {},
	"TRANSACTION_BBID_AUTO_PROCESS_WAIVERS": {},
}

// IsIntentionalSilence reports whether an event type is deliberately never
// narrated.
func IsIntentionalSilence(eventType string) bool {
	_, ok := intentionalSilenceEvents[eventType]
	return ok
}

// Detail is one key/value pair of exclusion context.
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ExcludedSignal records one exclusion decision. Constructed once per build,
// never mutated.
type ExcludedSignal struct {
	SignalID   string     `json:"signal_id"`
	ReasonCode ReasonCode `json:"reason_code"`
	Details    []Detail   `json:"details,omitempty"`
}
