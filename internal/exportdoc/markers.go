package exportdoc

// Marker pairs delimiting the bounded sections of a selection assembly
// document, in required order.
const (
	BeginTimeWindow   = "BEGIN_CANONICAL_TIME_WINDOW"
	EndTimeWindow     = "END_CANONICAL_TIME_WINDOW"
	BeginFacts        = "BEGIN_CANONICAL_FACTS"
	EndFacts          = "END_CANONICAL_FACTS"
	BeginCounts       = "BEGIN_CANONICAL_COUNTS"
	EndCounts         = "END_CANONICAL_COUNTS"
	BeginTraceability = "BEGIN_CANONICAL_TRACEABILITY"
	EndTraceability   = "END_CANONICAL_TRACEABILITY"
	BeginSelectionSet = "BEGIN_WRITING_ROOM_SELECTION_SET_V1"
	EndSelectionSet   = "END_WRITING_ROOM_SELECTION_SET_V1"
)

// fingerprintLabel prefixes the two fingerprint lines that must agree.
const fingerprintLabel = "Selection fingerprint: "

var sectionOrder = []struct {
	begin string
	end   string
}{
	{BeginTimeWindow, EndTimeWindow},
	{BeginFacts, EndFacts},
	{BeginCounts, EndCounts},
	{BeginTraceability, EndTraceability},
	{BeginSelectionSet, EndSelectionSet},
}
