package exportdoc

import (
	"fmt"
	"strings"

	"squadvault/internal/canonical"
	"squadvault/internal/selection"
)

// Write renders the plain-text selection assembly document. Every bounded
// section is delimited by its own marker pair, and the selection fingerprint
// appears identically in two places: the facts section and the trailing
// attestation line. Verify checks both.
func Write(set *selection.SelectionSet) (string, error) {
	if set == nil {
		return "", fmt.Errorf("export selection assembly: selection set is nil")
	}
	if strings.TrimSpace(set.Fingerprint) == "" {
		return "", fmt.Errorf("export selection assembly: selection set has no fingerprint")
	}
	document, err := set.Document()
	if err != nil {
		return "", fmt.Errorf("export selection assembly: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SquadVault selection assembly: %s season %d week %d\n\n",
		set.LeagueID, set.Season, set.WeekIndex)

	b.WriteString(BeginTimeWindow + "\n")
	fmt.Fprintf(&b, "window_id: %s\n", set.WindowID)
	if set.WindowStart != "" {
		fmt.Fprintf(&b, "window_start: %s\n", set.WindowStart)
		fmt.Fprintf(&b, "window_end: %s\n", set.WindowEnd)
	}
	b.WriteString(EndTimeWindow + "\n\n")

	b.WriteString(BeginFacts + "\n")
	fmt.Fprintf(&b, "selection_set_id: %s\n", set.SelectionSetID)
	fmt.Fprintf(&b, "league_id: %s\n", set.LeagueID)
	fmt.Fprintf(&b, "withheld: %t\n", set.Withheld)
	if set.Withheld {
		fmt.Fprintf(&b, "withheld_reason: %s\n", set.WithheldReason)
	}
	b.WriteString(fingerprintLabel + set.Fingerprint + "\n")
	b.WriteString(EndFacts + "\n\n")

	b.WriteString(BeginCounts + "\n")
	fmt.Fprintf(&b, "included: %d\n", len(set.IncludedSignalIDs))
	fmt.Fprintf(&b, "excluded: %d\n", len(set.Excluded))
	for _, line := range reasonCountLines(set.Excluded) {
		b.WriteString(line + "\n")
	}
	b.WriteString(EndCounts + "\n\n")

	b.WriteString(BeginTraceability + "\n")
	for _, id := range canonical.SortedIDs(set.IncludedSignalIDs) {
		b.WriteString(id + "\n")
	}
	b.WriteString(EndTraceability + "\n\n")

	b.WriteString(BeginSelectionSet + "\n")
	b.Write(document)
	b.WriteString("\n" + EndSelectionSet + "\n\n")

	b.WriteString(fingerprintLabel + set.Fingerprint + "\n")
	return b.String(), nil
}

func reasonCounts(excluded []selection.ExcludedSignal) map[selection.ReasonCode]int {
	counts := make(map[selection.ReasonCode]int, len(excluded))
	for _, e := range excluded {
		counts[e.ReasonCode]++
	}
	return counts
}

func reasonCountLines(excluded []selection.ExcludedSignal) []string {
	counts := reasonCounts(excluded)
	ordered := []selection.ReasonCode{
		selection.ReasonIntentionalSilence,
		selection.ReasonOutOfWindow,
		selection.ReasonLowConfidence,
		selection.ReasonIncompleteLineage,
		selection.ReasonSensitive,
		selection.ReasonRedundant,
	}
	var lines []string
	for _, reason := range ordered {
		if count := counts[reason]; count > 0 {
			lines = append(lines, fmt.Sprintf("excluded_%s: %d", strings.ToLower(string(reason)), count))
		}
	}
	return lines
}
