package exportdoc

import (
	"encoding/json"
	"fmt"
	"strings"

	"squadvault/internal/canonical"
	"squadvault/internal/selection"
)

// Verify checks a selection assembly document: marker pairs present exactly
// once and in order, the embedded selection-set JSON parses and validates, the
// two fingerprint lines agree, and the fingerprint matches the embedded set.
func Verify(doc string) error {
	cursor := 0
	for _, section := range sectionOrder {
		beginIdx, err := findMarker(doc, section.begin, cursor)
		if err != nil {
			return err
		}
		endIdx, err := findMarker(doc, section.end, beginIdx)
		if err != nil {
			return err
		}
		cursor = endIdx
	}

	fingerprints := collectFingerprints(doc)
	if len(fingerprints) != 2 {
		return fmt.Errorf("assembly document: expected 2 fingerprint lines, found %d", len(fingerprints))
	}
	if fingerprints[0] != fingerprints[1] {
		return fmt.Errorf("assembly document: fingerprint lines disagree: %s != %s", fingerprints[0], fingerprints[1])
	}

	payload, err := extractSection(doc, BeginSelectionSet, EndSelectionSet)
	if err != nil {
		return err
	}
	var set selection.SelectionSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return fmt.Errorf("assembly document: parse selection set: %w", err)
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("assembly document: %w", err)
	}

	digest, err := canonical.SelectionFingerprint(
		set.LeagueID, set.Season, set.WeekIndex, set.WindowID,
		set.IncludedSignalIDs, exclusionRefs(set.Excluded))
	if err != nil {
		return fmt.Errorf("assembly document: %w", err)
	}
	if digest != fingerprints[0] {
		return fmt.Errorf("assembly document: fingerprint %s does not match embedded selection set (%s)", fingerprints[0], digest)
	}
	return nil
}

func findMarker(doc, marker string, from int) (int, error) {
	abs := indexMarkerLine(doc, marker, from)
	if abs < 0 {
		return 0, fmt.Errorf("assembly document: marker %s missing or out of order", marker)
	}
	next := abs + len(marker)
	if indexMarkerLine(doc, marker, next) >= 0 {
		return 0, fmt.Errorf("assembly document: marker %s appears more than once", marker)
	}
	return next, nil
}

// indexMarkerLine returns the offset of the first occurrence of marker that
// occupies a whole line at or after from, or -1. Marker text inside the
// embedded selection-set JSON sits in a quoted string and never holds a line
// of its own, so it cannot match.
func indexMarkerLine(doc, marker string, from int) int {
	for search := from; search <= len(doc)-len(marker); {
		idx := strings.Index(doc[search:], marker)
		if idx < 0 {
			return -1
		}
		abs := search + idx
		end := abs + len(marker)
		startsLine := abs == 0 || doc[abs-1] == '\n'
		endsLine := end == len(doc) || doc[end] == '\n'
		if startsLine && endsLine {
			return abs
		}
		search = end
	}
	return -1
}

func extractSection(doc, begin, end string) (string, error) {
	beginIdx := indexMarkerLine(doc, begin, 0)
	endIdx := -1
	if beginIdx >= 0 {
		endIdx = indexMarkerLine(doc, end, beginIdx+len(begin))
	}
	if endIdx < 0 {
		return "", fmt.Errorf("assembly document: section %s/%s malformed", begin, end)
	}
	return strings.TrimSpace(doc[beginIdx+len(begin) : endIdx]), nil
}

func collectFingerprints(doc string) []string {
	var fingerprints []string
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, fingerprintLabel) {
			fingerprints = append(fingerprints, strings.TrimSpace(strings.TrimPrefix(line, fingerprintLabel)))
		}
	}
	return fingerprints
}

func exclusionRefs(excluded []selection.ExcludedSignal) []canonical.Exclusion {
	refs := make([]canonical.Exclusion, len(excluded))
	for i, e := range excluded {
		details := make([]canonical.Detail, len(e.Details))
		for j, d := range e.Details {
			details[j] = canonical.Detail{Key: d.Key, Value: d.Value}
		}
		refs[i] = canonical.Exclusion{SignalID: e.SignalID, ReasonCode: string(e.ReasonCode), Details: details}
	}
	return refs
}
