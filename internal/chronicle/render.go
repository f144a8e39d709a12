package chronicle

import (
	"fmt"
	"strings"

	"squadvault/internal/canonical"
)

// Banner opens every chronicle document. The wording is fixed so downstream
// readers can test for it literally.
const Banner = "NON-CANONICAL DERIVED DOCUMENT. This chronicle is assembled from approved weekly recaps and carries no standing of its own; the upstream recaps remain the record."

// Marker pairs delimiting the bounded sections of a chronicle document, in
// required order.
const (
	BeginProvenance     = "BEGIN_PROVENANCE"
	EndProvenance       = "END_PROVENANCE"
	BeginIncludedWeeks  = "BEGIN_INCLUDED_WEEKS"
	EndIncludedWeeks    = "END_INCLUDED_WEEKS"
	BeginUpstreamQuotes = "BEGIN_UPSTREAM_QUOTES"
	EndUpstreamQuotes   = "END_UPSTREAM_QUOTES"
)

const minFence = "```"

func render(comp *Composition) (string, error) {
	fence := fenceFor(comp.Included)
	var b strings.Builder
	b.WriteString(Banner + "\n\n")

	b.WriteString(BeginProvenance + "\n")
	fmt.Fprintf(&b, "league_id: %s\n", comp.LeagueID)
	fmt.Fprintf(&b, "season: %d\n", comp.Season)
	fmt.Fprintf(&b, "weeks_requested: %s\n", joinWeeks(comp.WeeksRequested))
	fmt.Fprintf(&b, "missing_weeks: %s\n", joinWeeks(comp.MissingWeeks))
	fmt.Fprintf(&b, "included_weeks: %s\n", joinWeeks(includedIndexes(comp.Included)))
	fmt.Fprintf(&b, "chronicle_fingerprint: %s\n", comp.Fingerprint)
	b.WriteString(EndProvenance + "\n\n")

	b.WriteString(BeginIncludedWeeks + "\n")
	for _, inc := range comp.Included {
		fmt.Fprintf(&b, "week %d: %s version %d selection_fingerprint %s\n",
			inc.WeekIndex, inc.ArtifactType, inc.Version, inc.SelectionFingerprint)
	}
	b.WriteString(EndIncludedWeeks + "\n\n")

	b.WriteString(BeginUpstreamQuotes + "\n")
	for _, inc := range comp.Included {
		fmt.Fprintf(&b, "week %d:\n", inc.WeekIndex)
		b.WriteString(fence + "\n")
		b.WriteString(inc.RenderedText)
		if !strings.HasSuffix(inc.RenderedText, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(fence + "\n")
	}
	b.WriteString(EndUpstreamQuotes + "\n")

	doc := b.String()
	if leaked := eventIDsOutsideFences(doc, fence); len(leaked) > 0 {
		return "", fmt.Errorf("canonical event ids outside fenced quotes: %s", strings.Join(leaked, ", "))
	}
	return doc, nil
}

// fenceFor picks a backtick fence for the document. It grows past the longest
// all-backtick line in the quoted recaps so no upstream line can close a
// fence early.
func fenceFor(included []IncludedWeek) string {
	longest := len(minFence)
	for _, inc := range included {
		for _, line := range strings.Split(inc.RenderedText, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.Count(trimmed, "`") != len(trimmed) {
				continue
			}
			if len(trimmed) >= longest {
				longest = len(trimmed) + 1
			}
		}
	}
	return strings.Repeat("`", longest)
}

// eventIDsOutsideFences scans everything except the fenced upstream quotes
// for canonical event identifiers. Upstream recaps may legitimately carry
// them; the chronicle's own prose must not.
func eventIDsOutsideFences(doc, fence string) []string {
	var leaked []string
	inFence := false
	for _, line := range strings.Split(doc, "\n") {
		if strings.TrimSpace(line) == fence {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		leaked = append(leaked, canonical.FindEventIDs(line)...)
	}
	return leaked
}

func joinWeeks(weeks []int) string {
	if len(weeks) == 0 {
		return "none"
	}
	parts := make([]string, len(weeks))
	for i, week := range weeks {
		parts[i] = fmt.Sprintf("%d", week)
	}
	return strings.Join(parts, ", ")
}

func includedIndexes(included []IncludedWeek) []int {
	indexes := make([]int, len(included))
	for i, inc := range included {
		indexes[i] = inc.WeekIndex
	}
	return indexes
}
