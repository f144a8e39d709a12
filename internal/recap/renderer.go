package recap

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"squadvault/internal/canonical"
	"squadvault/internal/selection"
)

// Render fills the fixed weekly recap template from a selection set. The
// output is fully determined by its inputs; no inference, no free prose.
func Render(set *selection.SelectionSet) (string, error) {
	if set == nil {
		return "", fmt.Errorf("render recap: selection set is nil")
	}
	if err := set.Validate(); err != nil {
		return "", fmt.Errorf("render recap: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - Season %d, Week %d Recap\n", displayName(set.LeagueID), set.Season, set.WeekIndex)
	b.WriteString(strings.Repeat("=", 48))
	b.WriteByte('\n')

	if set.Withheld {
		fmt.Fprintf(&b, "\nThis week's recap is withheld: %s.\n", set.WithheldReason)
		fmt.Fprintf(&b, "Signals evaluated: %d, all excluded.\n", len(set.Excluded))
		writeAudit(&b, set)
		return b.String(), nil
	}

	if set.WindowStart != "" {
		fmt.Fprintf(&b, "\nWindow: %s to %s (%s)\n", set.WindowStart, set.WindowEnd, set.WindowID)
	}
	fmt.Fprintf(&b, "Signals included: %d of %d evaluated.\n",
		len(set.IncludedSignalIDs), len(set.IncludedSignalIDs)+len(set.Excluded))

	b.WriteString("\nTransactions of record:\n")
	for _, id := range canonical.SortedIDs(set.IncludedSignalIDs) {
		fmt.Fprintf(&b, "  - %s\n", id)
	}

	writeAudit(&b, set)
	return b.String(), nil
}

func writeAudit(b *strings.Builder, set *selection.SelectionSet) {
	if len(set.Excluded) == 0 {
		return
	}
	b.WriteString("\nExclusion audit:\n")
	counts := make(map[selection.ReasonCode]int)
	for _, excluded := range set.Excluded {
		counts[excluded.ReasonCode]++
	}
	for _, reason := range []selection.ReasonCode{
		selection.ReasonIntentionalSilence,
		selection.ReasonOutOfWindow,
		selection.ReasonLowConfidence,
		selection.ReasonIncompleteLineage,
		selection.ReasonSensitive,
		selection.ReasonRedundant,
	} {
		if count := counts[reason]; count > 0 {
			fmt.Fprintf(b, "  %s: %d\n", reason, count)
		}
	}
}

func displayName(leagueID string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(leagueID)
	return cases.Title(language.Und).String(cleaned)
}
