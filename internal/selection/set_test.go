package selection_test

import (
	"strings"
	"testing"

	"squadvault/internal/selection"
)

func validSet() *selection.SelectionSet {
	return &selection.SelectionSet{
		SelectionSetID:    "sel-007",
		LeagueID:          "league-12",
		Season:            2025,
		WeekIndex:         5,
		WindowID:          "lock_to_lock:2025-10-05T17:00:00Z/2025-10-12T17:00:00Z",
		WindowStart:       "2025-10-05T17:00:00Z",
		WindowEnd:         "2025-10-12T17:00:00Z",
		IncludedSignalIDs: []string{"sig-b", "sig-a"},
		Excluded: []selection.ExcludedSignal{
			{SignalID: "sig-z", ReasonCode: selection.ReasonSensitive},
			{SignalID: "sig-c", ReasonCode: selection.ReasonOutOfWindow},
		},
	}
}

func TestValidateFailsClosed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*selection.SelectionSet)
		want   string
	}{
		{"withheld without reason", func(s *selection.SelectionSet) {
			s.Withheld = true
			s.IncludedSignalIDs = nil
		}, "withheld without"},
		{"withheld with inclusions", func(s *selection.SelectionSet) {
			s.Withheld = true
			s.WithheldReason = selection.WithheldNoEligibleSignals
		}, "non-empty included"},
		{"reason without withheld", func(s *selection.SelectionSet) {
			s.WithheldReason = selection.WithheldNoEligibleSignals
		}, "non-withheld"},
		{"empty selection set id", func(s *selection.SelectionSet) {
			s.SelectionSetID = " "
		}, "selection_set_id"},
		{"empty league", func(s *selection.SelectionSet) {
			s.LeagueID = ""
		}, "league_id"},
		{"duplicate across partitions", func(s *selection.SelectionSet) {
			s.Excluded = append(s.Excluded, selection.ExcludedSignal{SignalID: "sig-a", ReasonCode: selection.ReasonRedundant})
		}, "duplicate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := validSet()
			tc.mutate(set)
			err := set.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDocumentCanonicalOrdering(t *testing.T) {
	doc, err := validSet().Document()
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	text := string(doc)

	// Canonical key order.
	fields := []string{
		`"selection_set_id"`, `"league_id"`, `"season"`, `"week_index"`,
		`"window_id"`, `"window_start"`, `"window_end"`,
		`"included_signal_ids"`, `"excluded"`, `"withheld"`, `"withheld_reason"`,
	}
	last := -1
	for _, field := range fields {
		idx := strings.Index(text, field)
		if idx < 0 {
			t.Fatalf("document missing field %s: %s", field, text)
		}
		if idx < last {
			t.Fatalf("field %s out of canonical order: %s", field, text)
		}
		last = idx
	}

	// Sorted content.
	if strings.Index(text, "sig-a") > strings.Index(text, "sig-b") {
		t.Fatalf("included ids not sorted: %s", text)
	}
	if strings.Index(text, "sig-c") > strings.Index(text, "sig-z") {
		t.Fatalf("exclusions not sorted: %s", text)
	}
}

func TestDocumentIdenticalForReorderedInputs(t *testing.T) {
	a := validSet()
	b := validSet()
	b.IncludedSignalIDs = []string{"sig-a", "sig-b"}
	b.Excluded = []selection.ExcludedSignal{b.Excluded[1], b.Excluded[0]}

	docA, err := a.Document()
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	docB, err := b.Document()
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if string(docA) != string(docB) {
		t.Fatalf("documents differ for logically identical sets:\n%s\n%s", docA, docB)
	}
}

func TestParseConfidenceNormalizesConservatively(t *testing.T) {
	cases := map[string]selection.Confidence{
		"A":        selection.ConfidenceA,
		" b ":      selection.ConfidenceB,
		"c":        selection.ConfidenceC,
		"":         selection.ConfidenceC,
		"PLATINUM": selection.ConfidenceC,
	}
	for input, want := range cases {
		if got := selection.ParseConfidence(input); got != want {
			t.Fatalf("ParseConfidence(%q) = %s, want %s", input, got, want)
		}
	}
}
