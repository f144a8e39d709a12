package chronicle_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"squadvault/internal/artifact"
	"squadvault/internal/chronicle"
	"squadvault/internal/logging"
	"squadvault/internal/testsupport"
)

const recapFingerprint = "3b2a1c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b"

func weeklyKey(week int) artifact.Key {
	return artifact.Key{LeagueID: "league-7", Season: 2025, WeekIndex: week, Type: artifact.TypeWeeklyRecap}
}

func seedApprovedWeek(t *testing.T, store *artifact.Store, week int, text string) *artifact.Artifact {
	t.Helper()
	testsupport.MustCreateDraft(t, store, weeklyKey(week), text, recapFingerprint)
	approved, err := store.ApproveLatest(context.Background(), weeklyKey(week), "commissioner", artifact.ApproveOptions{})
	if err != nil {
		t.Fatalf("ApproveLatest week %d: %v", week, err)
	}
	return approved
}

func TestAssembleAcknowledgeMissing(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	// Week 1 exists only as WITHHELD; week 2 is approved.
	if _, err := store.Create(context.Background(), artifact.Draft{
		Key:                  weeklyKey(1),
		State:                artifact.StateWithheld,
		RenderedText:         "No recap this week.",
		SelectionFingerprint: recapFingerprint,
		WithheldReason:       "NO_ELIGIBLE_SIGNALS",
	}); err != nil {
		t.Fatalf("create withheld week 1: %v", err)
	}
	week2 := seedApprovedWeek(t, store, 2, "Week two recap body.\nIncludes evt_trade_88 by reference.")

	assembler := chronicle.NewAssembler(store, logging.NewNop())
	comp, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{1, 2}, chronicle.PolicyAcknowledgeMissing)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if len(comp.MissingWeeks) != 1 || comp.MissingWeeks[0] != 1 {
		t.Fatalf("expected missing_weeks [1], got %v", comp.MissingWeeks)
	}
	if len(comp.Included) != 1 {
		t.Fatalf("expected exactly one included week, got %d", len(comp.Included))
	}
	inc := comp.Included[0]
	if inc.WeekIndex != 2 || inc.Version != week2.Version || inc.SelectionFingerprint != recapFingerprint {
		t.Fatalf("unexpected upstream reference: %+v", inc)
	}
	if comp.Fingerprint == "" {
		t.Fatal("composition has no fingerprint")
	}

	if !strings.HasPrefix(comp.RenderedText, chronicle.Banner) {
		t.Fatal("document does not start with the non-canonical banner")
	}
	if !strings.Contains(comp.RenderedText, "missing_weeks: 1") {
		t.Fatal("provenance block does not record missing week 1")
	}
	if !strings.Contains(comp.RenderedText, week2.RenderedText) {
		t.Fatal("upstream recap text not embedded verbatim")
	}
}

func TestAssembleRefusePolicy(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	seedApprovedWeek(t, store, 2, "Week two recap body.")

	assembler := chronicle.NewAssembler(store, logging.NewNop())
	_, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{1, 2, 3}, chronicle.PolicyRefuse)
	if err == nil {
		t.Fatal("expected refusal for missing weeks")
	}
	if !errors.Is(err, chronicle.ErrMissingWeeks) {
		t.Fatalf("expected ErrMissingWeeks, got %v", err)
	}
	var missing *chronicle.MissingWeeksError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingWeeksError, got %T", err)
	}
	if len(missing.Weeks) != 2 || missing.Weeks[0] != 1 || missing.Weeks[1] != 3 {
		t.Fatalf("refusal must name weeks [1 3], got %v", missing.Weeks)
	}
}

func TestAssembleIgnoresDraftsAndWithheld(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	// A draft alone is not consumable.
	testsupport.MustCreateDraft(t, store, weeklyKey(4), "draft only", recapFingerprint)

	assembler := chronicle.NewAssembler(store, logging.NewNop())
	_, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{4}, chronicle.PolicyRefuse)
	if !errors.Is(err, chronicle.ErrMissingWeeks) {
		t.Fatalf("draft week must count as missing, got %v", err)
	}

	comp, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{4}, chronicle.PolicyAcknowledgeMissing)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(comp.Included) != 0 {
		t.Fatalf("draft week must not be included, got %d refs", len(comp.Included))
	}
}

func TestAssembleSupersededVersion(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	// v1 approved, v2 draft on top: the chronicle consumes the approved v1.
	seedApprovedWeek(t, store, 3, "version one text")
	testsupport.MustCreateDraft(t, store, weeklyKey(3), "version two text", recapFingerprint)

	assembler := chronicle.NewAssembler(store, logging.NewNop())
	comp, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{3}, chronicle.PolicyRefuse)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(comp.Included) != 1 || comp.Included[0].Version != 1 {
		t.Fatalf("expected approved v1 reference, got %+v", comp.Included)
	}
	if !strings.Contains(comp.RenderedText, "version one text") {
		t.Fatal("expected approved v1 text in quotes")
	}
	if strings.Contains(comp.RenderedText, "version two text") {
		t.Fatal("draft v2 text must not appear")
	}
}

func TestAssembleFingerprintIgnoresUpstreamText(t *testing.T) {
	ctx := context.Background()

	buildOnce := func(t *testing.T, text string) *chronicle.Composition {
		store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
		seedApprovedWeek(t, store, 2, text)
		assembler := chronicle.NewAssembler(store, logging.NewNop())
		comp, err := assembler.Assemble(ctx, "league-7", 2025, []int{2}, chronicle.PolicyRefuse)
		if err != nil {
			t.Fatalf("Assemble failed: %v", err)
		}
		return comp
	}

	first := buildOnce(t, "one body")
	second := buildOnce(t, "an entirely different body")
	if first.Fingerprint != second.Fingerprint {
		t.Fatal("fingerprint must depend on identity tuples, not upstream text")
	}
}

func TestRenderedSectionOrder(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	seedApprovedWeek(t, store, 1, "week one body")

	assembler := chronicle.NewAssembler(store, logging.NewNop())
	comp, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{1}, chronicle.PolicyRefuse)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	markers := []string{
		chronicle.BeginProvenance, chronicle.EndProvenance,
		chronicle.BeginIncludedWeeks, chronicle.EndIncludedWeeks,
		chronicle.BeginUpstreamQuotes, chronicle.EndUpstreamQuotes,
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(comp.RenderedText, marker)
		if idx < 0 {
			t.Fatalf("document missing marker %s", marker)
		}
		if idx < last {
			t.Fatalf("marker %s out of order", marker)
		}
		last = idx
	}
}

func TestEventIDGuardrail(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	// Upstream quotes may carry event ids; they stay inside the fences.
	seedApprovedWeek(t, store, 1, "Recorded evt_trade_12 and evt_add_9.")

	assembler := chronicle.NewAssembler(store, logging.NewNop())
	comp, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{1}, chronicle.PolicyRefuse)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.Contains(comp.RenderedText, "evt_trade_12") {
		t.Fatal("fenced quote should preserve upstream event ids")
	}

	// A league id in the canonical namespace would leak into the chronicle's
	// own prose, so assembly must refuse it.
	seedLeague := func(leagueID string) error {
		cfg := testsupport.NewConfig(t)
		leakStore := testsupport.MustOpenStore(t, cfg)
		key := artifact.Key{LeagueID: leagueID, Season: 2025, WeekIndex: 1, Type: artifact.TypeWeeklyRecap}
		testsupport.MustCreateDraft(t, leakStore, key, "body", recapFingerprint)
		if _, err := leakStore.ApproveLatest(context.Background(), key, "commissioner", artifact.ApproveOptions{}); err != nil {
			t.Fatalf("ApproveLatest: %v", err)
		}
		a := chronicle.NewAssembler(leakStore, logging.NewNop())
		_, err := a.Assemble(context.Background(), leagueID, 2025, []int{1}, chronicle.PolicyRefuse)
		return err
	}
	if err := seedLeague("evt_league"); err == nil {
		t.Fatal("expected guardrail rejection for event-id leak outside fences")
	}
}

func TestEventIDGuardrailSurvivesFenceLinesInQuotes(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	// A recap whose own text holds a bare backtick fence must not throw the
	// scan out of sync and flag the quoted event id as a leak.
	seedApprovedWeek(t, store, 1, "Notes:\n```\nRecorded evt_trade_44.\n```\nEnd of notes.")

	assembler := chronicle.NewAssembler(store, logging.NewNop())
	comp, err := assembler.Assemble(context.Background(), "league-7", 2025, []int{1}, chronicle.PolicyRefuse)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.Contains(comp.RenderedText, "evt_trade_44") {
		t.Fatal("fenced quote should preserve upstream event ids")
	}
	if !strings.Contains(comp.RenderedText, "````") {
		t.Fatal("document fence should outgrow backtick lines in quoted text")
	}
}

func TestAssembleValidatesInput(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	assembler := chronicle.NewAssembler(store, logging.NewNop())
	ctx := context.Background()

	if _, err := assembler.Assemble(ctx, "", 2025, []int{1}, chronicle.PolicyRefuse); err == nil {
		t.Fatal("expected error for empty league id")
	}
	if _, err := assembler.Assemble(ctx, "league-7", 2025, nil, chronicle.PolicyRefuse); err == nil {
		t.Fatal("expected error for empty week list")
	}
	if _, err := assembler.Assemble(ctx, "league-7", 2025, []int{2, 2}, chronicle.PolicyRefuse); err == nil {
		t.Fatal("expected error for duplicate weeks")
	}
	if _, err := assembler.Assemble(ctx, "league-7", 2025, []int{1}, chronicle.Policy("SKIP")); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]chronicle.Policy{
		"refuse":              chronicle.PolicyRefuse,
		"REFUSE":              chronicle.PolicyRefuse,
		"acknowledge":         chronicle.PolicyAcknowledgeMissing,
		"acknowledge_missing": chronicle.PolicyAcknowledgeMissing,
	}
	for input, want := range cases {
		got, err := chronicle.ParsePolicy(input)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParsePolicy(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := chronicle.ParsePolicy("silently-fill"); err == nil {
		t.Fatal("expected error for unknown policy name")
	}
}
