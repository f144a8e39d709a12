package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"squadvault/internal/chronicle"
)

const testSignals = `[
  {"id": "evt_trade_1", "event_type": "TRANSACTION_TRADE", "observed_at": "2025-10-07T12:00:00Z",
   "confidence": "A", "lineage_complete": true},
  {"id": "evt_lock_2", "event_type": "TRANSACTION_LOCK_ALL_PLAYERS", "observed_at": "2025-10-08T12:00:00Z",
   "confidence": "A", "lineage_complete": true}
]`

func TestWeekLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	signalsPath := writeSignalFixture(t, env, testSignals)

	// Seed the lock-to-lock boundaries for week 1.
	if _, _, err := runCLI(t, env, "locks", "add", "league-1", "2025", "1", "2025-10-05T17:00:00Z"); err != nil {
		t.Fatalf("locks add week 1: %v", err)
	}
	if _, _, err := runCLI(t, env, "locks", "add", "league-1", "2025", "2", "2025-10-12T17:00:00Z"); err != nil {
		t.Fatalf("locks add week 2: %v", err)
	}

	out, _, err := runCLI(t, env, "window", "league-1", "2025", "1")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	requireContains(t, out, "Mode: LOCK_TO_LOCK")

	out, _, err = runCLI(t, env, "build", "league-1", "2025", "1", "--signals", signalsPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "version 1 (DRAFT)")
	requireContains(t, out, "Assembly document: ")

	// The exported assembly document must verify as written.
	var exportPath string
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Assembly document: "); ok {
			exportPath = rest
		}
	}
	if exportPath == "" {
		t.Fatal("build did not report an assembly document path")
	}
	out, _, err = runCLI(t, env, "verify", exportPath)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireContains(t, out, "verified")

	out, _, err = runCLI(t, env, "approve", "league-1", "2025", "1", "--approved-by", "commissioner")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	requireContains(t, out, "Approved league-1 2025 week 1 WEEKLY_RECAP version 1 by commissioner")

	// Re-approval is an idempotent success.
	out, _, err = runCLI(t, env, "approve", "league-1", "2025", "1", "--approved-by", "someone-else")
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	requireContains(t, out, "by commissioner")

	out, _, err = runCLI(t, env, "chronicle", "league-1", "2025",
		"--weeks", "1-2", "--missing-weeks-policy", "acknowledge")
	if err != nil {
		t.Fatalf("chronicle: %v", err)
	}
	requireContains(t, out, chronicle.Banner)
	requireContains(t, out, "missing_weeks: 2")
	requireContains(t, out, "included_weeks: 1")

	out, _, err = runCLI(t, env, "artifacts", "list", "league-1", "2025", "--json")
	if err != nil {
		t.Fatalf("artifacts list: %v", err)
	}
	requireContains(t, out, `"artifact_type": "WEEKLY_RECAP"`)
	requireContains(t, out, `"artifact_type": "RIVALRY_CHRONICLE"`)

	out, _, err = runCLI(t, env, "artifacts", "show", "league-1", "2025", "1")
	if err != nil {
		t.Fatalf("artifacts show: %v", err)
	}
	requireContains(t, out, "v1 APPROVED")
}

func TestChronicleRefusalExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "chronicle", "league-1", "2025",
		"--weeks", "1,2", "--missing-weeks-policy", "refuse")
	if err == nil {
		t.Fatal("expected refusal for missing weeks")
	}
	if !strings.Contains(err.Error(), "1, 2") {
		t.Fatalf("refusal should name the missing weeks, got: %v", err)
	}
}

func TestApproveRequireDraftRefusesEmptyLineage(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "approve", "league-1", "2025", "1",
		"--approved-by", "commissioner", "--require-draft")
	if err == nil {
		t.Fatal("expected refusal for empty lineage under --require-draft")
	}

	// Without --require-draft the same call is a no-op success.
	out, _, err := runCLI(t, env, "approve", "league-1", "2025", "1", "--approved-by", "commissioner")
	if err != nil {
		t.Fatalf("approve no-op: %v", err)
	}
	requireContains(t, out, "Nothing to approve")
}

func TestConfigInitCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses.
	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestBuildRejectsMissingSignalFile(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "build", "league-1", "2025", "1",
		"--signals", filepath.Join(env.baseDir, "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing signal file")
	}
}
