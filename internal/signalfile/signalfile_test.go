package signalfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"squadvault/internal/logging"
	"squadvault/internal/selection"
	"squadvault/internal/signalfile"
	"squadvault/internal/window"
)

const batchJSON = `[
  {"id": "evt_trade_1", "event_type": "TRANSACTION_TRADE", "observed_at": "2025-10-07T15:04:05Z",
   "confidence": "A", "lineage_complete": true, "sensitive": false, "redundancy_key": "trade:1"},
  {"id": "evt_lock_2", "event_type": "TRANSACTION_LOCK_ALL_PLAYERS", "observed_at": "2025-10-07T16:00:00Z",
   "confidence": "B", "lineage_complete": true}
]`

func TestParse(t *testing.T) {
	signals, err := signalfile.Parse([]byte(batchJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}
	first := signals[0]
	if first.ID != "evt_trade_1" || first.Confidence != "A" || !first.LineageComplete {
		t.Fatalf("unexpected first signal: %+v", first)
	}
	observed, ok := first.ObservedTime()
	if !ok {
		t.Fatal("first signal should carry a timestamp")
	}
	want := time.Date(2025, 10, 7, 15, 4, 5, 0, time.UTC)
	if !observed.Equal(want) {
		t.Fatalf("observed_at = %v, want %v", observed, want)
	}
}

func TestParseRejectsBadBatches(t *testing.T) {
	cases := map[string]string{
		"not json":     `{`,
		"missing id":   `[{"event_type": "TRANSACTION_TRADE"}]`,
		"null entry":   `[null]`,
		"bad observed": `[{"id": "evt_x", "observed_at": "yesterday"}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := signalfile.Parse([]byte(payload)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.json")
	if err := os.WriteFile(path, []byte(batchJSON), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	signals, err := signalfile.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}

	if _, err := signalfile.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAdapterWindowPredicate(t *testing.T) {
	signals, err := signalfile.Parse([]byte(batchJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	w := window.Window{
		Mode:  window.ModeLockToLock,
		Start: time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 12, 17, 0, 0, 0, time.UTC),
	}
	adapter := signalfile.Adapter{}

	inside, err := adapter.IsInWindow(signals[0], w)
	if err != nil {
		t.Fatalf("IsInWindow: %v", err)
	}
	if !inside {
		t.Fatal("signal observed inside the window should be in window")
	}

	late, err := signalfile.Parse([]byte(`[{"id": "evt_late", "observed_at": "2025-10-12T17:00:00Z"}]`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	inside, err = adapter.IsInWindow(late[0], w)
	if err != nil {
		t.Fatalf("IsInWindow: %v", err)
	}
	if inside {
		t.Fatal("window end is exclusive; boundary signal must be outside")
	}

	untimed, err := signalfile.Parse([]byte(`[{"id": "evt_untimed"}]`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := adapter.IsInWindow(untimed[0], w); err == nil {
		t.Fatal("missing observed_at must be an adapter error")
	}
}

func TestUntimedSignalBuildsUnderDegradedWindow(t *testing.T) {
	signals, err := signalfile.Parse([]byte(`[{"id": "sig-1", "event_type": "TRANSACTION_TRADE", "confidence": "A", "lineage_complete": true}]`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	builder := selection.NewBuilder(selection.ConfidenceB, logging.NewNop())
	set, err := builder.Build(selection.BuildRequest{
		SelectionSetID: "sel-degraded",
		CreatedAt:      time.Date(2025, 10, 5, 17, 0, 0, 0, time.UTC),
		LeagueID:       "league-12",
		Season:         2025,
		WeekIndex:      6,
		Window:         window.Window{Mode: window.ModeDegraded, Reason: "no lock event recorded for week 6"},
		Signals:        signalfile.Batch(signals),
	}, signalfile.Adapter{})
	if err != nil {
		t.Fatalf("degraded window build must not error: %v", err)
	}
	if !set.Withheld {
		t.Fatal("degraded window must withhold")
	}
	if len(set.Excluded) != 1 || set.Excluded[0].ReasonCode != selection.ReasonOutOfWindow {
		t.Fatalf("expected one OUT_OF_WINDOW exclusion, got %+v", set.Excluded)
	}
}

func TestAdapterRejectsForeignTypes(t *testing.T) {
	adapter := signalfile.Adapter{}
	if _, err := adapter.SignalID("not-a-signal"); err == nil {
		t.Fatal("expected error for foreign signal type")
	}
}

func TestBatch(t *testing.T) {
	signals, err := signalfile.Parse([]byte(batchJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	batch := signalfile.Batch(signals)
	if len(batch) != len(signals) {
		t.Fatalf("batch length %d, want %d", len(batch), len(signals))
	}
	if _, ok := batch[0].(*signalfile.Signal); !ok {
		t.Fatalf("batch element has type %T", batch[0])
	}
}
