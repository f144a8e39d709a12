package testsupport

import (
	"context"
	"testing"
	"time"

	"squadvault/internal/artifact"
	"squadvault/internal/config"
)

// MustOpenStore opens an artifact.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *artifact.Store {
	t.Helper()

	store, err := artifact.Open(cfg)
	if err != nil {
		t.Fatalf("artifact.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustCreateDraft appends a draft version for tests.
func MustCreateDraft(t testing.TB, store *artifact.Store, key artifact.Key, text, fingerprint string) *artifact.Artifact {
	t.Helper()

	created, err := store.Create(context.Background(), artifact.Draft{
		Key:                  key,
		State:                artifact.StateDraft,
		RenderedText:         text,
		SelectionFingerprint: fingerprint,
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return created
}

// MustRecordLocks seeds sequential weekly lock events starting at start.
func MustRecordLocks(t testing.TB, store *artifact.Store, leagueID string, season, firstWeek, count int, start time.Time) {
	t.Helper()

	for i := 0; i < count; i++ {
		err := store.RecordLock(context.Background(), artifact.LockEvent{
			LeagueID:  leagueID,
			Season:    season,
			WeekIndex: firstWeek + i,
			LockedAt:  start.Add(time.Duration(i) * 7 * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("store.RecordLock: %v", err)
		}
	}
}
