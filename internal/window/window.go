package window

import (
	"fmt"
	"time"
)

// Mode classifies how a window was derived.
type Mode string

const (
	// ModeLockToLock is the canonical half-open interval bounded by two
	// sequential roster lock events.
	ModeLockToLock Mode = "LOCK_TO_LOCK"
	// ModeDegraded indicates one or both lock boundaries could not be
	// determined. A degraded window is a valid outcome, not an error;
	// callers must treat it as "no eligible window".
	ModeDegraded Mode = "DEGRADED"
)

// Window is the time interval scoping which signals are eligible for a week.
type Window struct {
	Mode   Mode
	Start  time.Time
	End    time.Time
	Reason string
}

// Usable reports whether the window can scope signals.
func (w Window) Usable() bool {
	return w.Mode == ModeLockToLock
}

// Contains reports whether t falls inside the half-open interval [Start, End).
// A degraded window contains nothing.
func (w Window) Contains(t time.Time) bool {
	if !w.Usable() {
		return false
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// ID returns the deterministic window identifier used in fingerprints and
// exported documents.
func (w Window) ID() string {
	if !w.Usable() {
		return "degraded"
	}
	return fmt.Sprintf("lock_to_lock:%s/%s",
		w.Start.UTC().Format(time.RFC3339),
		w.End.UTC().Format(time.RFC3339))
}
