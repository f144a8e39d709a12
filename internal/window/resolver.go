package window

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LockSource supplies stored roster lock times. The artifact store implements
// this over its lock_events table.
type LockSource interface {
	// LockAt returns the lock time for a league week, with ok=false when no
	// lock event is recorded for that week.
	LockAt(ctx context.Context, leagueID string, season, weekIndex int) (lockedAt time.Time, ok bool, err error)
}

// Resolver computes the canonical lock-to-lock interval for a league week.
// It is a pure function of the underlying lock data.
type Resolver struct {
	Locks LockSource
}

// NewResolver constructs a resolver over the given lock source.
func NewResolver(locks LockSource) *Resolver {
	return &Resolver{Locks: locks}
}

// Resolve computes the half-open window [lock(week), lock(week+1)) for the
// requested week. Missing boundaries degrade the window rather than failing;
// only lock-source errors are returned.
func (r *Resolver) Resolve(ctx context.Context, leagueID string, season, weekIndex int) (Window, error) {
	if r == nil || r.Locks == nil {
		return Window{}, errors.New("window resolver requires a lock source")
	}
	if strings.TrimSpace(leagueID) == "" {
		return Window{}, errors.New("league id is empty")
	}
	if weekIndex < 1 {
		return Window{}, fmt.Errorf("week index must be positive (got %d)", weekIndex)
	}

	start, startOK, err := r.Locks.LockAt(ctx, leagueID, season, weekIndex)
	if err != nil {
		return Window{}, fmt.Errorf("resolve week %d start lock: %w", weekIndex, err)
	}
	end, endOK, err := r.Locks.LockAt(ctx, leagueID, season, weekIndex+1)
	if err != nil {
		return Window{}, fmt.Errorf("resolve week %d end lock: %w", weekIndex, err)
	}

	switch {
	case !startOK && !endOK:
		return Window{
			Mode:   ModeDegraded,
			Reason: fmt.Sprintf("no lock events recorded for weeks %d and %d", weekIndex, weekIndex+1),
		}, nil
	case !startOK:
		return Window{
			Mode:   ModeDegraded,
			Reason: fmt.Sprintf("no lock event recorded for week %d", weekIndex),
		}, nil
	case !endOK:
		return Window{
			Mode:   ModeDegraded,
			Reason: fmt.Sprintf("no lock event recorded for week %d", weekIndex+1),
		}, nil
	}

	if !end.After(start) {
		return Window{
			Mode:   ModeDegraded,
			Reason: fmt.Sprintf("lock for week %d does not follow lock for week %d", weekIndex+1, weekIndex),
		}, nil
	}

	return Window{Mode: ModeLockToLock, Start: start.UTC(), End: end.UTC()}, nil
}
