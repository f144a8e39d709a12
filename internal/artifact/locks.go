package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LockEvent records when a league week's rosters locked.
type LockEvent struct {
	LeagueID  string
	Season    int
	WeekIndex int
	LockedAt  time.Time
}

// RecordLock stores (or corrects) the lock time for a league week.
func (s *Store) RecordLock(ctx context.Context, event LockEvent) error {
	if strings.TrimSpace(event.LeagueID) == "" {
		return errors.New("record lock: league id is empty")
	}
	if event.WeekIndex < 1 {
		return fmt.Errorf("record lock: week index must be positive (got %d)", event.WeekIndex)
	}
	if event.LockedAt.IsZero() {
		return errors.New("record lock: locked_at is zero")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lock_events (league_id, season, week_index, locked_at, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT (league_id, season, week_index)
         DO UPDATE SET locked_at = excluded.locked_at`,
		event.LeagueID,
		event.Season,
		event.WeekIndex,
		event.LockedAt.UTC().Format(time.RFC3339Nano),
		now,
	)
	if err != nil {
		return fmt.Errorf("record lock event: %w", err)
	}
	return nil
}

// LockAt returns the stored lock time for a league week. Implements
// window.LockSource.
func (s *Store) LockAt(ctx context.Context, leagueID string, season, weekIndex int) (time.Time, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT locked_at FROM lock_events
         WHERE league_id = ? AND season = ? AND week_index = ?`,
		leagueID, season, weekIndex,
	)
	var raw string
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read lock event: %w", err)
	}
	lockedAt, err := parseTimeString(raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse lock time %q: %w", raw, err)
	}
	return lockedAt, true, nil
}

// ListLocks returns every lock event for a league season in week order.
func (s *Store) ListLocks(ctx context.Context, leagueID string, season int) ([]LockEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT league_id, season, week_index, locked_at FROM lock_events
         WHERE league_id = ? AND season = ?
         ORDER BY week_index`,
		leagueID, season,
	)
	if err != nil {
		return nil, fmt.Errorf("list lock events: %w", err)
	}
	defer rows.Close()

	var events []LockEvent
	for rows.Next() {
		var event LockEvent
		var raw string
		if err := rows.Scan(&event.LeagueID, &event.Season, &event.WeekIndex, &raw); err != nil {
			return nil, err
		}
		if event.LockedAt, err = parseTimeString(raw); err != nil {
			return nil, fmt.Errorf("parse lock time %q: %w", raw, err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
