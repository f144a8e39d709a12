package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ApproveOptions tunes ApproveLatest behavior.
type ApproveOptions struct {
	// RequireDraft makes it an error for the latest version to not be in
	// DRAFT state.
	RequireDraft bool
}

// ApproveLatest transitions the highest-version row of a lineage from DRAFT to
// APPROVED inside one transaction, stamping approved_by and approved_at.
//
// Re-invoking approval after it already succeeded is a no-op success: the
// existing APPROVED row is returned with its original stamps untouched. When
// the lineage is empty or its latest version is not a draft the call succeeds
// as a no-op, unless RequireDraft is set, in which case it refuses.
func (s *Store) ApproveLatest(ctx context.Context, key Key, approvedBy string, opts ApproveOptions) (*Artifact, error) {
	if strings.TrimSpace(approvedBy) == "" {
		return nil, errors.New("approve: approved_by is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+artifactColumns+` FROM artifacts
         WHERE league_id = ? AND season = ? AND week_index = ? AND artifact_type = ?
         ORDER BY version DESC LIMIT 1`,
		key.LeagueID, key.Season, key.WeekIndex, key.Type,
	)
	latest, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		if opts.RequireDraft {
			return nil, fmt.Errorf("%w: %s %d week %d %s",
				ErrLineageEmpty, key.LeagueID, key.Season, key.WeekIndex, key.Type)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read latest version: %w", err)
	}

	switch latest.State {
	case StateApproved:
		if opts.RequireDraft {
			return nil, fmt.Errorf("%w: %s %d week %d %s v%d is %s",
				ErrLatestNotDraft, key.LeagueID, key.Season, key.WeekIndex, key.Type,
				latest.Version, latest.State)
		}
		// Idempotent: the original approval stamps stand.
		return latest, nil
	case StateDraft:
		// fall through to the transition
	default:
		if opts.RequireDraft {
			return nil, fmt.Errorf("%w: %s %d week %d %s v%d is %s",
				ErrLatestNotDraft, key.LeagueID, key.Season, key.WeekIndex, key.Type,
				latest.Version, latest.State)
		}
		return nil, nil
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx,
		`UPDATE artifacts
         SET state = ?, approved_by = ?, approved_at = ?, updated_at = ?
         WHERE id = ? AND state = ?`,
		StateApproved, approvedBy, timestamp, timestamp, latest.ID, StateDraft,
	)
	if err != nil {
		return nil, fmt.Errorf("approve version %d: %w", latest.Version, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected != 1 {
		return nil, fmt.Errorf("approve version %d: row changed underneath the transition", latest.Version)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approve: %w", err)
	}

	latest.State = StateApproved
	latest.ApprovedBy = approvedBy
	latest.ApprovedAt = &now
	latest.UpdatedAt = now
	return latest, nil
}
