package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"squadvault/internal/config"
)

// Store manages artifact and lock-event persistence backed by SQLite.
// A file lock serializes invocations across processes; the approval workflow
// is human-paced and effectively single-writer.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the artifact database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "squadvault.lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !acquired {
		return nil, errors.New("another squadvault invocation holds the store lock")
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "squadvault.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection and releases the store lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); dbErr == nil {
			dbErr = unlockErr
		}
	}
	return dbErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Create appends a new version to a lineage. Prior versions are never altered;
// the new row records which version it supersedes.
func (s *Store) Create(ctx context.Context, draft Draft) (*Artifact, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var maxVersion sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(version) FROM artifacts
         WHERE league_id = ? AND season = ? AND week_index = ? AND artifact_type = ?`,
		draft.Key.LeagueID, draft.Key.Season, draft.Key.WeekIndex, draft.Key.Type,
	).Scan(&maxVersion)
	if err != nil {
		return nil, fmt.Errorf("read latest version: %w", err)
	}

	version := 1
	var supersedes any
	if maxVersion.Valid {
		version = int(maxVersion.Int64) + 1
		supersedes = maxVersion.Int64
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO artifacts (
            league_id, season, week_index, artifact_type, version, state,
            rendered_text, selection_fingerprint, approved_by, approved_at,
            supersedes_version, withheld_reason, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?, ?, ?)`,
		draft.Key.LeagueID,
		draft.Key.Season,
		draft.Key.WeekIndex,
		draft.Key.Type,
		version,
		draft.State,
		draft.RenderedText,
		draft.SelectionFingerprint,
		supersedes,
		nullableString(draft.WithheldReason),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert artifact version: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	return s.GetByID(ctx, id)
}

func validateDraft(draft Draft) error {
	if strings.TrimSpace(draft.Key.LeagueID) == "" {
		return errors.New("create artifact: league id is empty")
	}
	if _, ok := ParseType(string(draft.Key.Type)); !ok {
		return fmt.Errorf("create artifact: unknown artifact type %q", draft.Key.Type)
	}
	switch draft.State {
	case StateDraft:
		if draft.WithheldReason != "" {
			return errors.New("create artifact: withheld_reason set on draft")
		}
	case StateWithheld:
		if strings.TrimSpace(draft.WithheldReason) == "" {
			return errors.New("create artifact: withheld version requires withheld_reason")
		}
	default:
		return fmt.Errorf("create artifact: initial state must be DRAFT or WITHHELD (got %q)", draft.State)
	}
	if strings.TrimSpace(draft.SelectionFingerprint) == "" {
		return errors.New("create artifact: selection fingerprint is empty")
	}
	return nil
}

// GetByID fetches an artifact version by row identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Artifact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artifactColumns+` FROM artifacts WHERE id = ?`, id)
	artifact, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return artifact, nil
}

// Latest returns the highest-version row of a lineage, or nil when the lineage
// has no versions.
func (s *Store) Latest(ctx context.Context, key Key) (*Artifact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+artifactColumns+` FROM artifacts
         WHERE league_id = ? AND season = ? AND week_index = ? AND artifact_type = ?
         ORDER BY version DESC LIMIT 1`,
		key.LeagueID, key.Season, key.WeekIndex, key.Type,
	)
	artifact, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest version: %w", err)
	}
	return artifact, nil
}

// LatestByState returns the highest-version row of a lineage in the given
// state, or nil when none matches.
func (s *Store) LatestByState(ctx context.Context, key Key, state State) (*Artifact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+artifactColumns+` FROM artifacts
         WHERE league_id = ? AND season = ? AND week_index = ? AND artifact_type = ? AND state = ?
         ORDER BY version DESC LIMIT 1`,
		key.LeagueID, key.Season, key.WeekIndex, key.Type, state,
	)
	artifact, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s version: %w", state, err)
	}
	return artifact, nil
}

// Lineage returns every version of a lineage in ascending version order.
func (s *Store) Lineage(ctx context.Context, key Key) ([]*Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+artifactColumns+` FROM artifacts
         WHERE league_id = ? AND season = ? AND week_index = ? AND artifact_type = ?
         ORDER BY version`,
		key.LeagueID, key.Season, key.WeekIndex, key.Type,
	)
	if err != nil {
		return nil, fmt.Errorf("query lineage: %w", err)
	}
	defer rows.Close()

	var artifacts []*Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, rows.Err()
}

// List returns all artifact versions for a league season ordered by week,
// type, and version.
func (s *Store) List(ctx context.Context, leagueID string, season int) ([]*Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+artifactColumns+` FROM artifacts
         WHERE league_id = ? AND season = ?
         ORDER BY week_index, artifact_type, version`,
		leagueID, season,
	)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, rows.Err()
}

const artifactColumns = "id, league_id, season, week_index, artifact_type, version, state, rendered_text, selection_fingerprint, approved_by, approved_at, supersedes_version, withheld_reason, created_at, updated_at"

func scanArtifact(scanner interface{ Scan(dest ...any) error }) (*Artifact, error) {
	var (
		id             int64
		leagueID       string
		season         int
		weekIndex      int
		typeStr        string
		version        int
		stateStr       string
		renderedText   string
		fingerprint    string
		approvedBy     sql.NullString
		approvedAtRaw  sql.NullString
		supersedes     sql.NullInt64
		withheldReason sql.NullString
		createdRaw     string
		updatedRaw     string
	)

	if err := scanner.Scan(
		&id,
		&leagueID,
		&season,
		&weekIndex,
		&typeStr,
		&version,
		&stateStr,
		&renderedText,
		&fingerprint,
		&approvedBy,
		&approvedAtRaw,
		&supersedes,
		&withheldReason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	artifact := &Artifact{
		ID:                   id,
		LeagueID:             leagueID,
		Season:               season,
		WeekIndex:            weekIndex,
		Type:                 Type(typeStr),
		Version:              version,
		State:                State(stateStr),
		RenderedText:         renderedText,
		SelectionFingerprint: fingerprint,
		ApprovedBy:           approvedBy.String,
		WithheldReason:       withheldReason.String,
	}
	if supersedes.Valid {
		v := int(supersedes.Int64)
		artifact.SupersedesVersion = &v
	}
	if approvedAtRaw.Valid {
		if approvedAt, err := parseTimeString(approvedAtRaw.String); err == nil {
			artifact.ApprovedAt = &approvedAt
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		artifact.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		artifact.UpdatedAt = updated
	}
	return artifact, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
