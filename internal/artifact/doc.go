// Package artifact persists versioned recap and chronicle artifacts in SQLite
// and owns every write to them.
//
// Each (league, season, week, artifact_type) lineage is append-only: building
// a new version never deletes or alters prior rows, and the newest version is
// "latest" for read purposes (ORDER BY version DESC LIMIT 1). State
// transitions (DRAFT to APPROVED) are single-row updates inside one
// transaction and touch only state and approval metadata, never rendered text
// or fingerprints. Re-approving an already APPROVED lineage is a no-op
// success.
//
// The store also keeps the roster lock_events table consumed by the window
// resolver, and holds a file lock while open so batch invocations stay
// effectively single-writer.
//
// Treat this package as the single source of truth for artifact semantics; no
// other component writes to the artifact table.
package artifact
