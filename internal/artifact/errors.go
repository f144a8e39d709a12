package artifact

import "errors"

// Policy refusals: expected operational outcomes, not bugs. The CLI maps these
// to non-zero exits with actionable messages.
var (
	// ErrLineageEmpty is returned when an approval requires a version to
	// exist and the lineage has none.
	ErrLineageEmpty = errors.New("artifact lineage has no versions")
	// ErrLatestNotDraft is returned when require-draft approval finds the
	// latest version in a non-draft state.
	ErrLatestNotDraft = errors.New("latest version is not in draft state")
)
