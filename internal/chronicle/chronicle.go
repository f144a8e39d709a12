package chronicle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"squadvault/internal/artifact"
	"squadvault/internal/canonical"
)

// Policy controls what happens when a requested week has no approved recap.
type Policy string

const (
	// PolicyRefuse aborts assembly, naming every missing week.
	PolicyRefuse Policy = "REFUSE"
	// PolicyAcknowledgeMissing proceeds and records the missing weeks in the
	// provenance block. A gap is never filled silently.
	PolicyAcknowledgeMissing Policy = "ACKNOWLEDGE_MISSING"
)

// ParsePolicy accepts the canonical policy names plus the short CLI spellings.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "refuse":
		return PolicyRefuse, nil
	case "acknowledge", "acknowledge_missing", "acknowledge-missing":
		return PolicyAcknowledgeMissing, nil
	}
	return "", fmt.Errorf("unknown missing-weeks policy %q", value)
}

// ErrMissingWeeks is the sentinel behind MissingWeeksError, so callers can
// match the refusal without carrying the week list.
var ErrMissingWeeks = errors.New("requested weeks have no approved recap")

// MissingWeeksError names every requested week that has no approved recap.
type MissingWeeksError struct {
	Weeks []int
}

func (e *MissingWeeksError) Error() string {
	parts := make([]string, len(e.Weeks))
	for i, week := range e.Weeks {
		parts[i] = fmt.Sprintf("%d", week)
	}
	return fmt.Sprintf("no approved weekly recap for weeks: %s", strings.Join(parts, ", "))
}

func (e *MissingWeeksError) Is(target error) bool {
	return target == ErrMissingWeeks
}

// IncludedWeek is one upstream recap consumed by a chronicle: its identity
// tuple plus the verbatim text to quote.
type IncludedWeek struct {
	WeekIndex            int
	ArtifactType         artifact.Type
	Version              int
	SelectionFingerprint string
	RenderedText         string
}

// Composition is the result of one chronicle assembly: provenance, the
// rendered document, and the fingerprint over identity tuples.
type Composition struct {
	LeagueID       string
	Season         int
	WeeksRequested []int
	MissingWeeks   []int
	Included       []IncludedWeek
	Fingerprint    string
	RenderedText   string
	CreatedAt      time.Time
}

// Refs returns the identity tuples of the included upstream recaps. Upstream
// text never participates.
func (c *Composition) Refs() []canonical.ArtifactRef {
	refs := make([]canonical.ArtifactRef, len(c.Included))
	for i, inc := range c.Included {
		refs[i] = canonical.ArtifactRef{
			WeekIndex:            inc.WeekIndex,
			ArtifactType:         string(inc.ArtifactType),
			Version:              inc.Version,
			SelectionFingerprint: inc.SelectionFingerprint,
		}
	}
	return refs
}

// Draft packages the composition for the lifecycle store. Chronicles are
// season-level, so the lineage key uses week index zero.
func (c *Composition) Draft() artifact.Draft {
	return artifact.Draft{
		Key: artifact.Key{
			LeagueID:  c.LeagueID,
			Season:    c.Season,
			WeekIndex: 0,
			Type:      artifact.TypeRivalryChronicle,
		},
		State:                artifact.StateDraft,
		RenderedText:         c.RenderedText,
		SelectionFingerprint: c.Fingerprint,
	}
}

func normalizeWeeks(weeks []int) ([]int, error) {
	if len(weeks) == 0 {
		return nil, errors.New("chronicle assembly requires at least one week")
	}
	seen := make(map[int]struct{}, len(weeks))
	out := make([]int, 0, len(weeks))
	for _, week := range weeks {
		if week < 1 {
			return nil, fmt.Errorf("invalid week index %d", week)
		}
		if _, dup := seen[week]; dup {
			return nil, fmt.Errorf("duplicate week index %d", week)
		}
		seen[week] = struct{}{}
		out = append(out, week)
	}
	sort.Ints(out)
	return out, nil
}
