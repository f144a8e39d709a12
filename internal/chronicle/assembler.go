package chronicle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"squadvault/internal/artifact"
	"squadvault/internal/canonical"
)

// RecapSource reads approved upstream recaps. *artifact.Store satisfies it.
type RecapSource interface {
	LatestByState(ctx context.Context, key artifact.Key, state artifact.State) (*artifact.Artifact, error)
}

// Assembler composes chronicles from approved weekly recaps.
type Assembler struct {
	Source RecapSource
	Logger *slog.Logger
}

// NewAssembler constructs an assembler reading from source.
func NewAssembler(source RecapSource, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{Source: source, Logger: logger.With("component", "chronicle")}
}

// Assemble fetches the latest approved weekly recap for every requested week
// and renders the derived document. Under PolicyRefuse any missing week aborts
// with a MissingWeeksError; under PolicyAcknowledgeMissing the missing set is
// recorded in the provenance block instead. The fingerprint covers the request
// and the upstream identity tuples, never upstream text.
func (a *Assembler) Assemble(ctx context.Context, leagueID string, season int, weeks []int, policy Policy) (*Composition, error) {
	if a.Source == nil {
		return nil, errors.New("chronicle assembly requires a recap source")
	}
	if strings.TrimSpace(leagueID) == "" {
		return nil, errors.New("chronicle assembly requires a league id")
	}
	if policy != PolicyRefuse && policy != PolicyAcknowledgeMissing {
		return nil, fmt.Errorf("unknown missing-weeks policy %q", policy)
	}
	requested, err := normalizeWeeks(weeks)
	if err != nil {
		return nil, err
	}

	comp := &Composition{
		LeagueID:       leagueID,
		Season:         season,
		WeeksRequested: requested,
		CreatedAt:      time.Now().UTC(),
	}
	for _, week := range requested {
		key := artifact.Key{LeagueID: leagueID, Season: season, WeekIndex: week, Type: artifact.TypeWeeklyRecap}
		approved, err := a.Source.LatestByState(ctx, key, artifact.StateApproved)
		if err != nil {
			return nil, fmt.Errorf("week %d: %w", week, err)
		}
		if approved == nil {
			comp.MissingWeeks = append(comp.MissingWeeks, week)
			continue
		}
		comp.Included = append(comp.Included, IncludedWeek{
			WeekIndex:            approved.WeekIndex,
			ArtifactType:         approved.Type,
			Version:              approved.Version,
			SelectionFingerprint: approved.SelectionFingerprint,
			RenderedText:         approved.RenderedText,
		})
	}

	if policy == PolicyRefuse && len(comp.MissingWeeks) > 0 {
		return nil, &MissingWeeksError{Weeks: comp.MissingWeeks}
	}

	digest, err := canonical.ChronicleFingerprint(
		comp.LeagueID, comp.Season, comp.WeeksRequested, comp.MissingWeeks, comp.Refs())
	if err != nil {
		return nil, err
	}
	comp.Fingerprint = digest

	rendered, err := render(comp)
	if err != nil {
		return nil, err
	}
	comp.RenderedText = rendered

	a.Logger.Info("chronicle assembled",
		"league_id", comp.LeagueID,
		"season", comp.Season,
		"weeks_requested", len(comp.WeeksRequested),
		"weeks_missing", len(comp.MissingWeeks),
		"weeks_included", len(comp.Included),
	)
	return comp, nil
}
