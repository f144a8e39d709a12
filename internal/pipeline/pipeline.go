package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"squadvault/internal/artifact"
	"squadvault/internal/recap"
	"squadvault/internal/selection"
	"squadvault/internal/window"
)

// Pipeline runs one week build end to end: resolve the window, partition
// signals, fingerprint the selection, render the recap, append a draft.
type Pipeline struct {
	Store    *artifact.Store
	Resolver *window.Resolver
	Builder  *selection.Builder
	Logger   *slog.Logger
}

// New wires a pipeline over an open store.
func New(store *artifact.Store, minConfidence selection.Confidence, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Store:    store,
		Resolver: window.NewResolver(store),
		Builder:  selection.NewBuilder(minConfidence, logger),
		Logger:   logger.With("component", "pipeline"),
	}
}

// BuildResult carries everything a single build produced.
type BuildResult struct {
	Window       window.Window
	SelectionSet *selection.SelectionSet
	Artifact     *artifact.Artifact
}

// BuildWeek produces a new artifact version for the week. An empty selection
// yields a WITHHELD version instead of a draft; both are appended to the same
// lineage.
func (p *Pipeline) BuildWeek(ctx context.Context, leagueID string, season, weekIndex int, signals []any, adapter selection.Adapter) (*BuildResult, error) {
	if p.Store == nil {
		return nil, errors.New("pipeline requires an open store")
	}
	if strings.TrimSpace(leagueID) == "" {
		return nil, errors.New("pipeline requires a league id")
	}

	w, err := p.Resolver.Resolve(ctx, leagueID, season, weekIndex)
	if err != nil {
		return nil, fmt.Errorf("resolve window: %w", err)
	}

	set, err := p.Builder.Build(selection.BuildRequest{
		SelectionSetID: uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		LeagueID:       leagueID,
		Season:         season,
		WeekIndex:      weekIndex,
		Window:         w,
		Signals:        signals,
	}, adapter)
	if err != nil {
		return nil, fmt.Errorf("build selection: %w", err)
	}

	rendered, err := recap.Render(set)
	if err != nil {
		return nil, fmt.Errorf("render recap: %w", err)
	}

	draft := artifact.Draft{
		Key: artifact.Key{
			LeagueID:  leagueID,
			Season:    season,
			WeekIndex: weekIndex,
			Type:      artifact.TypeWeeklyRecap,
		},
		State:                artifact.StateDraft,
		RenderedText:         rendered,
		SelectionFingerprint: set.Fingerprint,
	}
	if set.Withheld {
		draft.State = artifact.StateWithheld
		draft.WithheldReason = set.WithheldReason
	}

	created, err := p.Store.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("persist artifact: %w", err)
	}

	p.Logger.Info("week built",
		"league_id", leagueID,
		"season", season,
		"week", weekIndex,
		"window_mode", w.Mode,
		"version", created.Version,
		"state", created.State,
	)
	return &BuildResult{Window: w, SelectionSet: set, Artifact: created}, nil
}
