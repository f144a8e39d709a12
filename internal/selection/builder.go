package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"squadvault/internal/window"
)

// BuildRequest carries everything one selection run needs.
type BuildRequest struct {
	SelectionSetID string
	CreatedAt      time.Time
	LeagueID       string
	Season         int
	WeekIndex      int
	Window         window.Window
	Signals        []any
}

// Builder partitions raw signals into included and excluded sets.
type Builder struct {
	// MinConfidence is the weakest category still eligible for inclusion.
	MinConfidence Confidence
	Logger        *slog.Logger
}

// NewBuilder constructs a builder with the given inclusion threshold.
func NewBuilder(minConfidence Confidence, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{MinConfidence: minConfidence, Logger: logger.With("component", "selection")}
}

// Build evaluates every signal in input order against the fixed rule sequence:
// intentional silence, window, confidence, lineage, sensitivity, redundancy.
// The first redundancy-key occurrence wins. An empty inclusion set withholds
// the selection with NO_ELIGIBLE_SIGNALS. Adapter errors propagate unchanged.
// A degraded window excludes every signal OUT_OF_WINDOW without consulting the
// adapter's window predicate, so untimed signals still produce a withheld set.
func (b *Builder) Build(req BuildRequest, adapter Adapter) (*SelectionSet, error) {
	if adapter == nil {
		return nil, errors.New("selection build requires an adapter")
	}
	if strings.TrimSpace(req.SelectionSetID) == "" {
		return nil, errors.New("selection build requires a selection set id")
	}
	if strings.TrimSpace(req.LeagueID) == "" {
		return nil, errors.New("selection build requires a league id")
	}

	set := &SelectionSet{
		SelectionSetID: req.SelectionSetID,
		LeagueID:       req.LeagueID,
		Season:         req.Season,
		WeekIndex:      req.WeekIndex,
		WindowID:       req.Window.ID(),
		CreatedAt:      req.CreatedAt.UTC(),
	}
	if req.Window.Usable() {
		set.WindowStart = req.Window.Start.UTC().Format(time.RFC3339)
		set.WindowEnd = req.Window.End.UTC().Format(time.RFC3339)
	}

	seenIDs := make(map[string]struct{}, len(req.Signals))
	redundancyOwners := make(map[string]string)

	for i, signal := range req.Signals {
		id, err := adapter.SignalID(signal)
		if err != nil {
			return nil, fmt.Errorf("signal %d: resolve id: %w", i, err)
		}
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("signal %d: empty signal id", i)
		}
		if _, dup := seenIDs[id]; dup {
			return nil, fmt.Errorf("signal %d: duplicate signal id %q", i, id)
		}
		seenIDs[id] = struct{}{}

		eventType, err := adapter.EventType(signal)
		if err != nil {
			return nil, fmt.Errorf("signal %s: resolve event type: %w", id, err)
		}
		if eventType != "" && IsIntentionalSilence(eventType) {
			set.exclude(id, ReasonIntentionalSilence, Detail{Key: "event_type", Value: eventType})
			continue
		}

		if !req.Window.Usable() {
			set.exclude(id, ReasonOutOfWindow)
			continue
		}
		inWindow, err := adapter.IsInWindow(signal, req.Window)
		if err != nil {
			return nil, fmt.Errorf("signal %s: window predicate: %w", id, err)
		}
		if !inWindow {
			set.exclude(id, ReasonOutOfWindow)
			continue
		}

		rawConfidence, err := adapter.Confidence(signal)
		if err != nil {
			return nil, fmt.Errorf("signal %s: confidence predicate: %w", id, err)
		}
		confidence := ParseConfidence(rawConfidence)
		if !confidence.AtLeast(b.MinConfidence) {
			set.exclude(id, ReasonLowConfidence,
				Detail{Key: "confidence", Value: string(confidence)},
				Detail{Key: "threshold", Value: string(b.MinConfidence)})
			continue
		}

		lineageComplete, err := adapter.IsLineageComplete(signal)
		if err != nil {
			return nil, fmt.Errorf("signal %s: lineage predicate: %w", id, err)
		}
		if !lineageComplete {
			set.exclude(id, ReasonIncompleteLineage)
			continue
		}

		sensitive, err := adapter.IsSensitive(signal)
		if err != nil {
			return nil, fmt.Errorf("signal %s: sensitivity predicate: %w", id, err)
		}
		if sensitive {
			set.exclude(id, ReasonSensitive)
			continue
		}

		redundancyKey, err := adapter.RedundancyKey(signal)
		if err != nil {
			return nil, fmt.Errorf("signal %s: redundancy predicate: %w", id, err)
		}
		if redundancyKey != "" {
			if owner, collides := redundancyOwners[redundancyKey]; collides {
				set.exclude(id, ReasonRedundant,
					Detail{Key: "redundancy_key", Value: redundancyKey},
					Detail{Key: "duplicate_of", Value: owner})
				continue
			}
			redundancyOwners[redundancyKey] = id
		}

		set.IncludedSignalIDs = append(set.IncludedSignalIDs, id)
	}

	if len(set.IncludedSignalIDs) == 0 {
		set.Withheld = true
		set.WithheldReason = WithheldNoEligibleSignals
	}

	if err := set.ComputeFingerprint(); err != nil {
		return nil, err
	}

	b.Logger.Info("selection built",
		"selection_set_id", set.SelectionSetID,
		"league_id", set.LeagueID,
		"season", set.Season,
		"week", set.WeekIndex,
		"included", len(set.IncludedSignalIDs),
		"excluded", len(set.Excluded),
		"withheld", set.Withheld,
	)
	return set, nil
}

func (s *SelectionSet) exclude(id string, reason ReasonCode, details ...Detail) {
	s.Excluded = append(s.Excluded, ExcludedSignal{
		SignalID:   id,
		ReasonCode: reason,
		Details:    details,
	})
}
