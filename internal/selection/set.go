package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"squadvault/internal/canonical"
)

// SelectionSet is the result of one deterministic selection build. Once
// fingerprinted it is never mutated; a new run produces a new set.
type SelectionSet struct {
	SelectionSetID    string           `json:"selection_set_id"`
	LeagueID          string           `json:"league_id"`
	Season            int              `json:"season"`
	WeekIndex         int              `json:"week_index"`
	WindowID          string           `json:"window_id"`
	WindowStart       string           `json:"window_start"`
	WindowEnd         string           `json:"window_end"`
	IncludedSignalIDs []string         `json:"included_signal_ids"`
	Excluded          []ExcludedSignal `json:"excluded"`
	Withheld          bool             `json:"withheld"`
	WithheldReason    string           `json:"withheld_reason"`

	CreatedAt   time.Time `json:"-"`
	Fingerprint string    `json:"-"`
}

// Validate fails closed on contradictory state.
func (s *SelectionSet) Validate() error {
	if strings.TrimSpace(s.SelectionSetID) == "" {
		return errors.New("selection set: selection_set_id is empty")
	}
	if strings.TrimSpace(s.LeagueID) == "" {
		return errors.New("selection set: league_id is empty")
	}
	if s.Withheld {
		if len(s.IncludedSignalIDs) != 0 {
			return errors.New("selection set: withheld with non-empty included_signal_ids")
		}
		if strings.TrimSpace(s.WithheldReason) == "" {
			return errors.New("selection set: withheld without withheld_reason")
		}
	} else if s.WithheldReason != "" {
		return errors.New("selection set: withheld_reason set on non-withheld selection")
	}

	seen := make(map[string]struct{}, len(s.IncludedSignalIDs)+len(s.Excluded))
	for _, id := range s.IncludedSignalIDs {
		if strings.TrimSpace(id) == "" {
			return errors.New("selection set: empty included signal id")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("selection set: duplicate signal id %q", id)
		}
		seen[id] = struct{}{}
	}
	for _, excluded := range s.Excluded {
		if strings.TrimSpace(excluded.SignalID) == "" {
			return errors.New("selection set: empty excluded signal id")
		}
		if _, dup := seen[excluded.SignalID]; dup {
			return fmt.Errorf("selection set: duplicate signal id %q", excluded.SignalID)
		}
		seen[excluded.SignalID] = struct{}{}
	}
	return nil
}

// Document renders the canonical JSON selection-set document: fixed key order,
// sorted included ids, sorted exclusions with sorted details, no extraneous
// whitespace. Validation failures fail closed.
func (s *SelectionSet) Document() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ordered := *s
	ordered.IncludedSignalIDs = canonical.SortedIDs(s.IncludedSignalIDs)
	ordered.Excluded = sortedExcluded(s.Excluded)
	payload, err := json.Marshal(&ordered)
	if err != nil {
		return nil, fmt.Errorf("marshal selection set: %w", err)
	}
	return payload, nil
}

// ComputeFingerprint canonicalizes the set and stamps its fingerprint.
func (s *SelectionSet) ComputeFingerprint() error {
	if err := s.Validate(); err != nil {
		return err
	}
	digest, err := canonical.SelectionFingerprint(
		s.LeagueID, s.Season, s.WeekIndex, s.WindowID,
		s.IncludedSignalIDs, exclusionRefs(s.Excluded))
	if err != nil {
		return err
	}
	s.Fingerprint = digest
	return nil
}

func exclusionRefs(excluded []ExcludedSignal) []canonical.Exclusion {
	refs := make([]canonical.Exclusion, len(excluded))
	for i, e := range excluded {
		details := make([]canonical.Detail, len(e.Details))
		for j, d := range e.Details {
			details[j] = canonical.Detail{Key: d.Key, Value: d.Value}
		}
		refs[i] = canonical.Exclusion{
			SignalID:   e.SignalID,
			ReasonCode: string(e.ReasonCode),
			Details:    details,
		}
	}
	return refs
}

func sortedExcluded(excluded []ExcludedSignal) []ExcludedSignal {
	refs := canonical.SortedExclusions(exclusionRefs(excluded))
	out := make([]ExcludedSignal, len(refs))
	for i, ref := range refs {
		details := make([]Detail, len(ref.Details))
		for j, d := range ref.Details {
			details[j] = Detail{Key: d.Key, Value: d.Value}
		}
		if len(details) == 0 {
			details = nil
		}
		out[i] = ExcludedSignal{
			SignalID:   ref.SignalID,
			ReasonCode: ReasonCode(ref.ReasonCode),
			Details:    details,
		}
	}
	return out
}
