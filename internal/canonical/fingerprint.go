package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Detail is one ordered key/value pair attached to an exclusion.
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Exclusion identifies one excluded signal and the reason it was excluded.
type Exclusion struct {
	SignalID   string   `json:"signal_id"`
	ReasonCode string   `json:"reason_code"`
	Details    []Detail `json:"details"`
}

// ArtifactRef is the identity tuple of one upstream artifact consumed by a
// chronicle. Upstream text never participates in fingerprinting.
type ArtifactRef struct {
	WeekIndex            int    `json:"week_index"`
	ArtifactType         string `json:"artifact_type"`
	Version              int    `json:"version"`
	SelectionFingerprint string `json:"selection_fingerprint"`
}

type selectionDigest struct {
	LeagueID  string      `json:"league_id"`
	Season    int         `json:"season"`
	WeekIndex int         `json:"week_index"`
	WindowID  string      `json:"window_id"`
	Included  []string    `json:"included_signal_ids"`
	Excluded  []Exclusion `json:"excluded"`
}

type chronicleDigest struct {
	LeagueID       string        `json:"league_id"`
	Season         int           `json:"season"`
	WeeksRequested []int         `json:"weeks_requested"`
	MissingWeeks   []int         `json:"missing_weeks"`
	ApprovedRecaps []ArtifactRef `json:"approved_recaps"`
}

// SelectionFingerprint hashes the logical content of one selection build.
func SelectionFingerprint(leagueID string, season, weekIndex int, windowID string, included []string, excluded []Exclusion) (string, error) {
	if strings.TrimSpace(leagueID) == "" {
		return "", fmt.Errorf("selection fingerprint: league id is empty")
	}
	doc := selectionDigest{
		LeagueID:  leagueID,
		Season:    season,
		WeekIndex: weekIndex,
		WindowID:  windowID,
		Included:  SortedIDs(included),
		Excluded:  SortedExclusions(excluded),
	}
	return digest(doc)
}

// ChronicleFingerprint hashes the identity of a chronicle composition: which
// weeks were requested, which were missing, and which approved recaps were
// used, by identity tuple only.
func ChronicleFingerprint(leagueID string, season int, weeksRequested, missingWeeks []int, refs []ArtifactRef) (string, error) {
	if strings.TrimSpace(leagueID) == "" {
		return "", fmt.Errorf("chronicle fingerprint: league id is empty")
	}
	doc := chronicleDigest{
		LeagueID:       leagueID,
		Season:         season,
		WeeksRequested: sortedInts(weeksRequested),
		MissingWeeks:   sortedInts(missingWeeks),
		ApprovedRecaps: sortedRefs(refs),
	}
	return digest(doc)
}

// SortedIDs returns a lexicographically sorted copy of ids.
func SortedIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// SortedExclusions returns a copy of exclusions ordered by
// (signal_id, reason_code), with each entry's details ordered by (key, value).
func SortedExclusions(excluded []Exclusion) []Exclusion {
	out := make([]Exclusion, len(excluded))
	for i, e := range excluded {
		details := make([]Detail, len(e.Details))
		copy(details, e.Details)
		sort.Slice(details, func(a, b int) bool {
			if details[a].Key != details[b].Key {
				return details[a].Key < details[b].Key
			}
			return details[a].Value < details[b].Value
		})
		out[i] = Exclusion{SignalID: e.SignalID, ReasonCode: e.ReasonCode, Details: details}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].SignalID != out[b].SignalID {
			return out[a].SignalID < out[b].SignalID
		}
		return out[a].ReasonCode < out[b].ReasonCode
	})
	return out
}

func sortedInts(values []int) []int {
	out := make([]int, len(values))
	copy(out, values)
	sort.Ints(out)
	return out
}

func sortedRefs(refs []ArtifactRef) []ArtifactRef {
	out := make([]ArtifactRef, len(refs))
	copy(out, refs)
	sort.Slice(out, func(a, b int) bool {
		if out[a].WeekIndex != out[b].WeekIndex {
			return out[a].WeekIndex < out[b].WeekIndex
		}
		if out[a].ArtifactType != out[b].ArtifactType {
			return out[a].ArtifactType < out[b].ArtifactType
		}
		return out[a].Version < out[b].Version
	})
	return out
}

func digest(doc any) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
