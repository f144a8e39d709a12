package artifact

import (
	"strings"
	"time"
)

// State represents the lifecycle state of an artifact version.
type State string

const (
	StateDraft    State = "DRAFT"
	StateApproved State = "APPROVED"
	StateWithheld State = "WITHHELD"
)

var allStates = []State{StateDraft, StateApproved, StateWithheld}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToUpper(strings.TrimSpace(value)))
	for _, state := range allStates {
		if state == normalized {
			return state, true
		}
	}
	return "", false
}

// Type distinguishes artifact lineages sharing a league/season/week key.
type Type string

const (
	// TypeWeeklyRecap is the canonical-facing weekly narrative artifact.
	TypeWeeklyRecap Type = "WEEKLY_RECAP"
	// TypeRivalryChronicle is the derived, explicitly non-canonical rollup.
	TypeRivalryChronicle Type = "RIVALRY_CHRONICLE"
)

var allTypes = []Type{TypeWeeklyRecap, TypeRivalryChronicle}

// ParseType converts a string into a known Type.
func ParseType(value string) (Type, bool) {
	normalized := Type(strings.ToUpper(strings.TrimSpace(value)))
	for _, t := range allTypes {
		if t == normalized {
			return t, true
		}
	}
	return "", false
}

// Key identifies one artifact lineage. All versions of a lineage share a Key.
type Key struct {
	LeagueID  string
	Season    int
	WeekIndex int
	Type      Type
}

// Artifact is one immutable version row. Transitions touch only state and
// approval metadata; content fields are never rewritten.
type Artifact struct {
	ID                   int64
	LeagueID             string
	Season               int
	WeekIndex            int
	Type                 Type
	Version              int
	State                State
	RenderedText         string
	SelectionFingerprint string
	ApprovedBy           string
	ApprovedAt           *time.Time
	SupersedesVersion    *int
	WithheldReason       string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Key returns the lineage key of this version.
func (a *Artifact) Key() Key {
	return Key{LeagueID: a.LeagueID, Season: a.Season, WeekIndex: a.WeekIndex, Type: a.Type}
}

// Draft describes a new version to append to a lineage.
type Draft struct {
	Key                  Key
	State                State // StateDraft or StateWithheld
	RenderedText         string
	SelectionFingerprint string
	WithheldReason       string
}
