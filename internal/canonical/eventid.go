package canonical

import (
	"regexp"
	"strings"
)

// EventIDPrefix marks identifiers belonging to the canonical event-identity
// namespace. Derived documents must never introduce such identifiers in their
// own prose.
const EventIDPrefix = "evt_"

var eventIDPattern = regexp.MustCompile(`\bevt_[A-Za-z0-9][A-Za-z0-9_-]*`)

// IsEventID reports whether token is a canonical event identifier.
func IsEventID(token string) bool {
	return strings.HasPrefix(token, EventIDPrefix) && eventIDPattern.MatchString(token)
}

// FindEventIDs returns every canonical event identifier occurring in text,
// in order of appearance.
func FindEventIDs(text string) []string {
	return eventIDPattern.FindAllString(text, -1)
}
