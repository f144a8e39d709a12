package signalfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Signal is one raw transaction signal as delivered by the upstream ingest.
// ObservedAt is RFC 3339; the zero value means the ingest never stamped it.
type Signal struct {
	ID              string `json:"id"`
	EventType       string `json:"event_type"`
	ObservedAt      string `json:"observed_at"`
	Confidence      string `json:"confidence"`
	LineageComplete bool   `json:"lineage_complete"`
	Sensitive       bool   `json:"sensitive"`
	RedundancyKey   string `json:"redundancy_key"`

	observedAt time.Time
	hasTime    bool
}

// ObservedTime returns the parsed observation timestamp. ok is false when the
// ingest never stamped one.
func (s *Signal) ObservedTime() (time.Time, bool) {
	return s.observedAt, s.hasTime
}

// Load reads a signal batch from a JSON file. Malformed entries fail the whole
// load; a partially trusted batch is worse than no batch.
func Load(path string) ([]*Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signal file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a signal batch.
func Parse(data []byte) ([]*Signal, error) {
	var signals []*Signal
	if err := json.Unmarshal(data, &signals); err != nil {
		return nil, fmt.Errorf("parse signal file: %w", err)
	}
	for i, signal := range signals {
		if signal == nil {
			return nil, fmt.Errorf("signal %d: null entry", i)
		}
		if strings.TrimSpace(signal.ID) == "" {
			return nil, fmt.Errorf("signal %d: missing id", i)
		}
		if signal.ObservedAt != "" {
			observed, err := time.Parse(time.RFC3339, signal.ObservedAt)
			if err != nil {
				return nil, fmt.Errorf("signal %s: parse observed_at: %w", signal.ID, err)
			}
			signal.observedAt = observed
			signal.hasTime = true
		}
	}
	return signals, nil
}

// Batch converts loaded signals into the opaque slice the selection builder
// consumes.
func Batch(signals []*Signal) []any {
	batch := make([]any, len(signals))
	for i, signal := range signals {
		batch[i] = signal
	}
	return batch
}
