package signalfile

import (
	"fmt"

	"squadvault/internal/window"
)

// Adapter exposes loaded signals to the selection builder.
type Adapter struct{}

func (Adapter) cast(signal any) (*Signal, error) {
	s, ok := signal.(*Signal)
	if !ok || s == nil {
		return nil, fmt.Errorf("unexpected signal type %T", signal)
	}
	return s, nil
}

func (a Adapter) SignalID(signal any) (string, error) {
	s, err := a.cast(signal)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

func (a Adapter) EventType(signal any) (string, error) {
	s, err := a.cast(signal)
	if err != nil {
		return "", err
	}
	return s.EventType, nil
}

// IsInWindow tests observed_at against the window. A signal without a
// timestamp cannot be placed and is an adapter error, not an exclusion.
func (a Adapter) IsInWindow(signal any, w window.Window) (bool, error) {
	s, err := a.cast(signal)
	if err != nil {
		return false, err
	}
	observed, ok := s.ObservedTime()
	if !ok {
		return false, fmt.Errorf("signal %s has no observed_at timestamp", s.ID)
	}
	return w.Contains(observed), nil
}

func (a Adapter) Confidence(signal any) (string, error) {
	s, err := a.cast(signal)
	if err != nil {
		return "", err
	}
	return s.Confidence, nil
}

func (a Adapter) IsLineageComplete(signal any) (bool, error) {
	s, err := a.cast(signal)
	if err != nil {
		return false, err
	}
	return s.LineageComplete, nil
}

func (a Adapter) IsSensitive(signal any) (bool, error) {
	s, err := a.cast(signal)
	if err != nil {
		return false, err
	}
	return s.Sensitive, nil
}

func (a Adapter) RedundancyKey(signal any) (string, error) {
	s, err := a.cast(signal)
	if err != nil {
		return "", err
	}
	return s.RedundancyKey, nil
}
