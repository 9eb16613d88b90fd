package services

import (
	"fmt"
	"strings"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
)

// SelectionPolicy picks the payment that represents a booking among the
// candidates matched to it, in remote order. ok is false when there is none.
type SelectionPolicy func(candidates []models.Payment) (selected models.Payment, ok bool)

// Policy names accepted by PolicyByName.
const (
	PolicyPreferOpen = "prefer-open"
	PolicyFirst      = "first"
)

// PreferOpen returns the first payment that is not Completed, falling back to
// the first candidate. An in-flight payment is the one a tutor edits.
func PreferOpen(candidates []models.Payment) (models.Payment, bool) {
	if len(candidates) == 0 {
		return models.Payment{}, false
	}
	for _, p := range candidates {
		if !p.Final() {
			return p, true
		}
	}
	return candidates[0], true
}

// FirstRecorded returns the first candidate regardless of status.
func FirstRecorded(candidates []models.Payment) (models.Payment, bool) {
	if len(candidates) == 0 {
		return models.Payment{}, false
	}
	return candidates[0], true
}

// PolicyByName resolves SELECTION_POLICY. Empty means PreferOpen.
func PolicyByName(name string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyPreferOpen:
		return PreferOpen, nil
	case PolicyFirst:
		return FirstRecorded, nil
	default:
		return nil, domain.ValidationError{Field: "SELECTION_POLICY", Msg: fmt.Sprintf("unknown policy %q", name)}
	}
}
