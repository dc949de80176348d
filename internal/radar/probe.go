package radar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies one resolution attempt.
type Outcome string

const (
	OutcomeSelected        Outcome = "selected"
	OutcomeNoEligible      Outcome = "no_eligible"
	OutcomeFeedUnavailable Outcome = "feed_unavailable"
	OutcomeFeedMalformed   Outcome = "feed_malformed"
)

// Probe records a single resolution attempt for the history endpoint.
type Probe struct {
	ID        string    `json:"id"`
	CheckedAt time.Time `json:"checkedAt"` // always UTC
	Outcome   Outcome   `json:"outcome"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	TileURL   string    `json:"tileUrlTemplate,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// History is the contract the in-memory probe store satisfies.
type History interface {
	Save(p Probe)
	Latest() (Probe, error)
	Range(from, to time.Time) ([]Probe, error)
}

// OutcomeOf maps a Current error to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSelected
	case errors.Is(err, ErrNoEligibleSnapshot):
		return OutcomeNoEligible
	case errors.Is(err, ErrFeedMalformed):
		return OutcomeFeedMalformed
	default:
		return OutcomeFeedUnavailable
	}
}

// Probe resolves the current snapshot and summarises the attempt. Errors are
// folded into the returned record rather than returned.
func (s *Service) Probe(ctx context.Context, window time.Duration) Probe {
	sel, err := s.Current(ctx, window)

	p := Probe{
		ID:        uuid.NewString(),
		CheckedAt: s.clock.Now().UTC(),
		Outcome:   OutcomeOf(err),
	}
	if err != nil {
		p.Error = err.Error()
		return p
	}

	snap := sel.Snapshot
	p.Snapshot = &snap
	p.TileURL = sel.TileURLTemplate
	return p
}
