package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/i474232898/radar-overlay/internal/radar"
	"github.com/i474232898/radar-overlay/internal/store"
)

type stubProber struct {
	outcome radar.Outcome
	window  time.Duration
}

func (p *stubProber) Probe(_ context.Context, window time.Duration) radar.Probe {
	p.window = window
	return radar.Probe{ID: "p1", CheckedAt: time.Now().UTC(), Outcome: p.outcome, Error: "feed stale"}
}

func TestRunOnceRecordsProbe(t *testing.T) {
	prober := &stubProber{outcome: radar.OutcomeNoEligible}
	history := store.NewMemoryStore(10, 0)

	s := New(5*time.Minute, 15*time.Minute, prober, history)
	s.RunOnce()

	if prober.window != 15*time.Minute {
		t.Errorf("probe window = %v, want 15m", prober.window)
	}
	latest, err := history.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != "p1" || latest.Outcome != radar.OutcomeNoEligible {
		t.Errorf("unexpected probe %+v", latest)
	}
}

func TestStartAndStop(t *testing.T) {
	s := New(time.Hour, radar.DefaultWindow, &stubProber{outcome: radar.OutcomeFeedUnavailable}, store.NewMemoryStore(10, 0))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
