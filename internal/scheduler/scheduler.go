package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/radar-overlay/internal/radar"
)

const defaultInterval = 5 * time.Minute

// Prober is the part of radar.Service the scheduler drives.
type Prober interface {
	Probe(ctx context.Context, window time.Duration) radar.Probe
}

// Scheduler periodically probes the radar feed and records the outcome.
type Scheduler struct {
	scheduler *gocron.Scheduler
	prober    Prober
	history   radar.History
	interval  time.Duration
	window    time.Duration
}

// New creates a new Scheduler.
func New(interval, window time.Duration, prober Prober, history radar.History) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		prober:    prober,
		history:   history,
		interval:  interval,
		window:    window,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval < time.Minute {
		log.Printf("scheduler: probe interval %s is below 1m; using %s", interval, defaultInterval)
		interval = defaultInterval
	}

	_, err := s.scheduler.Every(interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce probes the feed a single time and stores the result.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p := s.prober.Probe(ctx, s.window)
	s.history.Save(p)

	switch p.Outcome {
	case radar.OutcomeSelected:
		log.Printf("scheduler: radar snapshot valid=%s base=%s", p.Snapshot.ValidTime, p.Snapshot.BaseTime)
	case radar.OutcomeNoEligible:
		log.Printf("scheduler: radar feed is stale; will retry next run")
	default:
		log.Printf("scheduler: radar probe failed (%s): %s", p.Outcome, p.Error)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
