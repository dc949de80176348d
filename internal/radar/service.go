package radar

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultKey is the source and layer id used when none is given.
const DefaultKey = "radar"

// Service resolves the current radar snapshot and registers it on host maps.
type Service struct {
	feed        FeedProvider
	clock       Clock
	tilePattern string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the wall clock.
func WithClock(c Clock) ServiceOption {
	return func(s *Service) { s.clock = c }
}

// WithTileURLPattern overrides DefaultTileURLPattern.
func WithTileURLPattern(pattern string) ServiceOption {
	return func(s *Service) {
		if pattern != "" {
			s.tilePattern = pattern
		}
	}
}

// NewService creates a new Service.
func NewService(feed FeedProvider, opts ...ServiceOption) *Service {
	s := &Service{
		feed:        feed,
		clock:       SystemClock,
		tilePattern: DefaultTileURLPattern,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current fetches the feed and resolves the snapshot for now. It returns
// ErrNoEligibleSnapshot when the feed has nothing inside the window.
func (s *Service) Current(ctx context.Context, window time.Duration) (Selection, error) {
	feed, err := s.feed.FetchTargetTimes(ctx)
	if err != nil {
		if !IsFeedError(err) {
			err = fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
		}
		log.Printf("ERROR: radar feed %s failed: %v", s.feed.Name(), err)
		return Selection{}, err
	}

	now := s.clock.Now()
	snap, ok := Resolve(feed, now, window)
	if !ok {
		log.Printf("INFO: no radar snapshot within %s of %s (%d feed entries)", windowOrDefault(window), now.Format(time.RFC3339), len(feed))
		return Selection{}, ErrNoEligibleSnapshot
	}

	tileURL := TileURLTemplateFrom(s.tilePattern, snap)
	log.Printf("DEBUG: resolved radar snapshot base=%s valid=%s", snap.BaseTime, snap.ValidTime)

	return Selection{
		Snapshot:        snap,
		TileURLTemplate: tileURL,
		Source:          DescribeSource(tileURL),
		Layer:           DescribeLayer(),
		ResolvedAt:      now,
	}, nil
}

// SetOverlay resolves the current snapshot and registers its source, layer and
// toggle control on m. Nothing is registered if the feed fails or is stale.
func (s *Service) SetOverlay(ctx context.Context, m MapHandle, opts ...Option) (*Toggle, error) {
	return s.NewOverlay(m, opts...).Set(ctx)
}

// NewOverlay prepares an overlay for m without fetching anything yet.
func (s *Service) NewOverlay(m MapHandle, opts ...Option) *Overlay {
	o := &Overlay{
		svc: s,
		m:   m,
		opts: overlayOptions{
			key:    DefaultKey,
			window: DefaultWindow,
		},
	}
	for _, opt := range opts {
		opt(&o.opts)
	}
	return o
}

func windowOrDefault(w time.Duration) time.Duration {
	if w <= 0 {
		return DefaultWindow
	}
	return w
}

// Option configures an Overlay.
type Option func(*overlayOptions)

type overlayOptions struct {
	key         string
	beforeLayer string
	window      time.Duration
}

// WithKey sets the source and layer id.
func WithKey(key string) Option {
	return func(o *overlayOptions) {
		if key != "" {
			o.key = key
		}
	}
}

// WithBeforeLayer stacks the radar layer below beforeLayer.
func WithBeforeLayer(beforeLayer string) Option {
	return func(o *overlayOptions) { o.beforeLayer = beforeLayer }
}

// WithWindow sets the eligibility window.
func WithWindow(d time.Duration) Option {
	return func(o *overlayOptions) {
		if d > 0 {
			o.window = d
		}
	}
}

// Overlay is one radar overlay bound to a host map.
type Overlay struct {
	svc  *Service
	m    MapHandle
	opts overlayOptions

	mu       sync.Mutex
	cancel   context.CancelFunc
	detached bool
	toggle   *Toggle
}

// Key returns the source and layer id.
func (o *Overlay) Key() string { return o.opts.key }

// Toggle returns the mounted toggle, or nil before a successful Set.
func (o *Overlay) Toggle() *Toggle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.toggle
}

// Set fetches the feed and registers the overlay. If Detach runs while the
// fetch is in flight the result is dropped and ErrDetached is returned.
func (o *Overlay) Set(ctx context.Context) (*Toggle, error) {
	if isNilHandle(o.m) {
		return nil, fmt.Errorf("%w: overlay without a map handle", ErrLifecycleMisuse)
	}

	o.mu.Lock()
	if o.detached {
		o.mu.Unlock()
		return nil, ErrDetached
	}
	if o.toggle != nil || o.cancel != nil {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: overlay %q already set", ErrLifecycleMisuse, o.opts.key)
	}
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mu.Unlock()
	defer cancel()

	sel, err := o.svc.Current(ctx, o.opts.window)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancel = nil

	if o.detached {
		log.Printf("INFO: overlay %q detached during feed fetch; discarding result", o.opts.key)
		return nil, ErrDetached
	}
	if err != nil {
		return nil, err
	}

	if err := o.m.AddSource(o.opts.key, sel.Source); err != nil {
		return nil, fmt.Errorf("add source %q: %w", o.opts.key, err)
	}

	layer := sel.Layer
	layer.ID = o.opts.key
	layer.Source = o.opts.key
	if err := o.m.AddLayer(layer, o.opts.beforeLayer); err != nil {
		o.rollback(false)
		return nil, fmt.Errorf("add layer %q: %w", o.opts.key, err)
	}

	t := NewToggle(o.opts.key)
	if err := o.m.AddControl(t); err != nil {
		o.rollback(true)
		return nil, fmt.Errorf("add control for %q: %w", o.opts.key, err)
	}

	o.toggle = t
	return t, nil
}

// rollback unregisters what Set added before a later step failed. Maps that
// cannot remove sources or layers keep them.
func (o *Overlay) rollback(layerAdded bool) {
	r, ok := o.m.(StyleRemover)
	if !ok {
		log.Printf("INFO: map cannot remove overlay %q; leaving partial registration", o.opts.key)
		return
	}
	if layerAdded {
		if err := r.RemoveLayer(o.opts.key); err != nil {
			log.Printf("ERROR: rollback layer %q: %v", o.opts.key, err)
		}
	}
	if err := r.RemoveSource(o.opts.key); err != nil {
		log.Printf("ERROR: rollback source %q: %v", o.opts.key, err)
	}
}

// Detach cancels an in-flight Set and unmounts the toggle if one was mounted.
func (o *Overlay) Detach() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.detached {
		return fmt.Errorf("%w: overlay %q already detached", ErrLifecycleMisuse, o.opts.key)
	}
	o.detached = true

	if o.cancel != nil {
		o.cancel()
	}
	if o.toggle != nil {
		return o.m.RemoveControl(o.toggle)
	}
	return nil
}
