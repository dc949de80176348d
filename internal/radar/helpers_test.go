package radar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var baseNow = time.Date(2025, 7, 1, 3, 0, 0, 0, time.UTC)

func snap(t *testing.T, base, valid time.Time) Snapshot {
	t.Helper()
	return Snapshot{BaseTime: NewTimestamp(base), ValidTime: NewTimestamp(valid)}
}

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// fakeFeed returns a canned feed or error. When gate is set it blocks until
// the gate closes or ctx is done.
type fakeFeed struct {
	feed  Feed
	err   error
	gate  chan struct{}
	calls int
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) FetchTargetTimes(ctx context.Context) (Feed, error) {
	f.calls++
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.feed, f.err
}

// fakeMap records calls made through MapHandle.
type fakeMap struct {
	mu        sync.Mutex
	sources   map[string]SourceDescriptor
	layers    []LayerDescriptor
	befores   []string
	controls  []Control
	layout    map[string]any
	failSetOn string
}

func newFakeMap() *fakeMap {
	return &fakeMap{
		sources: make(map[string]SourceDescriptor),
		layout:  make(map[string]any),
	}
}

func (m *fakeMap) AddSource(key string, s SourceDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[key] = s
	return nil
}

func (m *fakeMap) AddLayer(l LayerDescriptor, before string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = append(m.layers, l)
	m.befores = append(m.befores, before)
	return nil
}

func (m *fakeMap) AddControl(c Control) error {
	if _, err := c.Attach(m); err != nil {
		return err
	}
	m.mu.Lock()
	m.controls = append(m.controls, c)
	m.mu.Unlock()
	return nil
}

func (m *fakeMap) RemoveControl(c Control) error {
	m.mu.Lock()
	for i, cc := range m.controls {
		if cc == c {
			m.controls = append(m.controls[:i], m.controls[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	return c.Detach()
}

func (m *fakeMap) SetLayoutProperty(layer, name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if layer == m.failSetOn {
		return errors.New("layer rejected")
	}
	m.layout[layer+"."+name] = value
	return nil
}

func (m *fakeMap) visibility(layer string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout[layer+".visibility"]
}

func (m *fakeMap) registrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources) + len(m.layers) + len(m.controls)
}
