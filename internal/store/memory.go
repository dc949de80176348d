package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/radar-overlay/internal/radar"
)

var (
	// ErrNotFound is returned when no probes are recorded for the requested range.
	ErrNotFound = errors.New("no radar probes recorded")
)

// MemoryStore is a concurrency-safe in-memory probe history.
type MemoryStore struct {
	mu     sync.RWMutex
	probes []radar.Probe // ordered by CheckedAt as saved

	// retention configuration
	maxHistory int           // max number of probes kept
	maxAge     time.Duration // optional max age for probes
	now        func() time.Time
}

var _ radar.History = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a probe and enforces retention.
func (s *MemoryStore) Save(p radar.Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.probes = append(s.probes, p)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.probes) > s.maxHistory {
		over := len(s.probes) - s.maxHistory
		s.probes = s.probes[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.probes); i++ {
			if !s.probes[i].CheckedAt.Before(cutoff) {
				break
			}
		}
		s.probes = s.probes[i:]
	}
}

// Latest returns the most recent probe.
func (s *MemoryStore) Latest() (radar.Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.probes) == 0 {
		return radar.Probe{}, ErrNotFound
	}
	return s.probes[len(s.probes)-1], nil
}

// Range returns all probes checked between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]radar.Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []radar.Probe
	for _, p := range s.probes {
		if !p.CheckedAt.Before(from) && !p.CheckedAt.After(to) {
			result = append(result, p)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Len returns the number of retained probes.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.probes)
}
