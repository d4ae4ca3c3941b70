package metrics

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity bounds the in-memory metric history.
const DefaultCapacity = 2000

// Store holds recent metrics in memory.
// When capacity is exceeded the oldest records are dropped.
type Store struct {
	mu       sync.RWMutex
	capacity int
	metrics  []Metric // oldest first; List iterates newest first
}

// NewStore creates a store with the given capacity.
// Zero or negative capacity uses DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		metrics:  make([]Metric, 0, capacity),
	}
}

// Filter specifies query filters.
type Filter struct {
	AnalysisID string
	Stage      string
	Provider   string
	Model      string
	After      time.Time
	Before     time.Time
	Success    *bool // nil = any, true = success only, false = errors only
}

// Add stores a metric and returns its assigned ID.
func (s *Store) Add(m Metric) string {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.metrics) == s.capacity {
		copy(s.metrics, s.metrics[1:])
		s.metrics = s.metrics[:len(s.metrics)-1]
	}
	s.metrics = append(s.metrics, m)
	return m.ID
}

// List returns metrics matching the filter, newest first.
// A limit of 0 returns all matches.
func (s *Store) List(f Filter, limit int) []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Metric, 0)
	for i := len(s.metrics) - 1; i >= 0; i-- {
		if limit > 0 && len(matched) >= limit {
			break
		}
		if matchesFilter(s.metrics[i], f) {
			matched = append(matched, s.metrics[i])
		}
	}
	return matched
}

// Len returns the number of stored metrics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.metrics)
}

func matchesFilter(m Metric, f Filter) bool {
	if f.AnalysisID != "" && m.AnalysisID != f.AnalysisID {
		return false
	}
	if f.Stage != "" && m.Stage != f.Stage {
		return false
	}
	if f.Provider != "" && m.Provider != f.Provider {
		return false
	}
	if f.Model != "" && m.Model != f.Model {
		return false
	}
	if f.Success != nil && m.Success != *f.Success {
		return false
	}
	if !f.After.IsZero() && !m.CreatedAt.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !m.CreatedAt.Before(f.Before) {
		return false
	}
	return true
}
