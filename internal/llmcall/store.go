package llmcall

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the in-memory call history.
const DefaultCapacity = 1000

// Store holds recent LLM call records in memory.
// When capacity is exceeded the oldest records are dropped.
type Store struct {
	mu       sync.RWMutex
	capacity int
	calls    []Call // oldest first; List iterates newest first
}

// NewStore creates a store with the given capacity.
// Zero or negative capacity uses DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		calls:    make([]Call, 0, capacity),
	}
}

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	AnalysisID string
	Stage      string
	PromptKey  string
	Provider   string
	Model      string
	After      *time.Time
	Before     *time.Time
	Success    *bool
	Limit      int
	Offset     int
}

// Add records a call. Nil calls are ignored.
func (s *Store) Add(call *Call) {
	if call == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) == s.capacity {
		copy(s.calls, s.calls[1:])
		s.calls = s.calls[:len(s.calls)-1]
	}
	s.calls = append(s.calls, *call)
}

// Get retrieves a single call by ID. Returns nil if not found.
func (s *Store) Get(id string) *Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.calls {
		if s.calls[i].ID == id {
			c := s.calls[i]
			return &c
		}
	}
	return nil
}

// List retrieves calls matching the filter, newest first.
func (s *Store) List(filter QueryFilter) []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Call, 0)
	for i := len(s.calls) - 1; i >= 0; i-- {
		if matches(s.calls[i], filter) {
			matched = append(matched, s.calls[i])
		}
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []Call{}
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched
}

// CountByStage returns call counts grouped by pipeline stage.
// An empty analysisID counts across all analyses.
func (s *Store) CountByStage(analysisID string) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for i := range s.calls {
		if analysisID != "" && s.calls[i].AnalysisID != analysisID {
			continue
		}
		counts[s.calls[i].Stage]++
	}
	return counts
}

// Len returns the number of stored calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

func matches(c Call, filter QueryFilter) bool {
	if filter.AnalysisID != "" && c.AnalysisID != filter.AnalysisID {
		return false
	}
	if filter.Stage != "" && c.Stage != filter.Stage {
		return false
	}
	if filter.PromptKey != "" && c.PromptKey != filter.PromptKey {
		return false
	}
	if filter.Provider != "" && c.Provider != filter.Provider {
		return false
	}
	if filter.Model != "" && c.Model != filter.Model {
		return false
	}
	if filter.Success != nil && c.Success != *filter.Success {
		return false
	}
	if filter.After != nil && !c.Timestamp.After(*filter.After) {
		return false
	}
	if filter.Before != nil && !c.Timestamp.Before(*filter.Before) {
		return false
	}
	return true
}
