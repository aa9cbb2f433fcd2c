// Package store keeps settled auction runs in memory for the HTTP surface.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"auction-engine/src/auction"
)

// Run is one settled auction kept for later retrieval.
type Run struct {
	ID               string
	ScenarioName     string
	ParticipantCount int
	ClearingPrice    uint64
	ClearedQuantity  uint64
	Journal          *auction.Journal
	Digest           string
	SettleDuration   time.Duration
	SettledAt        time.Time
}

type RunStore struct {
	runs map[string]*Run
	mu   sync.RWMutex
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*Run),
	}
}

// Put stores a settled run under a fresh id and returns it.
func (s *RunStore) Put(run *Run) *Run {
	run.ID = uuid.New().String()
	run.SettledAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return run
}

func (s *RunStore) Get(id string) (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, exists := s.runs[id]
	return run, exists
}

func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
