package store

import (
	"sync"
	"testing"

	"auction-engine/src/auction"
)

func TestPutAssignsIDAndGetReturnsRun(t *testing.T) {
	s := NewRunStore()

	run := s.Put(&Run{
		ScenarioName:     "example",
		ParticipantCount: 4,
		ClearingPrice:    80,
		ClearedQuantity:  60,
		Journal:          &auction.Journal{},
		Digest:           "abc",
	})

	if run.ID == "" {
		t.Fatal("Expected Put to assign a run id")
	}
	if run.SettledAt.IsZero() {
		t.Error("Expected Put to stamp SettledAt")
	}

	got, exists := s.Get(run.ID)
	if !exists {
		t.Fatal("Expected stored run to be retrievable")
	}
	if got.ClearingPrice != 80 || got.ClearedQuantity != 60 {
		t.Errorf("Stored run changed: %+v", got)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := NewRunStore()
	if _, exists := s.Get("nope"); exists {
		t.Error("Expected lookup miss for unknown id")
	}
}

func TestConcurrentPuts(t *testing.T) {
	s := NewRunStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Put(&Run{ScenarioName: "concurrent"})
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("Expected 50 stored runs, got %d", s.Len())
	}
}
