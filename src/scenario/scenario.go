// Package scenario handles auction input files and journal output files.
// The on-disk shapes match the external harness contract; the core engine
// never touches this package.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"auction-engine/src/auction"
)

// ParticipantRecord mirrors the wire shape of one participant.
type ParticipantRecord struct {
	ID       uint32 `json:"id"`
	Role     uint32 `json:"role"` // 0=BUY, 1=SELL
	Price    uint64 `json:"price"`
	Quantity uint64 `json:"quantity"`
	InCoin   uint64 `json:"in_coin"`
	InEnergy uint64 `json:"in_energy"`
}

// Scenario is one auction input file.
type Scenario struct {
	ScenarioName string              `json:"scenario_name"`
	Description  string              `json:"description"`
	Participants []ParticipantRecord `json:"participants"`
}

// EngineParticipants converts the wire records into engine participants.
func (s *Scenario) EngineParticipants() []auction.Participant {
	participants := make([]auction.Participant, 0, len(s.Participants))
	for _, r := range s.Participants {
		participants = append(participants, auction.Participant{
			ID:       r.ID,
			Role:     auction.Role(r.Role),
			Price:    r.Price,
			Quantity: r.Quantity,
			InCoin:   r.InCoin,
			InEnergy: r.InEnergy,
		})
	}
	return participants
}

// Load reads and decodes a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	return &s, nil
}

// Save writes a scenario as indented JSON.
func (s *Scenario) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write scenario %s: %w", path, err)
	}
	return nil
}

// WriteJournal writes the settled journal as indented JSON for the
// downstream verifier.
func WriteJournal(path string, journal *auction.Journal) error {
	data, err := json.MarshalIndent(journal, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write journal %s: %w", path, err)
	}
	return nil
}
