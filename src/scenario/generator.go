package scenario

import (
	"fmt"
	"math/rand"
)

// Generate produces a well-formed scenario with n participants from a fixed
// seed: even ids buy, odd ids sell, prices drawn from overlapping bands so
// books usually cross, balances sized to afford the declared trade. The
// same (n, seed) pair always yields the same scenario.
func Generate(n int, seed int64) *Scenario {
	rng := rand.New(rand.NewSource(seed))

	participants := make([]ParticipantRecord, 0, n)
	for id := 0; id < n; id++ {
		quantity := uint64(rng.Intn(90) + 10)

		if id%2 == 0 {
			price := uint64(rng.Intn(60) + 70) // bids 70..129
			participants = append(participants, ParticipantRecord{
				ID:       uint32(id),
				Role:     0,
				Price:    price,
				Quantity: quantity,
				InCoin:   price * quantity,
				InEnergy: 0,
			})
		} else {
			price := uint64(rng.Intn(60) + 50) // asks 50..109
			participants = append(participants, ParticipantRecord{
				ID:       uint32(id),
				Role:     1,
				Price:    price,
				Quantity: quantity,
				InCoin:   0,
				InEnergy: quantity,
			})
		}
	}

	return &Scenario{
		ScenarioName: fmt.Sprintf("generated_N%d_seed%d", n, seed),
		Description:  fmt.Sprintf("generated double auction with %d participants", n),
		Participants: participants,
	}
}
