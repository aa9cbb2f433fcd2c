package auction

type Role uint32

const (
	RoleBuy  Role = 0
	RoleSell Role = 1
)

func (r Role) String() string {
	switch r {
	case RoleBuy:
		return "BUY"
	case RoleSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Participant is an input-only record: constructed by the caller, never
// mutated by the engine. Prices and quantities are exact unsigned integers;
// there is deliberately no floating-point anywhere in this package.
type Participant struct {
	ID       uint32
	Role     Role
	Price    uint64 // bid ceiling for buyers, ask floor for sellers
	Quantity uint64
	InCoin   uint64
	InEnergy uint64
}

// validateParticipants rejects malformed input before any computation:
// roles outside {BUY, SELL} and ids that are not dense and unique over
// 0..N-1.
func validateParticipants(participants []Participant) error {
	n := len(participants)
	seen := make([]bool, n)

	for _, p := range participants {
		if p.Role != RoleBuy && p.Role != RoleSell {
			return malformedf("participant %d: role %d is not BUY or SELL", p.ID, uint32(p.Role))
		}
		if int(p.ID) >= n {
			return malformedf("participant id %d out of range for %d participants", p.ID, n)
		}
		if seen[p.ID] {
			return malformedf("duplicate participant id %d", p.ID)
		}
		seen[p.ID] = true
	}

	return nil
}
