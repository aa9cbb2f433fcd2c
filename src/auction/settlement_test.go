package auction

import (
	"errors"
	"testing"
)

func TestSettleAppliesBalanceDeltas(t *testing.T) {
	book := mustBook(t, []Participant{
		{ID: 0, Role: RoleBuy, Price: 100, Quantity: 50, InCoin: 10000},
		{ID: 1, Role: RoleBuy, Price: 90, Quantity: 50, InCoin: 10000},
		{ID: 2, Role: RoleSell, Price: 80, Quantity: 60, InEnergy: 100},
		{ID: 3, Role: RoleSell, Price: 95, Quantity: 40, InEnergy: 100},
	})

	result, allocations, err := UniformPrice{}.Match(book)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	settlement, err := Settle(book, result, allocations)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// buyer 0: pays 50*80, receives 50 energy
	if coin, energy := settlement.OutBalances(0); coin != 6000 || energy != 50 {
		t.Errorf("Buyer 0: expected (6000, 50), got (%d, %d)", coin, energy)
	}
	// buyer 1: pays 10*80, receives 10 energy
	if coin, energy := settlement.OutBalances(1); coin != 9200 || energy != 10 {
		t.Errorf("Buyer 1: expected (9200, 10), got (%d, %d)", coin, energy)
	}
	// seller 2: receives 60*80, gives 60 energy
	if coin, energy := settlement.OutBalances(2); coin != 4800 || energy != 40 {
		t.Errorf("Seller 2: expected (4800, 40), got (%d, %d)", coin, energy)
	}
	// seller 3: unmatched, unchanged
	if coin, energy := settlement.OutBalances(3); coin != 0 || energy != 100 {
		t.Errorf("Seller 3: expected (0, 100), got (%d, %d)", coin, energy)
	}
}

func TestSettleNoMatchPassesBalancesThrough(t *testing.T) {
	book := mustBook(t, []Participant{
		{ID: 0, Role: RoleBuy, Price: 40, Quantity: 10, InCoin: 1234},
		{ID: 1, Role: RoleSell, Price: 60, Quantity: 10, InEnergy: 77},
	})

	settlement, err := Settle(book, ClearingResult{}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if coin, energy := settlement.OutBalances(0); coin != 1234 || energy != 0 {
		t.Errorf("Participant 0: expected input balances (1234, 0), got (%d, %d)", coin, energy)
	}
	if coin, energy := settlement.OutBalances(1); coin != 0 || energy != 77 {
		t.Errorf("Participant 1: expected input balances (0, 77), got (%d, %d)", coin, energy)
	}
}

func TestSettleRejectsUnaffordableBuyerFill(t *testing.T) {
	book := mustBook(t, []Participant{
		{ID: 0, Role: RoleBuy, Price: 100, Quantity: 50, InCoin: 100},
		{ID: 1, Role: RoleSell, Price: 80, Quantity: 50, InEnergy: 50},
	})

	// hand-crafted allocation the buyer's coin cannot cover
	_, err := Settle(book, ClearingResult{Price: 80, Cleared: 50}, []Allocation{
		{ID: 0, Quantity: 50},
		{ID: 1, Quantity: 50},
	})
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("Expected ErrInfeasible, got: %v", err)
	}
}

func TestSettleRejectsOverdrawnSellerFill(t *testing.T) {
	book := mustBook(t, []Participant{
		{ID: 0, Role: RoleBuy, Price: 100, Quantity: 50, InCoin: 10000},
		{ID: 1, Role: RoleSell, Price: 80, Quantity: 50, InEnergy: 10},
	})

	_, err := Settle(book, ClearingResult{Price: 80, Cleared: 50}, []Allocation{
		{ID: 0, Quantity: 50},
		{ID: 1, Quantity: 50},
	})
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("Expected ErrInfeasible, got: %v", err)
	}
}

func TestSettleConservesTotals(t *testing.T) {
	participants := []Participant{
		{ID: 0, Role: RoleBuy, Price: 100, Quantity: 50, InCoin: 10000},
		{ID: 1, Role: RoleBuy, Price: 90, Quantity: 50, InCoin: 10000},
		{ID: 2, Role: RoleSell, Price: 80, Quantity: 60, InEnergy: 100},
		{ID: 3, Role: RoleSell, Price: 95, Quantity: 40, InEnergy: 100},
	}
	book := mustBook(t, participants)

	result, allocations, err := UniformPrice{}.Match(book)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	settlement, err := Settle(book, result, allocations)
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	var inCoin, inEnergy, outCoin, outEnergy uint64
	for _, p := range participants {
		inCoin += p.InCoin
		inEnergy += p.InEnergy
		coin, energy := settlement.OutBalances(p.ID)
		outCoin += coin
		outEnergy += energy
	}

	if inCoin != outCoin {
		t.Errorf("Coin not conserved: %d in, %d out", inCoin, outCoin)
	}
	if inEnergy != outEnergy {
		t.Errorf("Energy not conserved: %d in, %d out", inEnergy, outEnergy)
	}
	if inCoin != 20000 || inEnergy != 200 {
		t.Errorf("Unexpected totals: coin %d, energy %d", inCoin, inEnergy)
	}
}
