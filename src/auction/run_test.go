package auction

import (
	"bytes"
	"testing"
)

func TestRunFullPipeline(t *testing.T) {
	outcome, err := Run([]Participant{
		{ID: 0, Role: RoleBuy, Price: 100, Quantity: 50, InCoin: 10000},
		{ID: 1, Role: RoleBuy, Price: 90, Quantity: 50, InCoin: 10000},
		{ID: 2, Role: RoleSell, Price: 80, Quantity: 60, InEnergy: 100},
		{ID: 3, Role: RoleSell, Price: 95, Quantity: 40, InEnergy: 100},
	}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if outcome.Result.Price != 80 || outcome.Result.Cleared != 60 {
		t.Errorf("Expected clearing (80, 60), got (%d, %d)",
			outcome.Result.Price, outcome.Result.Cleared)
	}
	if outcome.Journal.Size() != 4 {
		t.Errorf("Expected journal size 4, got %d", outcome.Journal.Size())
	}
}

func TestRunDeterministicAcrossInputOrder(t *testing.T) {
	base := []Participant{
		{ID: 0, Role: RoleBuy, Price: 100, Quantity: 50, InCoin: 10000},
		{ID: 1, Role: RoleBuy, Price: 90, Quantity: 50, InCoin: 10000},
		{ID: 2, Role: RoleSell, Price: 80, Quantity: 60, InEnergy: 100},
		{ID: 3, Role: RoleSell, Price: 95, Quantity: 40, InEnergy: 100},
	}
	permutations := [][]Participant{
		{base[0], base[1], base[2], base[3]},
		{base[3], base[2], base[1], base[0]},
		{base[1], base[3], base[0], base[2]},
	}

	var reference []byte
	for i, participants := range permutations {
		outcome, err := Run(participants, nil)
		if err != nil {
			t.Fatalf("Permutation %d failed: %v", i, err)
		}
		encoded := outcome.Journal.Encode()
		if reference == nil {
			reference = encoded
			continue
		}
		if !bytes.Equal(reference, encoded) {
			t.Errorf("Permutation %d produced a different journal encoding", i)
		}
	}
}

func TestRunRepeatedInvocationsAreByteIdentical(t *testing.T) {
	participants := []Participant{
		{ID: 0, Role: RoleBuy, Price: 70, Quantity: 30, InCoin: 5000},
		{ID: 1, Role: RoleSell, Price: 65, Quantity: 30, InEnergy: 30},
		{ID: 2, Role: RoleSell, Price: 70, Quantity: 10, InEnergy: 10},
	}

	first, err := Run(participants, nil)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Run(participants, nil)
		if err != nil {
			t.Fatalf("Run %d failed: %v", i, err)
		}
		if again.Journal.Digest() != first.Journal.Digest() {
			t.Fatalf("Run %d diverged from the first run", i)
		}
	}
}

func TestRunEmptyInput(t *testing.T) {
	outcome, err := Run(nil, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got: %v", err)
	}
	if outcome.Result.Cleared != 0 || outcome.Journal.Size() != 0 {
		t.Errorf("Expected empty no-match outcome, got %+v", outcome.Result)
	}
}

// fixedPricePolicy posts one price and fills nothing, exercising the policy
// seam without the uniform-price mechanism.
type fixedPricePolicy struct {
	price uint64
}

func (p fixedPricePolicy) Match(book *Book) (ClearingResult, []Allocation, error) {
	return ClearingResult{Price: p.price, Cleared: 0}, nil, nil
}

func TestRunWithAlternatePolicy(t *testing.T) {
	outcome, err := Run([]Participant{
		{ID: 0, Role: RoleBuy, Price: 100, Quantity: 50, InCoin: 10000},
		{ID: 1, Role: RoleSell, Price: 80, Quantity: 60, InEnergy: 100},
	}, fixedPricePolicy{price: 90})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if outcome.Result.Price != 90 || outcome.Result.Cleared != 0 {
		t.Errorf("Expected posted-price no-fill result, got %+v", outcome.Result)
	}
	// balances pass through untouched
	if outcome.Journal.OutCoin[0] != 10000 || outcome.Journal.OutEnergy[1] != 100 {
		t.Error("Expected pass-through balances under no-fill policy")
	}
}
