package auction

// Settlement carries every participant's output balances, indexed by
// participant id. Unmatched participants keep their input balances.
type Settlement struct {
	outCoin   []uint64
	outEnergy []uint64
}

// OutBalances returns the settled (coin, energy) pair for one participant.
func (s *Settlement) OutBalances(id uint32) (uint64, uint64) {
	return s.outCoin[id], s.outEnergy[id]
}

// Settle applies the allocation vector to the book at the clearing price.
// Matched buyers pay quantity x price in coin and receive the quantity in
// energy; matched sellers the reverse. Feasibility is re-checked per
// participant even though the policy already clamped, because an allocation
// a balance cannot cover would silently destroy value. Conservation over
// the whole set is verified as a postcondition and its failure is reported
// as an internal defect, distinct from any input problem.
func Settle(book *Book, result ClearingResult, allocations []Allocation) (*Settlement, error) {
	n := book.Size()

	byID := make([]*Participant, n)
	for i := range book.Buys {
		byID[book.Buys[i].ID] = &book.Buys[i]
	}
	for i := range book.Sells {
		byID[book.Sells[i].ID] = &book.Sells[i]
	}

	settlement := &Settlement{
		outCoin:   make([]uint64, n),
		outEnergy: make([]uint64, n),
	}
	for id, p := range byID {
		settlement.outCoin[id] = p.InCoin
		settlement.outEnergy[id] = p.InEnergy
	}

	for _, alloc := range allocations {
		p := byID[alloc.ID]

		cost, err := checkedMul(alloc.Quantity, result.Price)
		if err != nil {
			return nil, err
		}

		if p.Role == RoleBuy {
			if cost > p.InCoin {
				return nil, infeasiblef("buyer %d: cost %d exceeds coin balance %d", p.ID, cost, p.InCoin)
			}
			settlement.outCoin[p.ID] = p.InCoin - cost
			if settlement.outEnergy[p.ID], err = checkedAdd(p.InEnergy, alloc.Quantity); err != nil {
				return nil, err
			}
		} else {
			if alloc.Quantity > p.InEnergy {
				return nil, infeasiblef("seller %d: fill %d exceeds energy balance %d", p.ID, alloc.Quantity, p.InEnergy)
			}
			settlement.outEnergy[p.ID] = p.InEnergy - alloc.Quantity
			if settlement.outCoin[p.ID], err = checkedAdd(p.InCoin, cost); err != nil {
				return nil, err
			}
		}
	}

	if err := verifyConservation(byID, settlement); err != nil {
		return nil, err
	}

	return settlement, nil
}

func verifyConservation(byID []*Participant, settlement *Settlement) error {
	var inCoin, inEnergy, outCoin, outEnergy uint64
	var err error

	for id, p := range byID {
		if inCoin, err = checkedAdd(inCoin, p.InCoin); err != nil {
			return err
		}
		if inEnergy, err = checkedAdd(inEnergy, p.InEnergy); err != nil {
			return err
		}
		if outCoin, err = checkedAdd(outCoin, settlement.outCoin[id]); err != nil {
			return err
		}
		if outEnergy, err = checkedAdd(outEnergy, settlement.outEnergy[id]); err != nil {
			return err
		}
	}

	if inCoin != outCoin {
		return conservationf("coin total changed: %d in, %d out", inCoin, outCoin)
	}
	if inEnergy != outEnergy {
		return conservationf("energy total changed: %d in, %d out", inEnergy, outEnergy)
	}
	return nil
}
