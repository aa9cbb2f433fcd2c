package auction

import (
	"github.com/google/btree"
)

// ClearingResult is the single price/quantity pair produced once per
// auction. A zero Cleared with a zero Price is the no-match result, not an
// error.
type ClearingResult struct {
	Price   uint64
	Cleared uint64
}

// Allocation is one participant's traded volume at the clearing price.
type Allocation struct {
	ID       uint32
	Quantity uint64
}

// MatchingPolicy turns a canonical book into a clearing result and an
// allocation vector. Canonicalizer and JournalBuilder are protocol-mandated
// and never vary; the mechanism in between is swappable (second-price,
// posted-price, Dutch descent) behind this interface.
type MatchingPolicy interface {
	Match(book *Book) (ClearingResult, []Allocation, error)
}

// priceLevel aggregates declared quantity on both sides at one price.
// Only prices declared by some participant are candidates: under integer
// pricing the demand/supply crossing cannot fall between levels.
type priceLevel struct {
	Price        uint64
	BuyQuantity  uint64
	SellQuantity uint64
}

type priceLevelItem struct {
	Level *priceLevel
}

func (p *priceLevelItem) Less(than btree.Item) bool {
	other := than.(*priceLevelItem)
	return p.Level.Price < other.Level.Price
}

// UniformPrice is the default policy: a uniform-price double auction that
// clears at the declared price maximizing matched volume, taking the lowest
// such price on ties (favors buyers), then clamps each side's fills to what
// balances can cover.
type UniformPrice struct{}

func (UniformPrice) Match(book *Book) (ClearingResult, []Allocation, error) {
	// edge case: an empty side means no trade, never a failure
	if len(book.Buys) == 0 || len(book.Sells) == 0 {
		return ClearingResult{}, nil, nil
	}

	grid, totalDemand, err := buildPriceGrid(book)
	if err != nil {
		return ClearingResult{}, nil, err
	}

	result, err := scanCrossing(grid, totalDemand)
	if err != nil {
		return ClearingResult{}, nil, err
	}

	// edge case: a zero clearing price cannot bind buyer budgets, treat as
	// no market
	if result.Cleared == 0 || result.Price == 0 {
		return ClearingResult{}, nil, nil
	}

	return allocate(book, result)
}

// buildPriceGrid folds both sides into one ascending tree of price levels
// and returns it with the total declared demand.
func buildPriceGrid(book *Book) (*btree.BTree, uint64, error) {
	grid := btree.New(32)

	levelAt := func(price uint64) *priceLevel {
		probe := &priceLevelItem{Level: &priceLevel{Price: price}}
		if existing := grid.Get(probe); existing != nil {
			return existing.(*priceLevelItem).Level
		}
		level := &priceLevel{Price: price}
		grid.ReplaceOrInsert(&priceLevelItem{Level: level})
		return level
	}

	var totalDemand uint64
	var err error

	for _, buyer := range book.Buys {
		level := levelAt(buyer.Price)
		if level.BuyQuantity, err = checkedAdd(level.BuyQuantity, buyer.Quantity); err != nil {
			return nil, 0, err
		}
		if totalDemand, err = checkedAdd(totalDemand, buyer.Quantity); err != nil {
			return nil, 0, err
		}
	}

	for _, seller := range book.Sells {
		level := levelAt(seller.Price)
		if level.SellQuantity, err = checkedAdd(level.SellQuantity, seller.Quantity); err != nil {
			return nil, 0, err
		}
	}

	return grid, totalDemand, nil
}

// scanCrossing walks the grid ascending. At each candidate price p, demand
// is the quantity of buyers bidding >= p and supply the quantity of sellers
// asking <= p; the feasible volume is their minimum. Ascending order plus a
// strictly-greater update makes the lowest price win equal-volume ties.
func scanCrossing(grid *btree.BTree, totalDemand uint64) (ClearingResult, error) {
	var best ClearingResult
	var demandBelow uint64 // declared buy quantity at prices strictly below the cursor
	var supplyUpTo uint64  // declared sell quantity at prices up to and including the cursor
	var scanErr error

	grid.Ascend(func(item btree.Item) bool {
		level := item.(*priceLevelItem).Level

		supplyUpTo, scanErr = checkedAdd(supplyUpTo, level.SellQuantity)
		if scanErr != nil {
			return false
		}

		demand := totalDemand - demandBelow
		cleared := demand
		if supplyUpTo < cleared {
			cleared = supplyUpTo
		}

		if cleared > best.Cleared {
			best = ClearingResult{Price: level.Price, Cleared: cleared}
		}

		demandBelow, scanErr = checkedAdd(demandBelow, level.BuyQuantity)
		return scanErr == nil
	})

	if scanErr != nil {
		return ClearingResult{}, scanErr
	}
	return best, nil
}

// allocate clamps the crossing volume to what balances can cover and fills
// each side greedily in canonical order. A buyer's cap is the smaller of
// its declared quantity and in_coin / price; a seller's is the smaller of
// its declared quantity and in_energy. Both sides always fill the same
// total, so settlement conserves by construction.
func allocate(book *Book, crossing ClearingResult) (ClearingResult, []Allocation, error) {
	buyCaps := make([]uint64, len(book.Buys))
	sellCaps := make([]uint64, len(book.Sells))

	var effectiveDemand, effectiveSupply uint64
	var err error

	for i, buyer := range book.Buys {
		if buyer.Price < crossing.Price {
			continue
		}
		limit := buyer.Quantity
		if afford := buyer.InCoin / crossing.Price; afford < limit {
			limit = afford
		}
		buyCaps[i] = limit
		if effectiveDemand, err = checkedAdd(effectiveDemand, limit); err != nil {
			return ClearingResult{}, nil, err
		}
	}

	for i, seller := range book.Sells {
		if seller.Price > crossing.Price {
			continue
		}
		limit := seller.Quantity
		if seller.InEnergy < limit {
			limit = seller.InEnergy
		}
		sellCaps[i] = limit
		if effectiveSupply, err = checkedAdd(effectiveSupply, limit); err != nil {
			return ClearingResult{}, nil, err
		}
	}

	traded := crossing.Cleared
	if effectiveDemand < traded {
		traded = effectiveDemand
	}
	if effectiveSupply < traded {
		traded = effectiveSupply
	}

	if traded == 0 {
		return ClearingResult{Price: crossing.Price, Cleared: 0}, nil, nil
	}

	allocations := make([]Allocation, 0, len(buyCaps)+len(sellCaps))

	for side, caps := range [][]uint64{buyCaps, sellCaps} {
		remaining := traded
		for i, limit := range caps {
			if remaining == 0 {
				break
			}
			take := limit
			if take > remaining {
				take = remaining
			}
			if take == 0 {
				continue
			}
			var id uint32
			if side == 0 {
				id = book.Buys[i].ID
			} else {
				id = book.Sells[i].ID
			}
			allocations = append(allocations, Allocation{ID: id, Quantity: take})
			remaining -= take
		}
	}

	return ClearingResult{Price: crossing.Price, Cleared: traded}, allocations, nil
}
