package auction

import "sort"

// Book holds the canonical view of one auction's participants: buyers by
// descending price then ascending id, sellers by ascending price then
// ascending id. This order is both the output contract and the scan order
// of the clearing and allocation walks, so it must be identical on every
// invocation, not merely the same multiset.
type Book struct {
	Buys  []Participant
	Sells []Participant
}

// BuildBook validates the raw participant list and partitions it into the
// two canonical sequences. An empty side is valid; a role outside
// {BUY, SELL} or a non-dense id set is a malformed-input error.
func BuildBook(participants []Participant) (*Book, error) {
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}

	book := &Book{
		Buys:  make([]Participant, 0, len(participants)),
		Sells: make([]Participant, 0, len(participants)),
	}

	for _, p := range participants {
		if p.Role == RoleBuy {
			book.Buys = append(book.Buys, p)
		} else {
			book.Sells = append(book.Sells, p)
		}
	}

	sort.Slice(book.Buys, func(i, j int) bool {
		if book.Buys[i].Price != book.Buys[j].Price {
			return book.Buys[i].Price > book.Buys[j].Price
		}
		return book.Buys[i].ID < book.Buys[j].ID
	})

	sort.Slice(book.Sells, func(i, j int) bool {
		if book.Sells[i].Price != book.Sells[j].Price {
			return book.Sells[i].Price < book.Sells[j].Price
		}
		return book.Sells[i].ID < book.Sells[j].ID
	})

	return book, nil
}

// Size returns the total participant count across both sides.
func (b *Book) Size() int {
	return len(b.Buys) + len(b.Sells)
}
