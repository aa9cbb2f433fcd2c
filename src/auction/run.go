// Package auction computes the settlement of a two-sided double auction:
// canonical ordering, clearing, balance settlement, and the public journal.
//
// The package is a pure computation. It performs no I/O, reads no clock or
// randomness, and holds no state across invocations; identical input always
// produces a byte-identical journal. Anything else (scenario files, HTTP,
// timing) lives outside this package.
package auction

// Outcome is the terminal result of one auction run.
type Outcome struct {
	Result  ClearingResult
	Journal *Journal
}

// Run executes the full pipeline: canonicalize, clear, settle, journal.
// It returns a complete outcome or a single typed error, never partial
// output. A nil policy selects the default uniform-price mechanism.
func Run(participants []Participant, policy MatchingPolicy) (*Outcome, error) {
	if policy == nil {
		policy = UniformPrice{}
	}

	book, err := BuildBook(participants)
	if err != nil {
		return nil, err
	}

	result, allocations, err := policy.Match(book)
	if err != nil {
		return nil, err
	}

	settlement, err := Settle(book, result, allocations)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Result:  result,
		Journal: BuildJournal(book, settlement),
	}, nil
}
