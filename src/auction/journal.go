package auction

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Journal is the public, verifiable record: four parallel sequences indexed
// by canonical position (all buyers in canonical order, then all sellers).
// Downstream consumers must never re-sort it; the ordering is part of the
// verification contract.
type Journal struct {
	InCoin    []uint64 `json:"in_coin"`
	InEnergy  []uint64 `json:"in_energy"`
	OutCoin   []uint64 `json:"out_coin"`
	OutEnergy []uint64 `json:"out_energy"`
}

// BuildJournal pairs each participant's input balances with its settled
// output balances, walking the book in canonical order.
func BuildJournal(book *Book, settlement *Settlement) *Journal {
	n := book.Size()
	journal := &Journal{
		InCoin:    make([]uint64, 0, n),
		InEnergy:  make([]uint64, 0, n),
		OutCoin:   make([]uint64, 0, n),
		OutEnergy: make([]uint64, 0, n),
	}

	appendEntry := func(p *Participant) {
		outCoin, outEnergy := settlement.OutBalances(p.ID)
		journal.InCoin = append(journal.InCoin, p.InCoin)
		journal.InEnergy = append(journal.InEnergy, p.InEnergy)
		journal.OutCoin = append(journal.OutCoin, outCoin)
		journal.OutEnergy = append(journal.OutEnergy, outEnergy)
	}

	for i := range book.Buys {
		appendEntry(&book.Buys[i])
	}
	for i := range book.Sells {
		appendEntry(&book.Sells[i])
	}

	return journal
}

// Encode produces the canonical binary form of the journal: a big-endian
// length prefix followed by the four sequences in declaration order. Two
// journals are equal exactly when their encodings are byte-identical.
func (j *Journal) Encode() []byte {
	n := len(j.InCoin)
	buf := make([]byte, 0, 8+4*8*n)
	buf = binary.BigEndian.AppendUint64(buf, uint64(n))
	for _, seq := range [][]uint64{j.InCoin, j.InEnergy, j.OutCoin, j.OutEnergy} {
		for _, v := range seq {
			buf = binary.BigEndian.AppendUint64(buf, v)
		}
	}
	return buf
}

// Digest is the blake3 hash of the canonical encoding, hex-encoded. It lets
// an external verifier compare records without shipping the full journal.
func (j *Journal) Digest() string {
	hasher := blake3.New()
	_, _ = hasher.Write(j.Encode())
	return hex.EncodeToString(hasher.Sum(nil))
}

// Size returns the journal's participant count.
func (j *Journal) Size() int {
	return len(j.InCoin)
}
