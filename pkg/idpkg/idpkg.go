// Package idpkg allocates account numbers and transaction identifiers.
package idpkg

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// Bank code prefix of every account number.
const BankCode = 8705

const (
	suffixMin = 10_000_000
	suffixMax = 99_999_999
)

// Generator draws candidate identifiers. Draws are uniform and uncoordinated;
// uniqueness is verified against the store by the caller.
type Generator struct{}

// NewGenerator returns an identifier Generator.
func NewGenerator() Generator {
	return Generator{}
}

// AccountNumber returns a positive account number: the bank code followed by
// an 8-digit suffix, read as one integer (e.g. 870512345678).
func (Generator) AccountNumber() int64 {
	suffix := intn(suffixMax-suffixMin+1) + suffixMin
	return BankCode*100_000_000 + suffix
}

// TransactionID returns a uniform draw from [0, MaxInt64]. Clearing the sign
// bit keeps the draw non-negative without negating, so the most-negative
// value can never occur.
func (Generator) TransactionID() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}

	return int64(binary.BigEndian.Uint64(buf[:]) &^ (1 << 63))
}

// intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func intn(max int64) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}
