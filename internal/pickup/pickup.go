// Package pickup generates codes that authenticate in-person retrieval of a
// claimed item.
package pickup

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the 32-symbol code alphabet. It excludes 0, O, 1 and I so codes
// read unambiguously off a phone screen at the front desk.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of symbols in a pickup code.
const CodeLength = 6

// NewCode draws CodeLength symbols independently and uniformly from Alphabet.
// Codes are not globally unique on their own; callers that need uniqueness
// retry against the set of codes still in circulation.
func NewCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating pickup code: %w", err)
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Valid reports whether s has the exact shape of a pickup code.
func Valid(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(Alphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
