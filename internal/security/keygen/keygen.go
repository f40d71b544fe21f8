// Package keygen generates random alphanumeric strings used as password
// salts, client identifiers and session ids.
package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetSize = big.NewInt(int64(len(alphabet)))

// Generator produces random keys.
type Generator interface {
	Generate(length int) (string, error)
	GenerateBetween(minLength, maxLength int) (string, error)
}

// Random draws characters uniformly from [A-Za-z0-9] using crypto/rand.
type Random struct{}

// New returns a crypto/rand backed generator.
func New() *Random {
	return &Random{}
}

// Generate returns a string of exactly length characters.
func (Random) Generate(length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("key length must not be negative, got %d", length)
	}
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// GenerateBetween returns a key whose length is drawn uniformly from
// [minLength, maxLength].
func (r Random) GenerateBetween(minLength, maxLength int) (string, error) {
	if minLength < 0 || maxLength < minLength {
		return "", fmt.Errorf("invalid key length range [%d, %d]", minLength, maxLength)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(maxLength-minLength+1)))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return r.Generate(minLength + int(n.Int64()))
}
