package postgres

import (
	"crypto/rand"
	"io"

	"github.com/omnibank/walletd/internal/domain"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TransactionCodeGenerator generates candidate human-readable
// transaction codes: the fixed prefix followed by a fixed-length random
// uppercase alphanumeric string. Uniqueness is enforced by the caller's
// collision-retry loop against storage.
type TransactionCodeGenerator struct {
	source io.Reader
}

// NewTransactionCodeGenerator creates a new TransactionCodeGenerator.
func NewTransactionCodeGenerator() *TransactionCodeGenerator {
	return &TransactionCodeGenerator{source: rand.Reader}
}

// Generate returns a candidate code, e.g. TXK7Q2M9XA41. Bytes at or
// above the largest multiple of the alphabet size are rejected so every
// character is equally likely.
func (g *TransactionCodeGenerator) Generate() string {
	const limit = 256 - 256%len(codeAlphabet)

	code := make([]byte, 0, domain.TransactionIDCodeLength)
	buf := make([]byte, domain.TransactionIDCodeLength)

	for len(code) < domain.TransactionIDCodeLength {
		// crypto/rand never fails on supported platforms.
		if _, err := io.ReadFull(g.source, buf); err != nil {
			panic(err)
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(code) == domain.TransactionIDCodeLength {
				break
			}
		}
	}

	return domain.TransactionIDPrefix + string(code)
}
