package postgres

import (
	"bytes"
	"strings"
	"testing"

	"github.com/omnibank/walletd/internal/domain"
)

func TestTransactionCodeGeneratorFormat(t *testing.T) {
	gen := NewTransactionCodeGenerator()

	for i := 0; i < 100; i++ {
		code := gen.Generate()

		if !strings.HasPrefix(code, domain.TransactionIDPrefix) {
			t.Fatalf("code %q missing prefix", code)
		}
		if len(code) != len(domain.TransactionIDPrefix)+domain.TransactionIDCodeLength {
			t.Fatalf("code %q has wrong length %d", code, len(code))
		}
		for _, r := range code[len(domain.TransactionIDPrefix):] {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains invalid character %q", code, r)
			}
		}
	}
}

func TestTransactionCodeGeneratorVariety(t *testing.T) {
	gen := NewTransactionCodeGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[gen.Generate()] = true
	}

	// 1000 draws from a 36^10 space should essentially never collide.
	if len(seen) < 990 {
		t.Errorf("too many collisions: %d unique of 1000", len(seen))
	}
}

func TestTransactionCodeGeneratorRejectsOutOfRangeBytes(t *testing.T) {
	// 252-255 sit beyond the largest multiple of the alphabet size and
	// must be skipped, not folded onto the first characters.
	input := []byte{
		252, 253, 254, 255, 0, 1, 2, 3, 4, 5,
		6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	}
	gen := &TransactionCodeGenerator{source: bytes.NewReader(input)}

	want := domain.TransactionIDPrefix + "ABCDEFGHIJ"
	if got := gen.Generate(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
