package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "positive integer", amount: "100"},
		{name: "two decimal places", amount: "0.01"},
		{name: "maximum amount", amount: "99999999.99"},
		{name: "zero rejected", amount: "0", wantErr: true},
		{name: "negative rejected", amount: "-5", wantErr: true},
		{name: "three decimal places rejected", amount: "1.005", wantErr: true},
		{name: "above maximum rejected", amount: "100000000.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("bad test amount: %v", err)
			}

			err = domain.ValidateAmount(amount)
			if tt.wantErr {
				if _, ok := domain.IsValidationError(err); !ok {
					t.Errorf("expected validation error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
