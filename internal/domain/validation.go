package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount bounds. Balances are stored as NUMERIC(12,2); the original
// ten-digit cap keeps single transactions well inside that.
const (
	MaxTransactionAmount = "99999999.99"
	maxAmountScale       = 2
)

// ValidateAmount validates a transaction amount: strictly positive, at
// most two decimal places, and within the storage cap.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount", "amount must be greater than zero")
	}

	if -amount.Exponent() > maxAmountScale {
		return NewValidationError("amount", "amount supports at most two decimal places")
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return NewValidationError("amount", fmt.Sprintf("amount exceeds the maximum of %s", MaxTransactionAmount))
	}

	return nil
}
