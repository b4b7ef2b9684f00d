package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds a single user's balance. Every user owns exactly one
// wallet; the CEO's wallet doubles as the clearing account whose balance
// mirrors the sum of all customer balances.
type Wallet struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDebit checks that the wallet can be debited by amount without
// going negative.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyCredit returns the balance after crediting amount.
func (w *Wallet) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}

// ApplyDebit returns the balance after debiting amount.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Sub(amount)
}
