package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a wallet transaction.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypePaymentOut TransactionType = "payment_out"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionTypeDeposit:    true,
	TransactionTypeWithdrawal: true,
	TransactionTypePaymentOut: true,
}

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// IsDebit reports whether the type decreases the customer balance.
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeWithdrawal || t == TransactionTypePaymentOut
}

// PaymentMethod classifies how the money moved.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodOther        PaymentMethod = "other"
)

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodCash:         true,
	PaymentMethodBankTransfer: true,
	PaymentMethodWallet:       true,
	PaymentMethodOther:        true,
}

// IsValid checks if the payment method is known.
func (m PaymentMethod) IsValid() bool {
	return validPaymentMethods[m]
}

// Transaction ID format: fixed prefix plus a fixed-length uppercase
// alphanumeric code, e.g. TXA1B2C3D4E5.
const (
	TransactionIDPrefix     = "TX"
	TransactionIDCodeLength = 10
)

// WalletTransaction is the immutable audit record created for every
// committed balance mutation. Never updated (except bookkeeping
// timestamps), never deleted.
type WalletTransaction struct {
	ID                 string
	TransactionID      string
	CustomerID         string
	TransactionType    TransactionType
	PaymentMethod      PaymentMethod
	Amount             decimal.Decimal
	DateOfTransaction  time.Time
	ReceiptReferenceNo *string
	DocumentPhotoURL   *string
	ProcessedByID      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Evidence carries the conditionally required supporting fields of a
// transaction request.
type Evidence struct {
	ReceiptReferenceNo *string
	DocumentPhotoURL   *string
}

// ValidateEvidence enforces the payment-method/transaction-type matrix
// and returns the evidence to persist:
//
//	deposit/withdrawal + bank_transfer  -> both fields required
//	deposit/withdrawal + wallet         -> disallowed combination
//	deposit/withdrawal + cash/other     -> evidence nulled
//	payment_out        + wallet         -> evidence nulled
//	payment_out        + anything else  -> disallowed combination
//
// The returned Evidence is what must be stored; callers must not persist
// the raw input fields.
func ValidateEvidence(tt TransactionType, pm PaymentMethod, ev Evidence) (Evidence, error) {
	if !tt.IsValid() {
		return Evidence{}, NewValidationError("transaction_type", "unknown transaction type")
	}
	if !pm.IsValid() {
		return Evidence{}, NewValidationError("payment_method", "unknown payment method")
	}

	switch tt {
	case TransactionTypeDeposit, TransactionTypeWithdrawal:
		switch pm {
		case PaymentMethodBankTransfer:
			if ev.ReceiptReferenceNo == nil || *ev.ReceiptReferenceNo == "" {
				return Evidence{}, NewValidationError("receipt_reference_no", "this field is required for bank transfers")
			}
			if ev.DocumentPhotoURL == nil || *ev.DocumentPhotoURL == "" {
				return Evidence{}, NewValidationError("document_photo_url", "this field is required for bank transfers")
			}
			return ev, nil
		case PaymentMethodWallet:
			return Evidence{}, NewValidationError("payment_method", "wallet is not a valid payment method for this transaction type")
		default:
			// cash/other carry no evidence regardless of input
			return Evidence{}, nil
		}
	case TransactionTypePaymentOut:
		if pm != PaymentMethodWallet {
			return Evidence{}, NewValidationError("payment_method", "payment_out supports only the wallet payment method")
		}
		return Evidence{}, nil
	}

	return Evidence{}, NewValidationError("transaction_type", "unknown transaction type")
}
