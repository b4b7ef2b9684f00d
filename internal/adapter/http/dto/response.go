package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
)

// Envelope is the uniform response wrapper: every endpoint reports
// success, the mirrored HTTP status, a human-readable message, and the
// payload.
type Envelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// FieldErrors carries field-scoped validation failures.
type FieldErrors struct {
	Errors map[string]string `json:"errors"`
}

// TransactionResponse represents a wallet transaction in API responses.
type TransactionResponse struct {
	ID                 string          `json:"id"`
	TransactionID      string          `json:"transaction_id"`
	CustomerID         string          `json:"customer_id"`
	TransactionType    string          `json:"transaction_type"`
	PaymentMethod      string          `json:"payment_method"`
	Amount             decimal.Decimal `json:"amount"`
	DateOfTransaction  string          `json:"date_of_transaction"`
	ReceiptReferenceNo *string         `json:"receipt_reference_no"`
	DocumentPhotoURL   *string         `json:"document_photo_url"`
	ProcessedByID      string          `json:"processed_by_id"`
	CreatedAt          time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.WalletTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                 t.ID,
		TransactionID:      t.TransactionID,
		CustomerID:         t.CustomerID,
		TransactionType:    string(t.TransactionType),
		PaymentMethod:      string(t.PaymentMethod),
		Amount:             t.Amount,
		DateOfTransaction:  t.DateOfTransaction.Format(dateLayout),
		ReceiptReferenceNo: t.ReceiptReferenceNo,
		DocumentPhotoURL:   t.DocumentPhotoURL,
		ProcessedByID:      t.ProcessedByID,
		CreatedAt:          t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.WalletTransaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// CreateTransactionResponse is the payload of a committed transaction.
type CreateTransactionResponse struct {
	Transaction          *TransactionResponse `json:"transaction"`
	CustomerBalanceAfter decimal.Decimal      `json:"customer_balance_after"`
}

// ConsistencyResponse reports the omnibus balance invariant.
type ConsistencyResponse struct {
	Consistent       bool            `json:"consistent"`
	ClearingBalance  decimal.Decimal `json:"clearing_balance"`
	CustomersBalance decimal.Decimal `json:"customers_balance"`
}
