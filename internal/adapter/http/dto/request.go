package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/usecase"
)

// dateLayout is the wire format of date_of_transaction.
const dateLayout = "2006-01-02"

// CreateTransactionRequest represents a request to process a wallet
// transaction on behalf of a customer.
type CreateTransactionRequest struct {
	CustomerID         string          `json:"customer_id"`
	TransactionType    string          `json:"transaction_type"`
	PaymentMethod      string          `json:"payment_method"`
	Amount             decimal.Decimal `json:"amount"`
	DateOfTransaction  string          `json:"date_of_transaction,omitempty"`
	ReceiptReferenceNo *string         `json:"receipt_reference_no,omitempty"`
	DocumentPhotoURL   *string         `json:"document_photo_url,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() (usecase.ExecuteInput, error) {
	var dateOf time.Time
	if r.DateOfTransaction != "" {
		parsed, err := time.Parse(dateLayout, r.DateOfTransaction)
		if err != nil {
			return usecase.ExecuteInput{}, domain.NewValidationError("date_of_transaction", "date must be in YYYY-MM-DD format")
		}
		dateOf = parsed
	}

	return usecase.ExecuteInput{
		CustomerID:        r.CustomerID,
		TransactionType:   domain.TransactionType(r.TransactionType),
		PaymentMethod:     domain.PaymentMethod(r.PaymentMethod),
		Amount:            r.Amount,
		DateOfTransaction: dateOf,
		Evidence: domain.Evidence{
			ReceiptReferenceNo: r.ReceiptReferenceNo,
			DocumentPhotoURL:   r.DocumentPhotoURL,
		},
	}, nil
}

// ListTransactionsQuery represents the supported listing filters.
type ListTransactionsQuery struct {
	CustomerID        string
	TransactionType   string
	PaymentMethod     string
	DateOfTransaction string
	Limit             int
	Offset            int
}

// ToFilter converts to a repository filter.
func (q *ListTransactionsQuery) ToFilter() (usecase.TransactionFilter, error) {
	filter := usecase.TransactionFilter{
		CustomerID:      q.CustomerID,
		TransactionType: domain.TransactionType(q.TransactionType),
		PaymentMethod:   domain.PaymentMethod(q.PaymentMethod),
		Limit:           q.Limit,
		Offset:          q.Offset,
	}

	if q.DateOfTransaction != "" {
		parsed, err := time.Parse(dateLayout, q.DateOfTransaction)
		if err != nil {
			return usecase.TransactionFilter{}, domain.NewValidationError("date_of_transaction", "date must be in YYYY-MM-DD format")
		}
		filter.DateOfTransaction = &parsed
	}

	return filter, nil
}
