package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/usecase"
)

func TestReceiptHTML(t *testing.T) {
	record := &domain.WalletTransaction{
		TransactionID:     "TXK7Q2M9XA41",
		TransactionType:   domain.TransactionTypeDeposit,
		PaymentMethod:     domain.PaymentMethodCash,
		Amount:            decimal.RequireFromString("150.50"),
		DateOfTransaction: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	}

	body := usecase.ReceiptHTML(record, customer, employee, decimal.RequireFromString("250.50"))

	assert.Contains(t, body, customer.Name)
	assert.Contains(t, body, "TXK7Q2M9XA41")
	assert.Contains(t, body, "150.50")
	assert.Contains(t, body, "250.50")
	assert.Contains(t, body, "2026-03-03")
	assert.Contains(t, body, employee.Name)
	assert.Contains(t, body, employee.Email)
}

func TestReceiptHTMLEscapesUserContent(t *testing.T) {
	record := &domain.WalletTransaction{
		TransactionID:     "TXB3N8D2YQ75",
		TransactionType:   domain.TransactionTypeDeposit,
		PaymentMethod:     domain.PaymentMethodCash,
		Amount:            decimal.NewFromInt(10),
		DateOfTransaction: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	}

	crafted := &domain.User{
		Name:  `<script>alert("x")</script>`,
		Email: "crafted@example.com",
		Role:  domain.RoleCustomer,
	}

	body := usecase.ReceiptHTML(record, crafted, employee, decimal.NewFromInt(10))

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
