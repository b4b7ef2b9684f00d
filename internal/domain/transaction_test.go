package domain_test

import (
	"testing"

	"github.com/omnibank/walletd/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestValidateEvidence(t *testing.T) {
	receipt := strPtr("REF-001")
	photo := strPtr("https://docs.example/receipt.jpg")

	tests := []struct {
		name         string
		tt           domain.TransactionType
		pm           domain.PaymentMethod
		ev           domain.Evidence
		wantField    string
		wantEvidence bool
	}{
		{
			name:         "deposit by bank transfer with full evidence",
			tt:           domain.TransactionTypeDeposit,
			pm:           domain.PaymentMethodBankTransfer,
			ev:           domain.Evidence{ReceiptReferenceNo: receipt, DocumentPhotoURL: photo},
			wantEvidence: true,
		},
		{
			name:      "bank transfer without receipt",
			tt:        domain.TransactionTypeDeposit,
			pm:        domain.PaymentMethodBankTransfer,
			ev:        domain.Evidence{DocumentPhotoURL: photo},
			wantField: "receipt_reference_no",
		},
		{
			name:      "bank transfer with empty receipt",
			tt:        domain.TransactionTypeWithdrawal,
			pm:        domain.PaymentMethodBankTransfer,
			ev:        domain.Evidence{ReceiptReferenceNo: strPtr(""), DocumentPhotoURL: photo},
			wantField: "receipt_reference_no",
		},
		{
			name:      "bank transfer without photo",
			tt:        domain.TransactionTypeWithdrawal,
			pm:        domain.PaymentMethodBankTransfer,
			ev:        domain.Evidence{ReceiptReferenceNo: receipt},
			wantField: "document_photo_url",
		},
		{
			name:      "deposit by wallet disallowed",
			tt:        domain.TransactionTypeDeposit,
			pm:        domain.PaymentMethodWallet,
			wantField: "payment_method",
		},
		{
			name:      "withdrawal by wallet disallowed",
			tt:        domain.TransactionTypeWithdrawal,
			pm:        domain.PaymentMethodWallet,
			wantField: "payment_method",
		},
		{
			name: "cash deposit drops stray evidence",
			tt:   domain.TransactionTypeDeposit,
			pm:   domain.PaymentMethodCash,
			ev:   domain.Evidence{ReceiptReferenceNo: receipt, DocumentPhotoURL: photo},
		},
		{
			name: "other withdrawal drops stray evidence",
			tt:   domain.TransactionTypeWithdrawal,
			pm:   domain.PaymentMethodOther,
			ev:   domain.Evidence{ReceiptReferenceNo: receipt},
		},
		{
			name: "payment_out by wallet",
			tt:   domain.TransactionTypePaymentOut,
			pm:   domain.PaymentMethodWallet,
			ev:   domain.Evidence{ReceiptReferenceNo: receipt},
		},
		{
			name:      "payment_out by cash disallowed",
			tt:        domain.TransactionTypePaymentOut,
			pm:        domain.PaymentMethodCash,
			wantField: "payment_method",
		},
		{
			name:      "payment_out by bank transfer disallowed",
			tt:        domain.TransactionTypePaymentOut,
			pm:        domain.PaymentMethodBankTransfer,
			wantField: "payment_method",
		},
		{
			name:      "unknown transaction type",
			tt:        domain.TransactionType("transfer"),
			pm:        domain.PaymentMethodCash,
			wantField: "transaction_type",
		},
		{
			name:      "unknown payment method",
			tt:        domain.TransactionTypeDeposit,
			pm:        domain.PaymentMethod("crypto"),
			wantField: "payment_method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ValidateEvidence(tt.tt, tt.pm, tt.ev)

			if tt.wantField != "" {
				ve, ok := domain.IsValidationError(err)
				if !ok {
					t.Fatalf("expected validation error, got %v", err)
				}
				if ve.Field != tt.wantField {
					t.Errorf("expected field %q, got %q", tt.wantField, ve.Field)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantEvidence {
				if got.ReceiptReferenceNo == nil || got.DocumentPhotoURL == nil {
					t.Error("expected evidence to be preserved")
				}
			} else {
				if got.ReceiptReferenceNo != nil || got.DocumentPhotoURL != nil {
					t.Error("expected evidence to be nulled")
				}
			}
		})
	}
}

func TestTransactionTypeIsDebit(t *testing.T) {
	if domain.TransactionTypeDeposit.IsDebit() {
		t.Error("deposit must not be a debit")
	}
	if !domain.TransactionTypeWithdrawal.IsDebit() {
		t.Error("withdrawal must be a debit")
	}
	if !domain.TransactionTypePaymentOut.IsDebit() {
		t.Error("payment_out must be a debit")
	}
}
