package domain

import (
	"errors"
	"fmt"
)

var (
	// Authorization errors. Each rule failure has its own sentinel so the
	// boundary can surface the specific reason instead of a generic 403.
	ErrRoleNotAuthorized    = errors.New("only admin, employee, or CEO can process transactions")
	ErrRequesterNotEligible = errors.New("requester is not verified or active")
	ErrTargetNotCustomer    = errors.New("target user is not a customer")
	ErrSelfProcessing       = errors.New("you cannot process your own transactions")

	// Ledger errors
	ErrInsufficientFunds      = errors.New("insufficient funds for this transaction")
	ErrTransactionIDExhausted = errors.New("transaction id allocation attempts exhausted")
	ErrLockTimeout            = errors.New("wallet lock acquisition timed out")

	// Lookup errors
	ErrUserNotFound        = errors.New("user not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrClearingAccountNotFound indicates the CEO wallet could not be
	// resolved. Fatal configuration error, not a business failure.
	ErrClearingAccountNotFound = errors.New("clearing account wallet not found")

	// ErrNotPermitted is returned when a caller reads a record they do
	// not own.
	ErrNotPermitted = errors.New("you are not authorized to view this record")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ValidationError is a field-scoped validation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a field-scoped validation
// failure and returns it if so.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
