package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/omnibank/walletd/internal/adapter/http/dto"
	"github.com/omnibank/walletd/internal/domain"
)

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeSuccessOrFailure(w, status, true, message, data)
}

func writeSuccessOrFailure(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.Envelope{
		Success: success,
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// writeError writes a failure envelope. Field-scoped validation errors
// carry the offending field in the payload.
func writeError(w http.ResponseWriter, status int, err error) {
	var data any
	if ve, ok := domain.IsValidationError(err); ok {
		data = dto.FieldErrors{Errors: map[string]string{ve.Field: ve.Reason}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.Envelope{
		Success: false,
		Status:  status,
		Message: err.Error(),
		Data:    data,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	if _, ok := domain.IsValidationError(err); ok {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, domain.ErrRoleNotAuthorized),
		errors.Is(err, domain.ErrRequesterNotEligible),
		errors.Is(err, domain.ErrTargetNotCustomer),
		errors.Is(err, domain.ErrSelfProcessing),
		errors.Is(err, domain.ErrNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransactionIDExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
