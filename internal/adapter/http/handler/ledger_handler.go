package handler

import (
	"net/http"

	"github.com/omnibank/walletd/internal/adapter/http/dto"
	"github.com/omnibank/walletd/internal/infrastructure/metrics"
	"github.com/omnibank/walletd/internal/usecase"
)

// LedgerHandler handles ledger maintenance requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, metrics: m}
}

// Consistency verifies that the clearing balance equals the sum of all
// customer balances.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if h.metrics != nil {
		outcome := "consistent"
		if !report.Consistent {
			outcome = "inconsistent"
		}
		h.metrics.ConsistencyChecks.WithLabelValues(outcome).Inc()
	}

	status := http.StatusOK
	message := "ledger is consistent"
	if !report.Consistent {
		status = http.StatusConflict
		message = "ledger is inconsistent"
	}

	writeSuccessOrFailure(w, status, report.Consistent, message, dto.ConsistencyResponse{
		Consistent:       report.Consistent,
		ClearingBalance:  report.ClearingBalance,
		CustomersBalance: report.CustomersBalance,
	})
}
