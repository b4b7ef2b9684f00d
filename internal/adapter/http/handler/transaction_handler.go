package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/omnibank/walletd/internal/adapter/http/dto"
	"github.com/omnibank/walletd/internal/adapter/http/middleware"
	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/infrastructure/metrics"
	"github.com/omnibank/walletd/internal/usecase"
)

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ledgerUC *usecase.LedgerUseCase
	txnUC    *usecase.TransactionUseCase
	metrics  *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler. metrics may be
// nil in tests.
func NewTransactionHandler(ledgerUC *usecase.LedgerUseCase, txnUC *usecase.TransactionUseCase, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{
		ledgerUC: ledgerUC,
		txnUC:    txnUC,
		metrics:  m,
	}
}

// Create processes a new wallet transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.NewValidationError("body", "invalid request body"))
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()

	result, err := h.ledgerUC.Execute(r.Context(), principal.UserID, input)
	if err != nil {
		h.recordFailure(err)
		writeError(w, mapDomainError(err), err)
		return
	}

	h.recordSuccess(result.Record, time.Since(start))

	writeSuccess(w, http.StatusCreated, "transaction processed successfully", dto.CreateTransactionResponse{
		Transaction:          dto.TransactionFromDomain(result.Record),
		CustomerBalanceAfter: result.CustomerBalanceAfter,
	})
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, domain.NewValidationError("id", "missing transaction ID"))
		return
	}

	txn, err := h.txnUC.Get(r.Context(), principal.UserID, id)
	if err != nil {
		writeError(w, mapDomainError(err), err)
		return
	}

	writeSuccess(w, http.StatusOK, "transaction retrieved", dto.TransactionFromDomain(txn))
}

// List lists transactions visible to the requester.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	query := dto.ListTransactionsQuery{
		CustomerID:        r.URL.Query().Get("customer_id"),
		TransactionType:   r.URL.Query().Get("transaction_type"),
		PaymentMethod:     r.URL.Query().Get("payment_method"),
		DateOfTransaction: r.URL.Query().Get("date_of_transaction"),
		Limit:             parseIntQuery(r, "limit", 20),
		Offset:            parseIntQuery(r, "offset", 0),
	}

	filter, err := query.ToFilter()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	txns, err := h.txnUC.List(r.Context(), principal.UserID, filter)
	if err != nil {
		writeError(w, mapDomainError(err), err)
		return
	}

	writeSuccess(w, http.StatusOK, "transactions retrieved", dto.TransactionsFromDomain(txns))
}

func (h *TransactionHandler) recordSuccess(record *domain.WalletTransaction, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}

	h.metrics.TransactionsCreated.
		WithLabelValues(string(record.TransactionType), string(record.PaymentMethod)).
		Inc()
	amount, _ := record.Amount.Float64()
	h.metrics.TransactionAmount.
		WithLabelValues(string(record.TransactionType)).
		Observe(amount)
	h.metrics.TransactionDuration.Observe(elapsed.Seconds())
}

func (h *TransactionHandler) recordFailure(err error) {
	if h.metrics == nil {
		return
	}

	h.metrics.TransactionErrors.WithLabelValues(errorType(err)).Inc()

	switch {
	case errors.Is(err, domain.ErrLockTimeout):
		h.metrics.LockTimeouts.Inc()
	case errors.Is(err, domain.ErrTransactionIDExhausted):
		h.metrics.CodeCollisions.Inc()
	}
}

func errorType(err error) string {
	if _, ok := domain.IsValidationError(err); ok {
		return "validation"
	}

	switch {
	case errors.Is(err, domain.ErrRoleNotAuthorized),
		errors.Is(err, domain.ErrRequesterNotEligible),
		errors.Is(err, domain.ErrTargetNotCustomer),
		errors.Is(err, domain.ErrSelfProcessing):
		return "authorization"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrTransactionIDExhausted):
		return "id_exhausted"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrWalletNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
