package handler

import (
	"errors"
	"net/http"

	"github.com/omnibank/walletd/internal/adapter/http/middleware"
	"github.com/omnibank/walletd/internal/usecase"
)

// WalletHandler handles wallet read requests.
type WalletHandler struct {
	walletUC *usecase.WalletUseCase
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Overview returns the requester-visible realtime balance and the
// monthly net series for the current year.
func (h *WalletHandler) Overview(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	overview, err := h.walletUC.GetOverview(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), err)
		return
	}

	writeSuccess(w, http.StatusOK, "overview retrieved", overview)
}

// Dashboard returns today's totals versus the prior seven days.
func (h *WalletHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	dashboard, err := h.walletUC.GetDashboard(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), err)
		return
	}

	writeSuccess(w, http.StatusOK, "dashboard retrieved", dashboard)
}
