package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	httpAdapter "github.com/omnibank/walletd/internal/adapter/http"
	"github.com/omnibank/walletd/internal/adapter/http/handler"
	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/infrastructure/auth"
	"github.com/omnibank/walletd/internal/usecase"
	"github.com/omnibank/walletd/internal/usecase/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.JWTManager) {
	t.Helper()

	employee := &domain.User{ID: "emp-1", Name: "Eve", Email: "eve@omnibank.example", Role: domain.RoleEmployee, Active: true, Verified: true}
	customer := &domain.User{ID: "cust-1", Name: "Carl", Email: "carl@example.com", Role: domain.RoleCustomer, Active: true, Verified: true}
	ceo := &domain.User{ID: "ceo-1", Name: "Cleo", Email: "cleo@omnibank.example", Role: domain.RoleCEO, Active: true, Verified: true}

	ctrl := gomock.NewController(t)
	directory := mocks.NewMockUserDirectory(ctrl)
	directory.EXPECT().ResolveUser(gomock.Any(), employee.ID).Return(employee, nil).AnyTimes()
	directory.EXPECT().ResolveUser(gomock.Any(), customer.ID).Return(customer, nil).AnyTimes()
	directory.EXPECT().ResolveUser(gomock.Any(), ceo.ID).Return(ceo, nil).AnyTimes()

	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.Put(&domain.Wallet{ID: "w-ceo", UserID: ceo.ID, Balance: decimal.NewFromInt(100)})
	walletRepo.Put(&domain.Wallet{ID: "w-cust", UserID: customer.ID, Balance: decimal.NewFromInt(100)})
	walletRepo.SetClearing(ceo.ID)

	txnRepo := mocks.NewMockTransactionRepository()

	ledgerUC := usecase.NewLedgerUseCase(
		mocks.NewMockTransactionManager(), walletRepo, txnRepo, directory,
		mocks.NewMockIDGenerator(), mocks.NewMockCodeGenerator(), nil,
		zerolog.Nop(), 0,
	)
	txnUC := usecase.NewTransactionUseCase(txnRepo, directory)
	walletUC := usecase.NewWalletUseCase(walletRepo, txnRepo, directory, nil, zerolog.Nop())

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, txnUC, nil),
		WalletHandler:      handler.NewWalletHandler(walletUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC, nil),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		JWTManager:         jwtManager,
		Logger:             zerolog.Nop(),
	})

	return router, jwtManager
}

func TestRouterHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wallets/overview", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRouterOverviewWithToken(t *testing.T) {
	router, jwtManager := newTestRouter(t)

	token, err := jwtManager.Generate(&domain.User{ID: "cust-1", Email: "carl@example.com", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			RealtimeBalance string `json:"realtime_balance"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if envelope.Data.RealtimeBalance != "100" {
		t.Errorf("expected balance 100, got %q", envelope.Data.RealtimeBalance)
	}
}

func TestRouterStaffOnlySurfaces(t *testing.T) {
	router, jwtManager := newTestRouter(t)

	customerToken, err := jwtManager.Generate(&domain.User{ID: "cust-1", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	staffToken, err := jwtManager.Generate(&domain.User{ID: "emp-1", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/ledger/consistency"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+customerToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403 for customers, got %d", path, rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+staffToken)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200 for staff, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}
