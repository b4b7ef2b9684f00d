// Package mocks provides hand-maintained in-memory test doubles for the
// usecase interfaces. Every method can be overridden through its Func
// field; the defaults behave like a small in-memory store.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/usecase"
)

// MockTransaction is a mock implementation of usecase.Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu         sync.Mutex
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	t.Committed = true
	t.mu.Unlock()

	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	alreadyDone := t.Committed || t.RolledBack
	if !t.Committed {
		t.RolledBack = true
	}
	t.mu.Unlock()

	if t.RollbackFunc != nil && !alreadyDone {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager is a mock implementation of
// usecase.TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockWalletRepository is an in-memory mock of usecase.WalletRepository.
type MockWalletRepository struct {
	mu             sync.RWMutex
	wallets        map[string]*domain.Wallet // keyed by user ID
	clearingUserID string

	CreateFunc               func(ctx context.Context, wallet *domain.Wallet) error
	GetByUserIDFunc          func(ctx context.Context, userID string) (*domain.Wallet, error)
	GetByUserIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userID string) (*domain.Wallet, error)
	GetClearingForUpdateFunc func(ctx context.Context, tx usecase.Transaction) (*domain.Wallet, error)
	UpdateBalanceFunc        func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	TotalsFunc               func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// Put seeds a wallet keyed by its owner.
func (m *MockWalletRepository) Put(w *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[w.UserID] = w
}

// SetClearing marks the owner of the clearing wallet.
func (m *MockWalletRepository) SetClearing(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearingUserID = userID
}

// Balance returns the current balance of a seeded wallet.
func (m *MockWalletRepository) Balance(userID string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[userID]; ok {
		return w.Balance
	}
	return decimal.Zero
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, wallet)
	}
	m.Put(wallet)
	return nil
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[userID]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByUserIDForUpdate(ctx context.Context, tx usecase.Transaction, userID string) (*domain.Wallet, error) {
	if m.GetByUserIDForUpdateFunc != nil {
		return m.GetByUserIDForUpdateFunc(ctx, tx, userID)
	}
	return m.GetByUserID(ctx, userID)
}

func (m *MockWalletRepository) GetClearingForUpdate(ctx context.Context, tx usecase.Transaction) (*domain.Wallet, error) {
	if m.GetClearingForUpdateFunc != nil {
		return m.GetClearingForUpdateFunc(ctx, tx)
	}
	m.mu.RLock()
	clearingUserID := m.clearingUserID
	m.mu.RUnlock()
	if clearingUserID == "" {
		return nil, domain.ErrClearingAccountNotFound
	}
	return m.GetByUserID(ctx, clearingUserID)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID == id {
			w.Balance = balance
			w.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrWalletNotFound
}

func (m *MockWalletRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	clearing := decimal.Zero
	customers := decimal.Zero
	for userID, w := range m.wallets {
		if userID == m.clearingUserID {
			clearing = w.Balance
		} else {
			customers = customers.Add(w.Balance)
		}
	}
	return clearing, customers, nil
}

// MockTransactionRepository is an in-memory mock of
// usecase.TransactionRepository.
type MockTransactionRepository struct {
	mu    sync.RWMutex
	txns  map[string]*domain.WalletTransaction // keyed by row ID
	codes map[string]bool

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, txn *domain.WalletTransaction) error
	TransactionIDExistsFunc func(ctx context.Context, tx usecase.Transaction, transactionID string) (bool, error)
	GetByIDFunc             func(ctx context.Context, id string) (*domain.WalletTransaction, error)
	ListFunc                func(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.WalletTransaction, error)
	NetByMonthFunc          func(ctx context.Context, customerID string, year int) (map[int]decimal.Decimal, error)
	TotalsBetweenFunc       func(ctx context.Context, from, to time.Time) (usecase.TypeTotals, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns:  make(map[string]*domain.WalletTransaction),
		codes: make(map[string]bool),
	}
}

// Count returns the number of stored records.
func (m *MockTransactionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.txns)
}

// Codes returns every stored transaction_id.
func (m *MockTransactionRepository) Codes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.codes))
	for c := range m.codes {
		out = append(out, c)
	}
	return out
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.WalletTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
	m.codes[txn.TransactionID] = true
	return nil
}

func (m *MockTransactionRepository) TransactionIDExists(ctx context.Context, tx usecase.Transaction, transactionID string) (bool, error) {
	if m.TransactionIDExistsFunc != nil {
		return m.TransactionIDExistsFunc(ctx, tx, transactionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codes[transactionID], nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.WalletTransaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.WalletTransaction
	for _, txn := range m.txns {
		if filter.CustomerID != "" && txn.CustomerID != filter.CustomerID {
			continue
		}
		if filter.TransactionType != "" && txn.TransactionType != filter.TransactionType {
			continue
		}
		if filter.PaymentMethod != "" && txn.PaymentMethod != filter.PaymentMethod {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *MockTransactionRepository) NetByMonth(ctx context.Context, customerID string, year int) (map[int]decimal.Decimal, error) {
	if m.NetByMonthFunc != nil {
		return m.NetByMonthFunc(ctx, customerID, year)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	net := make(map[int]decimal.Decimal)
	for _, txn := range m.txns {
		if customerID != "" && txn.CustomerID != customerID {
			continue
		}
		if txn.CreatedAt.Year() != year {
			continue
		}
		month := int(txn.CreatedAt.Month())
		delta := txn.Amount
		if txn.TransactionType.IsDebit() {
			delta = delta.Neg()
		}
		net[month] = net[month].Add(delta)
	}
	return net, nil
}

func (m *MockTransactionRepository) TotalsBetween(ctx context.Context, from, to time.Time) (usecase.TypeTotals, error) {
	if m.TotalsBetweenFunc != nil {
		return m.TotalsBetweenFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totals usecase.TypeTotals
	for _, txn := range m.txns {
		if txn.CreatedAt.Before(from) || !txn.CreatedAt.Before(to) {
			continue
		}
		switch txn.TransactionType {
		case domain.TransactionTypeDeposit:
			totals.Deposit = totals.Deposit.Add(txn.Amount)
		case domain.TransactionTypeWithdrawal:
			totals.Withdrawal = totals.Withdrawal.Add(txn.Amount)
		case domain.TransactionTypePaymentOut:
			totals.PaymentOut = totals.PaymentOut.Add(txn.Amount)
		}
	}
	return totals, nil
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("row-%04d", m.counter)
}

// MockCodeGenerator is a mock implementation of usecase.CodeGenerator.
type MockCodeGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockCodeGenerator() *MockCodeGenerator {
	return &MockCodeGenerator{}
}

func (m *MockCodeGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("%s%010d", domain.TransactionIDPrefix, m.counter)
}

// MockCache is an in-memory mock of usecase.Cache. TTLs are ignored.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
