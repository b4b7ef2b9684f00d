package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
)

// WalletRepository defines data access for wallets. Balance writes are
// only valid inside a transaction scope that also writes the matching
// wallet transaction record.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	// GetByUserIDForUpdate acquires a row-level exclusive lock on the
	// wallet; it blocks until the lock is obtained or times out.
	GetByUserIDForUpdate(ctx context.Context, tx Transaction, userID string) (*domain.Wallet, error)
	// GetClearingForUpdate locks the CEO-owned clearing wallet. Callers
	// must acquire this lock before any customer wallet lock.
	GetClearingForUpdate(ctx context.Context, tx Transaction) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	// Totals returns the clearing balance and the sum of all non-clearing
	// balances for the consistency check.
	Totals(ctx context.Context) (clearing, customers decimal.Decimal, err error)
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	CustomerID        string
	TransactionType   domain.TransactionType
	PaymentMethod     domain.PaymentMethod
	DateOfTransaction *time.Time
	Limit             int
	Offset            int
}

// TypeTotals aggregates amounts per transaction type over a period.
type TypeTotals struct {
	Deposit    decimal.Decimal
	Withdrawal decimal.Decimal
	PaymentOut decimal.Decimal
}

// Net returns deposits minus outflows.
func (t TypeTotals) Net() decimal.Decimal {
	return t.Deposit.Sub(t.Withdrawal).Sub(t.PaymentOut)
}

// TransactionRepository defines data access for wallet transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.WalletTransaction) error
	// TransactionIDExists reports whether the human-readable code is
	// already taken, for the allocation collision-retry loop.
	TransactionIDExists(ctx context.Context, tx Transaction, transactionID string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*domain.WalletTransaction, error)
	// NetByMonth returns the net movement per month (1-12) of the given
	// year; customerID "" aggregates over all customers.
	NetByMonth(ctx context.Context, customerID string, year int) (map[int]decimal.Decimal, error)
	// TotalsBetween aggregates amounts per type over [from, to).
	TotalsBetween(ctx context.Context, from, to time.Time) (TypeTotals, error)
}

// UserDirectory is the read-only view of the account directory.
type UserDirectory interface {
	ResolveUser(ctx context.Context, id string) (*domain.User, error)
	// ClearingAccountUser resolves the unique CEO-role user.
	ClearingAccountUser(ctx context.Context) (*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique row IDs.
type IDGenerator interface {
	Generate() string
}

// CodeGenerator generates candidate human-readable transaction codes.
// Uniqueness is the caller's concern (collision retry against storage).
type CodeGenerator interface {
	Generate() string
}

// Notifier delivers receipt notifications. Best effort: failures must
// never affect committed ledger state.
type Notifier interface {
	Notify(ctx context.Context, recipientEmail, recipientName, subject, htmlBody string) error
}

// Cache defines caching operations for hot read paths.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
