package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/usecase"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WalletRepository implements usecase.WalletRepository. Aggregate reads
// go through the retrier; locked reads and writes do not, their
// conflicts surface to the caller.
type WalletRepository struct {
	pool    querier
	retrier *Retrier
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool, retrier *Retrier) *WalletRepository {
	return &WalletRepository{pool: pool, retrier: retrier}
}

const walletColumns = `id, user_id, balance, created_at, updated_at`

// Create inserts a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		wallet.ID,
		wallet.UserID,
		decimalToNumeric(wallet.Balance),
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)

	return err
}

// GetByUserID retrieves a wallet by its owner, without locking.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`

	return scanWallet(r.pool.QueryRow(ctx, query, userID))
}

// GetByUserIDForUpdate retrieves a wallet with a row-level exclusive
// lock, blocking until the lock is obtained or lock_timeout fires.
func (r *WalletRepository) GetByUserIDForUpdate(ctx context.Context, tx usecase.Transaction, userID string) (*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`

	wallet, err := scanWallet(pgxTx.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, mapLockError(err)
	}

	return wallet, nil
}

// GetClearingForUpdate locks the CEO-owned clearing wallet. The unique
// partial index on users(role) guarantees at most one row; zero rows is
// a fatal configuration error.
func (r *WalletRepository) GetClearingForUpdate(ctx context.Context, tx usecase.Transaction) (*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT w.id, w.user_id, w.balance, w.created_at, w.updated_at
		FROM wallets w
		JOIN users u ON u.id = w.user_id
		WHERE u.role = 'CEO'
		FOR UPDATE OF w
	`

	wallet, err := scanWallet(pgxTx.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, domain.ErrClearingAccountNotFound
		}
		return nil, mapLockError(err)
	}

	return wallet, nil
}

// UpdateBalance updates a wallet balance within the caller's scope.
func (r *WalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE wallets SET balance = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// Totals returns the clearing balance and the sum of non-clearing
// balances in one round trip.
func (r *WalletRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(w.balance) FILTER (WHERE u.role = 'CEO'), 0),
			COALESCE(SUM(w.balance) FILTER (WHERE u.role <> 'CEO'), 0)
		FROM wallets w
		JOIN users u ON u.id = w.user_id
	`

	var clearing, customers pgtype.Numeric
	err := r.retrier.Retry(ctx, func() error {
		return r.pool.QueryRow(ctx, query).Scan(&clearing, &customers)
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(clearing), numericToDecimal(customers), nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet    domain.Wallet
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&wallet.ID, &wallet.UserID, &balance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	wallet.Balance = numericToDecimal(balance)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}
