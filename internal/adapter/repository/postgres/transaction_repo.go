package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
// Listing and aggregate reads go through the retrier; writes inside a
// ledger scope surface their conflicts to the caller.
type TransactionRepository struct {
	pool    querier
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool, retrier *Retrier) *TransactionRepository {
	return &TransactionRepository{pool: pool, retrier: retrier}
}

const transactionColumns = `
	id, transaction_id, customer_id, transaction_type, payment_method,
	amount, date_of_transaction, receipt_reference_no, document_photo_url,
	processed_by_id, created_at, updated_at`

// Create persists the transaction record within the caller's scope.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.WalletTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO wallet_transactions (
			id, transaction_id, customer_id, transaction_type, payment_method,
			amount, date_of_transaction, receipt_reference_no, document_photo_url,
			processed_by_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.TransactionID,
		txn.CustomerID,
		string(txn.TransactionType),
		string(txn.PaymentMethod),
		decimalToNumeric(txn.Amount),
		pgtype.Date{Time: txn.DateOfTransaction, Valid: true},
		textOrNull(txn.ReceiptReferenceNo),
		textOrNull(txn.DocumentPhotoURL),
		txn.ProcessedByID,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	if err != nil {
		if isUniqueViolation(err, "wallet_transactions_receipt_reference_no_key") {
			return domain.NewValidationError("receipt_reference_no", "this receipt reference is already recorded")
		}
		return err
	}

	return nil
}

// TransactionIDExists checks the human-readable code for uniqueness
// inside the open transaction, so the allocation loop sees its own
// scope's view.
func (r *TransactionRepository) TransactionIDExists(ctx context.Context, tx usecase.Transaction, transactionID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var exists bool
	err := pgxTx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wallet_transactions WHERE transaction_id = $1)`,
		transactionID,
	).Scan(&exists)

	return exists, err
}

// GetByID retrieves a transaction by row ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE id = $1`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// List lists transactions newest first, applying the optional filters.
func (r *TransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE 1=1`

	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CustomerID != "" {
		query += ` AND customer_id = ` + arg(filter.CustomerID)
	}
	if filter.TransactionType != "" {
		query += ` AND transaction_type = ` + arg(string(filter.TransactionType))
	}
	if filter.PaymentMethod != "" {
		query += ` AND payment_method = ` + arg(string(filter.PaymentMethod))
	}
	if filter.DateOfTransaction != nil {
		query += ` AND date_of_transaction = ` + arg(pgtype.Date{Time: *filter.DateOfTransaction, Valid: true})
	}

	query += ` ORDER BY created_at DESC LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	var txns []*domain.WalletTransaction
	err := r.retrier.Retry(ctx, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		txns = txns[:0]
		for rows.Next() {
			txn, err := scanTransaction(rows)
			if err != nil {
				return err
			}
			txns = append(txns, txn)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// NetByMonth aggregates the net movement per month of a year; deposits
// count positive, withdrawals and payment-outs negative.
func (r *TransactionRepository) NetByMonth(ctx context.Context, customerID string, year int) (map[int]decimal.Decimal, error) {
	query := `
		SELECT
			EXTRACT(MONTH FROM created_at)::int AS month,
			COALESCE(SUM(CASE WHEN transaction_type = 'deposit' THEN amount ELSE -amount END), 0) AS net
		FROM wallet_transactions
		WHERE EXTRACT(YEAR FROM created_at) = $1
		  AND ($2 = '' OR customer_id = $2)
		GROUP BY month
		ORDER BY month
	`

	var net map[int]decimal.Decimal
	err := r.retrier.Retry(ctx, func() error {
		rows, err := r.pool.Query(ctx, query, year, customerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		net = make(map[int]decimal.Decimal)
		for rows.Next() {
			var (
				month int
				sum   pgtype.Numeric
			)
			if err := rows.Scan(&month, &sum); err != nil {
				return err
			}
			net[month] = numericToDecimal(sum)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return net, nil
}

// TotalsBetween aggregates amounts per type over [from, to).
func (r *TransactionRepository) TotalsBetween(ctx context.Context, from, to time.Time) (usecase.TypeTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'deposit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'withdrawal'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'payment_out'), 0)
		FROM wallet_transactions
		WHERE created_at >= $1 AND created_at < $2
	`

	var deposit, withdrawal, paymentOut pgtype.Numeric
	err := r.retrier.Retry(ctx, func() error {
		return r.pool.QueryRow(ctx, query, timeToPgTimestamptz(from), timeToPgTimestamptz(to)).
			Scan(&deposit, &withdrawal, &paymentOut)
	})
	if err != nil {
		return usecase.TypeTotals{}, err
	}

	return usecase.TypeTotals{
		Deposit:    numericToDecimal(deposit),
		Withdrawal: numericToDecimal(withdrawal),
		PaymentOut: numericToDecimal(paymentOut),
	}, nil
}

func scanTransaction(row pgx.Row) (*domain.WalletTransaction, error) {
	var (
		txn             domain.WalletTransaction
		transactionType string
		paymentMethod   string
		amount          pgtype.Numeric
		dateOf          pgtype.Date
		receiptRef      pgtype.Text
		photoURL        pgtype.Text
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.TransactionID,
		&txn.CustomerID,
		&transactionType,
		&paymentMethod,
		&amount,
		&dateOf,
		&receiptRef,
		&photoURL,
		&txn.ProcessedByID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	txn.TransactionType = domain.TransactionType(transactionType)
	txn.PaymentMethod = domain.PaymentMethod(paymentMethod)
	txn.Amount = numericToDecimal(amount)
	txn.DateOfTransaction = dateOf.Time
	txn.ReceiptReferenceNo = textToPtr(receiptRef)
	txn.DocumentPhotoURL = textToPtr(photoURL)
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}
