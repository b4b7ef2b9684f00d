package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

// flakyQuerier fails the first QueryRow with a lock timeout and answers
// the second with the given balances.
type flakyQuerier struct {
	querier
	calls               int
	clearing, customers decimal.Decimal
}

func (q *flakyQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	q.calls++
	if q.calls == 1 {
		return fakeRow{scan: func(...any) error {
			return &pgconn.PgError{Code: pgErrLockNotAvailable}
		}}
	}

	return fakeRow{scan: func(dest ...any) error {
		*dest[0].(*pgtype.Numeric) = decimalToNumeric(q.clearing)
		*dest[1].(*pgtype.Numeric) = decimalToNumeric(q.customers)
		return nil
	}}
}

func TestTotalsRetriesLockTimeout(t *testing.T) {
	pool := &flakyQuerier{
		clearing:  decimal.RequireFromString("150.00"),
		customers: decimal.RequireFromString("150.00"),
	}
	repo := &WalletRepository{pool: pool, retrier: NewRetrier(zerolog.Nop())}

	clearing, customers, err := repo.Totals(context.Background())
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}

	if pool.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", pool.calls)
	}
	if !clearing.Equal(pool.clearing) || !customers.Equal(pool.customers) {
		t.Errorf("expected totals 150.00/150.00, got %s/%s", clearing, customers)
	}
}
