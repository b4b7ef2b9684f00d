package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/omnibank/walletd/internal/domain"
)

// PostgreSQL error codes relevant to the ledger write path.
const (
	pgErrLockNotAvailable     = "55P03"
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrUniqueViolation      = "23505"
)

// mapLockError converts a bounded lock wait failure into the domain's
// retryable lock timeout error; other errors pass through.
func mapLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrLockNotAvailable {
		return domain.ErrLockTimeout
	}
	return err
}

// isUniqueViolation reports whether err is a unique-constraint violation
// on the named constraint ("" matches any).
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgErrUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
