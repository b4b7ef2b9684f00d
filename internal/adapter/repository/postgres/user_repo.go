package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omnibank/walletd/internal/domain"
)

// UserRepository implements usecase.UserDirectory as a read-only view of
// the users table. User management lives in the account directory
// service; this repository never writes.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, phone_no, role, is_active, is_verified, created_at, updated_at`

// ResolveUser retrieves a user by ID.
func (r *UserRepository) ResolveUser(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// ClearingAccountUser resolves the unique CEO-role user. The partial
// unique index on users(role) makes more than one row impossible; zero
// rows means the system is misconfigured.
func (r *UserRepository) ClearingAccountUser(ctx context.Context) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'CEO'`

	user, err := scanUser(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrClearingAccountNotFound
		}
		return nil, err
	}

	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		role      string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PhoneNo,
		&role,
		&user.Active,
		&user.Verified,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = domain.Role(role)
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return &user, nil
}
