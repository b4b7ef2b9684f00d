package domain

import "time"

// User is a read-only view of an account-directory record. The wallet
// service never creates or mutates users; it consumes them for
// authorization decisions and clearing-account resolution.
type User struct {
	ID        string
	Name      string
	Email     string
	PhoneNo   string
	Role      Role
	Active    bool
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role represents a user's position in the organisation.
type Role string

const (
	// RoleCustomer holds an ordinary wallet and cannot process transactions.
	RoleCustomer Role = "customer"

	// RoleEmployee can process transactions on a customer's behalf.
	RoleEmployee Role = "employee"

	// RoleAdmin can process transactions on a customer's behalf.
	RoleAdmin Role = "admin"

	// RoleCEO owns the clearing wallet. Exactly one CEO exists; the
	// directory enforces the uniqueness, the ledger relies on it.
	RoleCEO Role = "CEO"
)

var validRoles = map[Role]bool{
	RoleCustomer: true,
	RoleEmployee: true,
	RoleAdmin:    true,
	RoleCEO:      true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanProcessTransactions reports whether the role may record transactions
// on a customer's behalf.
func (r Role) CanProcessTransactions() bool {
	return r == RoleAdmin || r == RoleEmployee || r == RoleCEO
}

// IsStaff reports whether the role may read every customer's records.
func (r Role) IsStaff() bool {
	return r.CanProcessTransactions()
}

// Eligible reports whether the user passed directory-side vetting.
func (u *User) Eligible() bool {
	return u.Active && u.Verified
}
