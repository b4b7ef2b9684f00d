package domain

// AuthorizeProcessing is the authorization gate for recording a
// transaction on a customer's behalf. Pure decision, no side effects.
// Rules are evaluated in order and the first failure wins, so callers
// always receive the most specific denial reason.
func AuthorizeProcessing(requester, customer *User) error {
	if !requester.Role.CanProcessTransactions() {
		return ErrRoleNotAuthorized
	}

	if !requester.Eligible() {
		return ErrRequesterNotEligible
	}

	if customer.Role != RoleCustomer {
		return ErrTargetNotCustomer
	}

	if requester.ID == customer.ID {
		return ErrSelfProcessing
	}

	return nil
}

// AuthorizeRead decides whether requester may read a transaction record
// belonging to customerID. Staff read everything; customers only their
// own history.
func AuthorizeRead(requester *User, customerID string) error {
	if requester.Role.IsStaff() {
		return nil
	}

	if requester.ID != customerID {
		return ErrNotPermitted
	}

	return nil
}
