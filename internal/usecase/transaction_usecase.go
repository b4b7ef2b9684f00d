package usecase

import (
	"context"

	"github.com/omnibank/walletd/internal/domain"
)

// TransactionUseCase handles transaction read paths with role-scoped
// access control: staff see everything, customers only their own rows.
type TransactionUseCase struct {
	txnRepo   TransactionRepository
	directory UserDirectory
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(txnRepo TransactionRepository, directory UserDirectory) *TransactionUseCase {
	return &TransactionUseCase{
		txnRepo:   txnRepo,
		directory: directory,
	}
}

// Get retrieves a transaction by row ID, enforcing the read contract.
func (uc *TransactionUseCase) Get(ctx context.Context, requesterID, id string) (*domain.WalletTransaction, error) {
	requester, err := uc.directory.ResolveUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.AuthorizeRead(requester, txn.CustomerID); err != nil {
		return nil, err
	}

	return txn, nil
}

// List lists transactions. Non-staff requesters are pinned to their own
// customer ID regardless of the filter they pass.
func (uc *TransactionUseCase) List(ctx context.Context, requesterID string, filter TransactionFilter) ([]*domain.WalletTransaction, error) {
	requester, err := uc.directory.ResolveUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if !requester.Role.IsStaff() {
		filter.CustomerID = requester.ID
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if filter.Limit > 100 {
		filter.Limit = 100
	}

	return uc.txnRepo.List(ctx, filter)
}
