package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
)

// DefaultCodeAttempts bounds the transaction-id collision retry loop.
const DefaultCodeAttempts = 5

const notifyTimeout = 15 * time.Second

// LedgerUseCase is the wallet ledger engine. It mutates a customer
// wallet and the clearing wallet atomically, under row locks acquired in
// a fixed order, and records the immutable transaction row in the same
// scope.
type LedgerUseCase struct {
	txManager    TransactionManager
	walletRepo   WalletRepository
	txnRepo      TransactionRepository
	directory    UserDirectory
	idGen        IDGenerator
	codeGen      CodeGenerator
	notifier     Notifier
	logger       zerolog.Logger
	codeAttempts int
}

// NewLedgerUseCase creates a new LedgerUseCase. codeAttempts caps the
// transaction-id allocation loop; values below 1 fall back to the
// default.
func NewLedgerUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	directory UserDirectory,
	idGen IDGenerator,
	codeGen CodeGenerator,
	notifier Notifier,
	logger zerolog.Logger,
	codeAttempts int,
) *LedgerUseCase {
	if codeAttempts < 1 {
		codeAttempts = DefaultCodeAttempts
	}

	return &LedgerUseCase{
		txManager:    txManager,
		walletRepo:   walletRepo,
		txnRepo:      txnRepo,
		directory:    directory,
		idGen:        idGen,
		codeGen:      codeGen,
		notifier:     notifier,
		logger:       logger,
		codeAttempts: codeAttempts,
	}
}

// ExecuteInput represents a transaction request at the engine boundary.
type ExecuteInput struct {
	CustomerID        string
	TransactionType   domain.TransactionType
	PaymentMethod     domain.PaymentMethod
	Amount            decimal.Decimal
	DateOfTransaction time.Time
	Evidence          domain.Evidence
}

// ExecuteResult is the committed outcome of a ledger operation.
type ExecuteResult struct {
	Record               *domain.WalletTransaction
	CustomerBalanceAfter decimal.Decimal
}

// Execute runs the full ledger operation: authorization, validation,
// locked balance mutation, transaction-id allocation and record
// persistence as one atomic unit, then a best-effort receipt
// notification after commit.
func (uc *LedgerUseCase) Execute(ctx context.Context, requesterID string, input ExecuteInput) (*ExecuteResult, error) {
	requester, err := uc.directory.ResolveUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	customer, err := uc.directory.ResolveUser(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := domain.AuthorizeProcessing(requester, customer); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	evidence, err := domain.ValidateEvidence(input.TransactionType, input.PaymentMethod, input.Evidence)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Fixed lock order: clearing wallet first, then the customer wallet.
	// Every operation takes both locks, so a total acquisition order
	// rules out circular wait.
	clearing, err := uc.walletRepo.GetClearingForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByUserIDForUpdate(ctx, tx, customer.ID)
	if err != nil {
		return nil, err
	}

	var customerBalance, clearingBalance decimal.Decimal

	if input.TransactionType.IsDebit() {
		if err := wallet.ValidateDebit(input.Amount); err != nil {
			return nil, err
		}

		customerBalance = wallet.ApplyDebit(input.Amount)
		clearingBalance = clearing.ApplyDebit(input.Amount)
	} else {
		customerBalance = wallet.ApplyCredit(input.Amount)
		clearingBalance = clearing.ApplyCredit(input.Amount)
	}

	code, err := uc.allocateTransactionID(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	dateOf := input.DateOfTransaction
	if dateOf.IsZero() {
		dateOf = now
	}

	record := &domain.WalletTransaction{
		ID:                 uc.idGen.Generate(),
		TransactionID:      code,
		CustomerID:         customer.ID,
		TransactionType:    input.TransactionType,
		PaymentMethod:      input.PaymentMethod,
		Amount:             input.Amount,
		DateOfTransaction:  dateOf,
		ReceiptReferenceNo: evidence.ReceiptReferenceNo,
		DocumentPhotoURL:   evidence.DocumentPhotoURL,
		ProcessedByID:      requester.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, customerBalance, now); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.UpdateBalance(ctx, tx, clearing.ID, clearingBalance, now); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// Receipt delivery happens outside the atomic scope; its failure is
	// logged, never propagated.
	go uc.sendReceipt(customer, requester, record, customerBalance)

	return &ExecuteResult{
		Record:               record,
		CustomerBalanceAfter: customerBalance,
	}, nil
}

// allocateTransactionID generates candidate codes until one is unused,
// bounded by the configured attempt cap.
func (uc *LedgerUseCase) allocateTransactionID(ctx context.Context, tx Transaction) (string, error) {
	for attempt := 0; attempt < uc.codeAttempts; attempt++ {
		code := uc.codeGen.Generate()

		exists, err := uc.txnRepo.TransactionIDExists(ctx, tx, code)
		if err != nil {
			return "", err
		}

		if !exists {
			return code, nil
		}

		uc.logger.Warn().
			Str("transaction_id", code).
			Int("attempt", attempt+1).
			Msg("transaction id collision, regenerating")
	}

	return "", domain.ErrTransactionIDExhausted
}

func (uc *LedgerUseCase) sendReceipt(customer, processedBy *domain.User, record *domain.WalletTransaction, balance decimal.Decimal) {
	if uc.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	body := ReceiptHTML(record, customer, processedBy, balance)

	err := uc.notifier.Notify(ctx, customer.Email, customer.Name, "Transaction Confirmation Information", body)
	if err != nil {
		uc.logger.Error().
			Err(err).
			Str("transaction_id", record.TransactionID).
			Str("recipient", customer.Email).
			Msg("receipt notification failed")
		return
	}

	uc.logger.Debug().
		Str("transaction_id", record.TransactionID).
		Msg("receipt notification sent")
}

// ConsistencyReport is the outcome of the omnibus invariant check.
type ConsistencyReport struct {
	Consistent       bool
	ClearingBalance  decimal.Decimal
	CustomersBalance decimal.Decimal
}

// CheckConsistency verifies the omnibus invariant: the clearing balance
// equals the sum of all customer balances.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	clearing, customers, err := uc.walletRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		Consistent:       clearing.Equal(customers),
		ClearingBalance:  clearing,
		CustomersBalance: customers,
	}, nil
}
