package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/omnibank/walletd/internal/domain"
	"github.com/omnibank/walletd/internal/usecase"
	"github.com/omnibank/walletd/internal/usecase/mocks"
)

var (
	employee = &domain.User{ID: "emp-1", Name: "Eve Employee", Email: "eve@omnibank.example", Role: domain.RoleEmployee, Active: true, Verified: true}
	customer = &domain.User{ID: "cust-1", Name: "Carl Customer", Email: "carl@example.com", Role: domain.RoleCustomer, Active: true, Verified: true}
	ceo      = &domain.User{ID: "ceo-1", Name: "Cleo CEO", Email: "cleo@omnibank.example", Role: domain.RoleCEO, Active: true, Verified: true}
)

type ledgerFixture struct {
	walletRepo *mocks.MockWalletRepository
	txnRepo    *mocks.MockTransactionRepository
	txMgr      *mocks.MockTransactionManager
	directory  *mocks.MockUserDirectory
	codeGen    *mocks.MockCodeGenerator
	uc         *usecase.LedgerUseCase
}

func newLedgerFixture(t *testing.T, notifier usecase.Notifier) *ledgerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	directory := mocks.NewMockUserDirectory(ctrl)
	directory.EXPECT().ResolveUser(gomock.Any(), employee.ID).Return(employee, nil).AnyTimes()
	directory.EXPECT().ResolveUser(gomock.Any(), customer.ID).Return(customer, nil).AnyTimes()
	directory.EXPECT().ResolveUser(gomock.Any(), ceo.ID).Return(ceo, nil).AnyTimes()
	directory.EXPECT().ResolveUser(gomock.Any(), gomock.Any()).Return(nil, domain.ErrUserNotFound).AnyTimes()

	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.Put(&domain.Wallet{ID: "w-ceo", UserID: ceo.ID, Balance: decimal.Zero})
	walletRepo.Put(&domain.Wallet{ID: "w-cust", UserID: customer.ID, Balance: decimal.Zero})
	walletRepo.SetClearing(ceo.ID)

	txnRepo := mocks.NewMockTransactionRepository()
	txMgr := mocks.NewMockTransactionManager()
	codeGen := mocks.NewMockCodeGenerator()

	uc := usecase.NewLedgerUseCase(
		txMgr, walletRepo, txnRepo, directory,
		mocks.NewMockIDGenerator(), codeGen, notifier,
		zerolog.Nop(), 0,
	)

	return &ledgerFixture{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		txMgr:      txMgr,
		directory:  directory,
		codeGen:    codeGen,
		uc:         uc,
	}
}

func deposit(amount int64) usecase.ExecuteInput {
	return usecase.ExecuteInput{
		CustomerID:      customer.ID,
		TransactionType: domain.TransactionTypeDeposit,
		PaymentMethod:   domain.PaymentMethodCash,
		Amount:          decimal.NewFromInt(amount),
	}
}

func withdrawal(amount int64) usecase.ExecuteInput {
	return usecase.ExecuteInput{
		CustomerID:      customer.ID,
		TransactionType: domain.TransactionTypeWithdrawal,
		PaymentMethod:   domain.PaymentMethodCash,
		Amount:          decimal.NewFromInt(amount),
	}
}

func TestLedgerExecute_DepositsAccumulate(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, employee.ID, deposit(100))
	if err != nil {
		t.Fatalf("first deposit failed: %v", err)
	}
	if !first.CustomerBalanceAfter.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance 100, got %s", first.CustomerBalanceAfter)
	}

	second, err := f.uc.Execute(ctx, employee.ID, deposit(50))
	if err != nil {
		t.Fatalf("second deposit failed: %v", err)
	}
	if !second.CustomerBalanceAfter.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected balance 150, got %s", second.CustomerBalanceAfter)
	}

	if !f.walletRepo.Balance(customer.ID).Equal(decimal.NewFromInt(150)) {
		t.Errorf("customer wallet not persisted, got %s", f.walletRepo.Balance(customer.ID))
	}
	if !f.walletRepo.Balance(ceo.ID).Equal(decimal.NewFromInt(150)) {
		t.Errorf("clearing wallet must mirror customer total, got %s", f.walletRepo.Balance(ceo.ID))
	}
	if f.txnRepo.Count() != 2 {
		t.Errorf("expected 2 records, got %d", f.txnRepo.Count())
	}

	if first.Record.ProcessedByID != employee.ID {
		t.Errorf("record must carry the processor, got %s", first.Record.ProcessedByID)
	}
}

func TestLedgerExecute_InsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	if _, err := f.uc.Execute(ctx, employee.ID, deposit(30)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err := f.uc.Execute(ctx, employee.ID, withdrawal(40))
	if err != domain.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Nothing may change on the failed attempt.
	if !f.walletRepo.Balance(customer.ID).Equal(decimal.NewFromInt(30)) {
		t.Errorf("customer balance changed to %s", f.walletRepo.Balance(customer.ID))
	}
	if !f.walletRepo.Balance(ceo.ID).Equal(decimal.NewFromInt(30)) {
		t.Errorf("clearing balance changed to %s", f.walletRepo.Balance(ceo.ID))
	}
	if f.txnRepo.Count() != 1 {
		t.Errorf("expected 1 record, got %d", f.txnRepo.Count())
	}
}

func TestLedgerExecute_WithdrawalOfFullBalance(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	if _, err := f.uc.Execute(ctx, employee.ID, deposit(30)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	result, err := f.uc.Execute(ctx, employee.ID, withdrawal(30))
	if err != nil {
		t.Fatalf("withdrawal failed: %v", err)
	}
	if !result.CustomerBalanceAfter.IsZero() {
		t.Errorf("expected zero balance, got %s", result.CustomerBalanceAfter)
	}
	if !f.walletRepo.Balance(ceo.ID).IsZero() {
		t.Errorf("expected zero clearing balance, got %s", f.walletRepo.Balance(ceo.ID))
	}
}

func TestLedgerExecute_AuthorizationFailures(t *testing.T) {
	tests := []struct {
		name        string
		requesterID string
		customerID  string
		wantErr     error
	}{
		{name: "customer cannot process", requesterID: customer.ID, customerID: customer.ID, wantErr: domain.ErrRoleNotAuthorized},
		{name: "target must be a customer", requesterID: employee.ID, customerID: ceo.ID, wantErr: domain.ErrTargetNotCustomer},
		{name: "unknown requester", requesterID: "ghost", customerID: customer.ID, wantErr: domain.ErrUserNotFound},
		{name: "unknown customer", requesterID: employee.ID, customerID: "ghost", wantErr: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t, nil)

			input := deposit(10)
			input.CustomerID = tt.customerID

			_, err := f.uc.Execute(context.Background(), tt.requesterID, input)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if f.txnRepo.Count() != 0 {
				t.Errorf("no record may be written, got %d", f.txnRepo.Count())
			}
		})
	}
}

func TestLedgerExecute_EvidencePersistence(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	receipt := "REF-42"
	photo := "https://docs.example/42.jpg"

	input := deposit(75)
	input.PaymentMethod = domain.PaymentMethodBankTransfer
	input.Evidence = domain.Evidence{ReceiptReferenceNo: &receipt, DocumentPhotoURL: &photo}

	result, err := f.uc.Execute(ctx, employee.ID, input)
	if err != nil {
		t.Fatalf("bank transfer deposit failed: %v", err)
	}
	if result.Record.ReceiptReferenceNo == nil || *result.Record.ReceiptReferenceNo != receipt {
		t.Error("receipt reference must be persisted for bank transfers")
	}

	// Cash transactions null stray evidence.
	cash := deposit(10)
	cash.Evidence = domain.Evidence{ReceiptReferenceNo: &receipt}

	result, err = f.uc.Execute(ctx, employee.ID, cash)
	if err != nil {
		t.Fatalf("cash deposit failed: %v", err)
	}
	if result.Record.ReceiptReferenceNo != nil {
		t.Error("cash transactions must not carry evidence")
	}
}

func TestLedgerExecute_TransactionIDCollisionRetry(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	codes := []string{"TXDUPLICATE", "TXDUPLICATE", "TXFRESH0001"}
	calls := 0
	f.codeGen.GenerateFunc = func() string {
		code := codes[calls%len(codes)]
		calls++
		return code
	}

	existing := map[string]bool{"TXDUPLICATE": true}
	f.txnRepo.TransactionIDExistsFunc = func(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
		return existing[id], nil
	}

	result, err := f.uc.Execute(ctx, employee.ID, deposit(10))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if result.Record.TransactionID != "TXFRESH0001" {
		t.Errorf("expected the first free code, got %s", result.Record.TransactionID)
	}
	if calls != 3 {
		t.Errorf("expected 3 generation attempts, got %d", calls)
	}
}

func TestLedgerExecute_TransactionIDExhaustion(t *testing.T) {
	f := newLedgerFixture(t, nil)

	f.txnRepo.TransactionIDExistsFunc = func(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
		return true, nil
	}

	_, err := f.uc.Execute(context.Background(), employee.ID, deposit(10))
	if err != domain.ErrTransactionIDExhausted {
		t.Fatalf("expected ErrTransactionIDExhausted, got %v", err)
	}
	if f.txnRepo.Count() != 0 {
		t.Errorf("no record may be written, got %d", f.txnRepo.Count())
	}
	if !f.walletRepo.Balance(customer.ID).IsZero() {
		t.Errorf("balance changed to %s", f.walletRepo.Balance(customer.ID))
	}
}

func TestLedgerExecute_ReceiptNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	sent := make(chan string, 1)
	notifier.EXPECT().
		Notify(gomock.Any(), customer.Email, customer.Name, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, email, name, subject, body string) error {
			sent <- body
			return nil
		})

	f := newLedgerFixture(t, notifier)

	result, err := f.uc.Execute(context.Background(), employee.ID, deposit(100))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	select {
	case body := <-sent:
		if body == "" {
			t.Error("expected a non-empty receipt body")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receipt notification never sent")
	}

	if !result.CustomerBalanceAfter.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance 100, got %s", result.CustomerBalanceAfter)
	}
}

func TestLedgerExecute_ConcurrentDepositsSerialize(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	// Emulate the row lock: the clearing lookup takes a mutex that the
	// transaction releases on commit or rollback.
	var lock sync.Mutex
	f.txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		release := func(ctx context.Context) error {
			lock.Unlock()
			return nil
		}
		return &mocks.MockTransaction{CommitFunc: release, RollbackFunc: release}, nil
	}
	f.walletRepo.GetClearingForUpdateFunc = func(ctx context.Context, tx usecase.Transaction) (*domain.Wallet, error) {
		lock.Lock()
		return f.walletRepo.GetByUserID(ctx, ceo.ID)
	}

	const workers = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.Execute(ctx, employee.ID, deposit(10)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent deposit failed: %v", err)
	}

	want := decimal.NewFromInt(10 * workers)
	if !f.walletRepo.Balance(customer.ID).Equal(want) {
		t.Errorf("expected customer balance %s, got %s", want, f.walletRepo.Balance(customer.ID))
	}
	if !f.walletRepo.Balance(ceo.ID).Equal(want) {
		t.Errorf("expected clearing balance %s, got %s", want, f.walletRepo.Balance(ceo.ID))
	}
	if f.txnRepo.Count() != workers {
		t.Errorf("expected %d records, got %d", workers, f.txnRepo.Count())
	}

	seen := make(map[string]bool)
	for _, code := range f.txnRepo.Codes() {
		if seen[code] {
			t.Errorf("duplicate transaction id %s", code)
		}
		seen[code] = true
	}
}

func TestCheckConsistency(t *testing.T) {
	f := newLedgerFixture(t, nil)
	ctx := context.Background()

	if _, err := f.uc.Execute(ctx, employee.ID, deposit(100)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := f.uc.Execute(ctx, employee.ID, withdrawal(40)); err != nil {
		t.Fatalf("withdrawal failed: %v", err)
	}

	report, err := f.uc.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("consistency check failed: %v", err)
	}
	if !report.Consistent {
		t.Errorf("ledger inconsistent: clearing %s, customers %s", report.ClearingBalance, report.CustomersBalance)
	}

	// Break the invariant and make sure the check notices.
	f.walletRepo.Put(&domain.Wallet{ID: "w-x", UserID: "cust-x", Balance: decimal.NewFromInt(5)})

	report, err = f.uc.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("consistency check failed: %v", err)
	}
	if report.Consistent {
		t.Error("expected inconsistency after tampering")
	}
}

func TestLedgerExecute_DefaultsDateOfTransaction(t *testing.T) {
	f := newLedgerFixture(t, nil)

	result, err := f.uc.Execute(context.Background(), employee.ID, deposit(10))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if result.Record.DateOfTransaction.IsZero() {
		t.Error("date of transaction must default to now")
	}
}
