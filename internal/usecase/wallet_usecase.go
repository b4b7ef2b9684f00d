package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/omnibank/walletd/internal/domain"
)

const overviewCacheTTL = 30 * time.Second

// WalletUseCase handles wallet read paths: the realtime overview and the
// staff dashboard aggregates.
type WalletUseCase struct {
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	directory  UserDirectory
	cache      Cache
	logger     zerolog.Logger
}

// NewWalletUseCase creates a new WalletUseCase. cache may be nil, in
// which case overviews are computed on every call.
func NewWalletUseCase(
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	directory UserDirectory,
	cache Cache,
	logger zerolog.Logger,
) *WalletUseCase {
	return &WalletUseCase{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		directory:  directory,
		cache:      cache,
		logger:     logger,
	}
}

// Overview is the realtime wallet summary: the requester-visible balance
// and the current-year monthly net series up to the current month.
type Overview struct {
	RealtimeBalance     decimal.Decimal   `json:"realtime_balance"`
	MonthlyTransactions []decimal.Decimal `json:"monthly_transactions"`
}

// GetOverview computes the overview for the requester. Staff see the
// clearing balance and the system-wide series; customers see their own.
func (uc *WalletUseCase) GetOverview(ctx context.Context, requesterID string) (*Overview, error) {
	requester, err := uc.directory.ResolveUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	cacheKey := "overview:" + requester.ID
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil && raw != nil {
			var cached Overview
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var balance decimal.Decimal
	customerScope := ""

	if requester.Role.IsStaff() {
		clearing, _, err := uc.walletRepo.Totals(ctx)
		if err != nil {
			return nil, err
		}
		balance = clearing
	} else {
		wallet, err := uc.walletRepo.GetByUserID(ctx, requester.ID)
		if err != nil {
			return nil, err
		}
		balance = wallet.Balance
		customerScope = requester.ID
	}

	now := time.Now().UTC()

	net, err := uc.txnRepo.NetByMonth(ctx, customerScope, now.Year())
	if err != nil {
		return nil, err
	}

	monthly := make([]decimal.Decimal, now.Month())
	for i := range monthly {
		monthly[i] = decimal.Zero
		if v, ok := net[i+1]; ok {
			monthly[i] = v
		}
	}

	overview := &Overview{
		RealtimeBalance:     balance,
		MonthlyTransactions: monthly,
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(overview); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, raw, overviewCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("overview cache write failed")
			}
		}
	}

	return overview, nil
}

// DashboardEntry is one dashboard tile: today's total for a transaction
// type and its movement against the prior seven-day total.
type DashboardEntry struct {
	Field              string          `json:"field"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Progress           string          `json:"progress"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
}

// Dashboard summarises today's activity for staff.
type Dashboard struct {
	Deposit       DashboardEntry `json:"deposit"`
	Withdrawal    DashboardEntry `json:"withdrawal"`
	TodaysBalance DashboardEntry `json:"todays_balance"`
}

// GetDashboard returns today's totals versus the prior seven days.
// Staff only.
func (uc *WalletUseCase) GetDashboard(ctx context.Context, requesterID string) (*Dashboard, error) {
	requester, err := uc.directory.ResolveUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if !requester.Role.IsStaff() {
		return nil, domain.ErrNotPermitted
	}

	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	sevenDaysAgo := todayStart.AddDate(0, 0, -7)

	today, err := uc.txnRepo.TotalsBetween(ctx, todayStart, now)
	if err != nil {
		return nil, err
	}

	prior, err := uc.txnRepo.TotalsBetween(ctx, sevenDaysAgo, todayStart)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Deposit:       dashboardEntry("Deposit", today.Deposit, prior.Deposit),
		Withdrawal:    dashboardEntry("Withdrawal", today.Withdrawal, prior.Withdrawal),
		TodaysBalance: dashboardEntry("Today's Balance", today.Net(), prior.Net()),
	}, nil
}

func dashboardEntry(field string, today, prior decimal.Decimal) DashboardEntry {
	direction, pct := progressAgainst(today, prior)

	return DashboardEntry{
		Field:              field,
		TotalAmount:        today,
		Progress:           direction,
		ProgressPercentage: pct,
	}
}

// progressAgainst compares today's total with a prior-period total and
// returns the movement direction and percentage change.
func progressAgainst(today, prior decimal.Decimal) (string, decimal.Decimal) {
	if prior.IsZero() {
		if today.IsPositive() {
			return "up", decimal.NewFromInt(100)
		}
		return "neutral", decimal.Zero
	}

	change := today.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Round(2)
	if change.IsNegative() {
		return "down", change.Abs()
	}

	return "up", change
}
