package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

type dashboardAccounts interface {
	ListAccounts(ctx context.Context, uid string, includeArchived bool) ([]models.AccountBalance, error)
}

type dashboardTransactions interface {
	ListMonth(ctx context.Context, uid, month string) (*dto.TransactionList, error)
}

type dashboardPreferences interface {
	GetPreferences(ctx context.Context, uid string) (*models.Preferences, error)
}

type dashboardService struct {
	accounts dashboardAccounts
	txs      dashboardTransactions
	prefs    dashboardPreferences
	clockNow func() time.Time
}

func NewDashboardService(accounts dashboardAccounts, txs dashboardTransactions, prefs dashboardPreferences) *dashboardService {
	return &dashboardService{accounts: accounts, txs: txs, prefs: prefs, clockNow: time.Now}
}

// Summary derives the dashboard for a month from the latest account, month
// and preference reads. An empty month means the current one.
func (s *dashboardService) Summary(ctx context.Context, uid, month string) (*dto.DashboardSummary, error) {
	if month == "" {
		month = ledger.MonthOf(s.clockNow()).String()
	}

	var (
		accounts []models.AccountBalance
		list     *dto.TransactionList
		prefs    *models.Preferences
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.ListAccounts(gctx, uid, false)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = s.txs.ListMonth(gctx, uid, month)
		return err
	})
	g.Go(func() error {
		var err error
		prefs, err = s.prefs.GetPreferences(gctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := ledger.MonthTotals(list.Transactions)
	summaries := ledger.Summaries(accounts, list.Transactions, ledger.AccountActivityLimit)
	return &dto.DashboardSummary{
		Month:              list.Month,
		Currency:           prefs.BaseCurrency,
		NetWorth:           ledger.NetWorth(accounts),
		MonthIncome:        totals.Income,
		MonthSpend:         totals.Spend,
		AllowanceRemaining: prefs.MonthlyAllowance.Sub(totals.Spend),
		Recent:             ledger.Recent(list.Transactions, ledger.RecentLimit),
		Accounts:           summaries,
		Empty:              len(summaries) == 0 && len(list.Transactions) == 0,
	}, nil
}
