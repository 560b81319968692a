package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/pkg/helpers"
)

func newDashboard(f *fixture) *dashboardService {
	svc := NewDashboardService(f.accountSvc, f.transactionSvc, f.preferenceSvc)
	svc.clockNow = func() time.Time { return fixedNow }
	return svc
}

func TestDashboardSummary(t *testing.T) {
	f := newFixture()
	f.db.addAccount("acc-cash", "20", false)
	f.db.addAccount("acc-bank", "1000", false)
	f.db.addAccount("acc-old", "500", true)
	f.db.addTx("tx-feb", "acc-bank", "-100", "2024-02-28")
	f.db.addTx("tx-1", "acc-bank", "2000", "2024-03-01")
	f.db.addTx("tx-2", "acc-bank", "-50", "2024-03-02")
	f.db.addTx("tx-3", "acc-cash", "-5", "2024-03-03")
	f.db.addTx("tx-4", "acc-bank", "-20", "2024-03-04")
	f.db.addTx("tx-5", "acc-bank", "-10", "2024-03-05")
	f.db.addTx("tx-6", "acc-bank", "0", "2024-03-06")
	p := models.DefaultPreferences()
	p.MonthlyAllowance = decimal.RequireFromString("300")
	f.db.prefs = &p

	sum, err := newDashboard(f).Summary(helpers.TestCtx(), "uid-1", "")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if sum.Month != "2024-03" || sum.Currency != "EUR" {
		t.Fatalf("unexpected month/currency: %s %s", sum.Month, sum.Currency)
	}
	// 20-5 + 1000-100+2000-50-20-10, archived account excluded
	if !sum.NetWorth.Equal(decimal.RequireFromString("2835")) {
		t.Fatalf("net worth = %s, want 2835", sum.NetWorth)
	}
	if !sum.MonthIncome.Equal(decimal.RequireFromString("2000")) {
		t.Fatalf("income = %s, want 2000", sum.MonthIncome)
	}
	if !sum.MonthSpend.Equal(decimal.RequireFromString("85")) {
		t.Fatalf("spend = %s, want 85", sum.MonthSpend)
	}
	if !sum.AllowanceRemaining.Equal(decimal.RequireFromString("215")) {
		t.Fatalf("allowance remaining = %s, want 215", sum.AllowanceRemaining)
	}

	if len(sum.Recent) != 5 || sum.Recent[0].TransactionID != "tx-6" || sum.Recent[4].TransactionID != "tx-2" {
		t.Fatalf("unexpected recent list: %+v", sum.Recent)
	}

	if len(sum.Accounts) != 2 {
		t.Fatalf("account cards = %d, want 2", len(sum.Accounts))
	}
	for _, a := range sum.Accounts {
		switch a.AccountID {
		case "acc-bank":
			if len(a.RecentActivity) != 3 || a.RecentActivity[0].TransactionID != "tx-6" {
				t.Fatalf("bank activity = %+v", a.RecentActivity)
			}
		case "acc-cash":
			if len(a.RecentActivity) != 1 || !a.CurrentBalance.Equal(decimal.RequireFromString("15")) {
				t.Fatalf("cash card = %+v", a)
			}
		default:
			t.Fatalf("unexpected account card %s", a.AccountID)
		}
	}
	if sum.Empty {
		t.Fatalf("summary reported empty")
	}
}

func TestDashboardSummaryEmpty(t *testing.T) {
	f := newFixture()

	sum, err := newDashboard(f).Summary(helpers.TestCtx(), "uid-1", "2024-01")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if !sum.Empty {
		t.Fatalf("expected empty summary")
	}
	if !sum.NetWorth.IsZero() || sum.Recent == nil || sum.Accounts == nil {
		t.Fatalf("empty summary should carry zero totals and empty lists: %+v", sum)
	}
}

func TestDashboardSummaryReflectsNewTransaction(t *testing.T) {
	f := newFixture()
	f.db.addAccount("acc-1", "10", false)
	ctx := helpers.TestCtx()
	svc := newDashboard(f)

	if _, err := svc.Summary(ctx, "uid-1", ""); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if _, err := f.transactionSvc.CreateTransaction(ctx, "uid-1", dto.CreateTransactionRequest{
		Kind:   models.KindExpense,
		Amount: dec("4"),
	}); err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}

	sum, err := svc.Summary(ctx, "uid-1", "")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if !sum.NetWorth.Equal(decimal.RequireFromString("6")) || !sum.MonthSpend.Equal(decimal.RequireFromString("4")) {
		t.Fatalf("stale summary after write: net worth %s, spend %s", sum.NetWorth, sum.MonthSpend)
	}
}

type failingAccounts struct{ err error }

func (f failingAccounts) ListAccounts(context.Context, string, bool) ([]models.AccountBalance, error) {
	return nil, f.err
}

func TestDashboardSummaryPropagatesErrors(t *testing.T) {
	f := newFixture()
	want := errors.New("accounts unavailable")
	svc := NewDashboardService(failingAccounts{err: want}, f.transactionSvc, f.preferenceSvc)

	if _, err := svc.Summary(helpers.TestCtx(), "uid-1", "2024-03"); !errors.Is(err, want) {
		t.Fatalf("expected accounts error, got %v", err)
	}
}
