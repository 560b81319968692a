package ledger

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/money-tracker/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(id, account, amount, date string) models.Transaction {
	return models.Transaction{TransactionID: id, AccountID: account, Amount: d(amount), Date: date}
}

func TestMonthTotalsPartition(t *testing.T) {
	totals := MonthTotals([]models.Transaction{
		tx("t1", "a", "100", "2024-01-02"),
		tx("t2", "a", "-30", "2024-01-03"),
		tx("t3", "a", "0", "2024-01-04"),
	})
	assert.True(t, totals.Income.Equal(d("100")), totals.Income.String())
	assert.True(t, totals.Spend.Equal(d("30")), totals.Spend.String())
	assert.True(t, totals.Net.Equal(d("70")), totals.Net.String())
}

func TestMonthTotalsEmpty(t *testing.T) {
	totals := MonthTotals(nil)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Spend.IsZero())
}

func TestNetWorthSkipsArchived(t *testing.T) {
	accounts := []models.AccountBalance{
		models.NewAccountBalance(models.Account{AccountID: "a", OpeningBalance: d("100")}, d("-20")),
		models.NewAccountBalance(models.Account{AccountID: "b", OpeningBalance: d("50"), Archived: true}, d("0")),
		models.NewAccountBalance(models.Account{AccountID: "c", OpeningBalance: d("0")}, d("12.34")),
	}
	assert.True(t, NetWorth(accounts).Equal(d("92.34")))
	assert.True(t, NetWorth(nil).IsZero())
}

func TestSummariesAttachRecentActivity(t *testing.T) {
	accounts := []models.AccountBalance{
		models.NewAccountBalance(models.Account{AccountID: "a", Name: "Wallet", Type: models.AccountTypeWallet}, d("0")),
		models.NewAccountBalance(models.Account{AccountID: "z", Archived: true}, d("0")),
	}
	txs := []models.Transaction{
		tx("t5", "a", "-1", "2024-01-05"),
		tx("t4", "b", "-1", "2024-01-04"),
		tx("t3", "a", "-1", "2024-01-03"),
		tx("t2", "a", "-1", "2024-01-02"),
		tx("t1", "a", "-1", "2024-01-01"),
	}

	summaries := Summaries(accounts, txs, AccountActivityLimit)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Wallet", summaries[0].Name)
	require.Len(t, summaries[0].RecentActivity, 3)
	assert.Equal(t, "t5", summaries[0].RecentActivity[0].TransactionID)
	assert.Equal(t, "t2", summaries[0].RecentActivity[2].TransactionID)
}

func TestRecentKeepsFetchOrderAndIsNonNil(t *testing.T) {
	assert.NotNil(t, Recent(nil, RecentLimit))
	assert.Empty(t, Recent(nil, RecentLimit))

	txs := []models.Transaction{tx("t2", "a", "1", "2024-01-02"), tx("t1", "a", "1", "2024-01-01")}
	got := Recent(txs, RecentLimit)
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].TransactionID)

	got[0].TransactionID = "changed"
	assert.Equal(t, "t2", txs[0].TransactionID, "Recent must copy")
}

func TestSignedAmount(t *testing.T) {
	assert.True(t, SignedAmount(models.KindExpense, d("12.5")).Equal(d("-12.5")))
	assert.True(t, SignedAmount(models.KindExpense, d("-12.5")).Equal(d("-12.5")))
	assert.True(t, SignedAmount(models.KindIncome, d("-40")).Equal(d("40")))
}

func TestAdjustmentDelta(t *testing.T) {
	delta, needed := AdjustmentDelta(d("100.00"), d("142.37"))
	assert.True(t, needed)
	assert.Equal(t, "42.37", delta.StringFixed(2))

	_, needed = AdjustmentDelta(d("100.00"), d("100.004"))
	assert.False(t, needed)

	delta, needed = AdjustmentDelta(d("100.00"), d("99.995"))
	assert.True(t, needed)
	assert.Equal(t, "-0.01", delta.StringFixed(2))

	_, needed = AdjustmentDelta(d("12.30"), d("12.3"))
	assert.False(t, needed)
}

func TestRunningBalancesEndAtCurrentBalance(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{TransactionID: "t3", AccountID: "a", Amount: d("-5"), Date: "2024-01-03", CreatedAt: now},
		{TransactionID: "t1", AccountID: "a", Amount: d("20"), Date: "2024-01-01", CreatedAt: now},
		{TransactionID: "t2b", AccountID: "a", Amount: d("-1"), Date: "2024-01-02", CreatedAt: now.Add(time.Minute)},
		{TransactionID: "t2a", AccountID: "a", Amount: d("-2"), Date: "2024-01-02", CreatedAt: now},
	}

	entries := RunningBalances(d("10"), txs)
	require.Len(t, entries, 4)

	ids := []string{entries[0].TransactionID, entries[1].TransactionID, entries[2].TransactionID, entries[3].TransactionID}
	assert.Equal(t, []string{"t3", "t2b", "t2a", "t1"}, ids)
	assert.Equal(t, "30", entries[3].Balance.String())
	assert.Equal(t, "28", entries[2].Balance.String())
	assert.True(t, entries[0].Balance.Equal(CurrentBalance(d("10"), txs)))
}

// Random create/delete sequences never break opening + Σ amounts.
func TestBalanceInvariantUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	opening := d("250.00")
	live := map[string]models.Transaction{}
	expected := opening

	for i := 0; i < 500; i++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			for id, victim := range live {
				delete(live, id)
				expected = expected.Sub(victim.Amount)
				break
			}
		} else {
			amount := decimal.New(rng.Int63n(200000)-100000, -2)
			id := fmt.Sprintf("t%d", i)
			live[id] = models.Transaction{TransactionID: id, AccountID: "a", Amount: amount, Date: "2024-01-01"}
			expected = expected.Add(amount)
		}

		txs := make([]models.Transaction, 0, len(live))
		for _, v := range live {
			txs = append(txs, v)
		}
		require.True(t, CurrentBalance(opening, txs).Equal(expected), "step %d", i)
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(4237), ToMinor(d("42.37")))
	assert.Equal(t, int64(-1250), ToMinor(d("-12.5")))
	assert.Equal(t, int64(1), ToMinor(d("0.005")))
	assert.Equal(t, "42.37", FromMinor(4237).String())
	assert.True(t, FromMinor(ToMinor(d("-0.99"))).Equal(d("-0.99")))
}
