package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

const (
	// RecentLimit is how many transactions the dashboard shows overall.
	RecentLimit = 5
	// AccountActivityLimit is how many transactions each account card shows.
	AccountActivityLimit = 3

	AdjustmentPayee = "Balance Adjustment"
)

var adjustmentThreshold = decimal.New(5, -3)

// MonthTotals partitions amounts into income (positive) and spend (magnitude
// of negative). Zero amounts count toward neither.
func MonthTotals(txs []models.Transaction) dto.MonthTotals {
	income := decimal.Zero
	spend := decimal.Zero
	for _, tx := range txs {
		switch tx.Amount.Sign() {
		case 1:
			income = income.Add(tx.Amount)
		case -1:
			spend = spend.Add(tx.Amount.Abs())
		}
	}
	return dto.MonthTotals{Income: income, Spend: spend, Net: income.Sub(spend)}
}

// Recent returns the first n transactions in the order given. Callers pass
// lists already sorted date descending.
func Recent(txs []models.Transaction, n int) []models.Transaction {
	if n > len(txs) {
		n = len(txs)
	}
	out := make([]models.Transaction, 0, n)
	return append(out, txs[:n]...)
}

func RecentForAccount(txs []models.Transaction, accountID string, n int) []models.Transaction {
	out := make([]models.Transaction, 0, n)
	for _, tx := range txs {
		if len(out) == n {
			break
		}
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

// SignedAmount applies the sign implied by kind to a magnitude.
func SignedAmount(kind models.TransactionKind, magnitude decimal.Decimal) decimal.Decimal {
	if kind == models.KindExpense {
		return magnitude.Abs().Neg()
	}
	return magnitude.Abs()
}

// RoundMoney rounds to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// AdjustmentDelta is the cent-rounded difference that moves current to target,
// and whether it is large enough to be worth writing.
func AdjustmentDelta(current, target decimal.Decimal) (decimal.Decimal, bool) {
	delta := RoundMoney(target.Sub(current))
	return delta, delta.Abs().GreaterThanOrEqual(adjustmentThreshold)
}
