package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

// NetWorth sums the current balance of every non-archived account.
func NetWorth(accounts []models.AccountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Archived {
			continue
		}
		total = total.Add(a.CurrentBalance)
	}
	return total
}

// Active returns the non-archived accounts in their original order.
func Active(accounts []models.AccountBalance) []models.AccountBalance {
	out := make([]models.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		if !a.Archived {
			out = append(out, a)
		}
	}
	return out
}

// Summaries builds display records for the active accounts, keeping their
// order, each with up to activity of its most recent transactions from txs.
func Summaries(accounts []models.AccountBalance, txs []models.Transaction, activity int) []dto.AccountSummary {
	active := Active(accounts)
	out := make([]dto.AccountSummary, 0, len(active))
	for _, a := range active {
		out = append(out, dto.AccountSummary{
			AccountID:      a.AccountID,
			Name:           a.Name,
			Type:           a.Type,
			Currency:       a.Currency,
			CurrentBalance: a.CurrentBalance,
			RecentActivity: RecentForAccount(txs, a.AccountID, activity),
		})
	}
	return out
}

// CurrentBalance is opening plus the sum of txs. Callers pass only the
// account's own transactions.
func CurrentBalance(opening decimal.Decimal, txs []models.Transaction) decimal.Decimal {
	total := opening
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

// RunningBalances orders txs oldest first by date then creation time, applies
// them to opening, and returns the entries newest first.
func RunningBalances(opening decimal.Decimal, txs []models.Transaction) []dto.StatementEntry {
	ordered := append([]models.Transaction(nil), txs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].TransactionID < ordered[j].TransactionID
	})

	entries := make([]dto.StatementEntry, len(ordered))
	balance := opening
	for i, tx := range ordered {
		balance = balance.Add(tx.Amount)
		entries[len(ordered)-1-i] = dto.StatementEntry{Transaction: tx, Balance: balance}
	}
	return entries
}
