package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a signed money movement on one account: negative is an
// outflow, positive an inflow. Date is YYYY-MM-DD.
type Transaction struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Payee         *string         `json:"payee"`
	CategoryID    *string         `json:"categoryId"`
	Note          *string         `json:"note"`
	Currency      *string         `json:"currency"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type TransactionKind string

const (
	KindExpense TransactionKind = "EXPENSE"
	KindIncome  TransactionKind = "INCOME"
)

func (k TransactionKind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// TransactionPatch names the fields an update touches. For the nullable
// string fields a non-nil pointer to "" clears the stored value.
type TransactionPatch struct {
	AccountID  *string
	Amount     *decimal.Decimal
	Date       *string
	Payee      *string
	CategoryID *string
	Note       *string
	Currency   *string
}

func (p TransactionPatch) Empty() bool {
	return p.AccountID == nil && p.Amount == nil && p.Date == nil &&
		p.Payee == nil && p.CategoryID == nil && p.Note == nil && p.Currency == nil
}

// AffectsBalance reports whether applying the patch can change any account's
// current balance.
func (p TransactionPatch) AffectsBalance() bool {
	return p.AccountID != nil || p.Amount != nil
}

// Apply returns a copy of tx with the patch applied.
func (p TransactionPatch) Apply(tx Transaction) Transaction {
	if p.AccountID != nil {
		tx.AccountID = *p.AccountID
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	tx.Payee = applyNullable(tx.Payee, p.Payee)
	tx.CategoryID = applyNullable(tx.CategoryID, p.CategoryID)
	tx.Note = applyNullable(tx.Note, p.Note)
	tx.Currency = applyNullable(tx.Currency, p.Currency)
	return tx
}

func applyNullable(current, patch *string) *string {
	if patch == nil {
		return current
	}
	if *patch == "" {
		return nil
	}
	v := *patch
	return &v
}
