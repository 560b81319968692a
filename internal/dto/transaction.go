package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/models"
)

// CreateTransactionRequest: when Kind is set Amount is a magnitude and the
// sign comes from Kind; otherwise Amount is taken as already signed.
// AccountID and Date are optional.
type CreateTransactionRequest struct {
	AccountID  string                 `json:"accountId"`
	Kind       models.TransactionKind `json:"kind,omitempty"`
	Amount     *decimal.Decimal       `json:"amount"`
	Date       string                 `json:"date"`
	Payee      *string                `json:"payee"`
	CategoryID *string                `json:"categoryId"`
	Note       *string                `json:"note"`
	Currency   *string                `json:"currency"`
}

type UpdateTransactionRequest struct {
	AccountID  *string                 `json:"accountId"`
	Kind       *models.TransactionKind `json:"kind"`
	Amount     *decimal.Decimal        `json:"amount"`
	Date       *string                 `json:"date"`
	Payee      *string                 `json:"payee"`
	CategoryID *string                 `json:"categoryId"`
	Note       *string                 `json:"note"`
	Currency   *string                 `json:"currency"`
}

type MonthTotals struct {
	Income decimal.Decimal `json:"income"`
	Spend  decimal.Decimal `json:"spend"`
	Net    decimal.Decimal `json:"net"`
}

type TransactionList struct {
	Month        string               `json:"month"`
	Transactions []models.Transaction `json:"transactions"`
	Totals       MonthTotals          `json:"totals"`
}
