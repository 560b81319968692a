package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/models"
)

type CreateAccountRequest struct {
	Name           string             `json:"name"`
	Type           models.AccountType `json:"type"`
	Currency       string             `json:"currency"`
	OpeningBalance *decimal.Decimal   `json:"openingBalance"`
}

type UpdateAccountRequest struct {
	Name     *string             `json:"name"`
	Type     *models.AccountType `json:"type"`
	Currency *string             `json:"currency"`
}

type SetBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance"`
}

// SetBalanceResult reports the adjustment written, if any. Adjustment is nil
// when the account was already at the requested balance.
type SetBalanceResult struct {
	AccountID  string              `json:"accountId"`
	Previous   decimal.Decimal     `json:"previous"`
	Target     decimal.Decimal     `json:"target"`
	Delta      decimal.Decimal     `json:"delta"`
	Adjustment *models.Transaction `json:"adjustment"`
}

// AccountSummary is the dashboard display record of one active account.
type AccountSummary struct {
	AccountID      string               `json:"accountId"`
	Name           string               `json:"name"`
	Type           models.AccountType   `json:"type"`
	Currency       string               `json:"currency"`
	CurrentBalance decimal.Decimal      `json:"currentBalance"`
	RecentActivity []models.Transaction `json:"recentActivity"`
}

type StatementEntry struct {
	models.Transaction
	Balance decimal.Decimal `json:"balance"`
}

// AccountStatement lists an account's transactions newest first, each with the
// balance immediately after it was applied.
type AccountStatement struct {
	Account models.AccountBalance `json:"account"`
	Entries []StatementEntry      `json:"entries"`
}
