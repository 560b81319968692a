package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/models"
)

type DashboardSummary struct {
	Month              string               `json:"month"`
	Currency           string               `json:"currency"`
	NetWorth           decimal.Decimal      `json:"netWorth"`
	MonthIncome        decimal.Decimal      `json:"monthIncome"`
	MonthSpend         decimal.Decimal      `json:"monthSpend"`
	AllowanceRemaining decimal.Decimal      `json:"allowanceRemaining"`
	Recent             []models.Transaction `json:"recent"`
	Accounts           []AccountSummary     `json:"accounts"`
	Empty              bool                 `json:"empty"`
}
