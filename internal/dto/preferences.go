package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/models"
)

// PreferencesRequest replaces the stored preferences; omitted fields fall back
// to their defaults.
type PreferencesRequest struct {
	BaseCurrency     string           `json:"baseCurrency"`
	MonthlyIncome    *decimal.Decimal `json:"monthlyIncome"`
	MonthlyAllowance *decimal.Decimal `json:"monthlyAllowance"`
	DefaultAccountID *string          `json:"defaultAccountId"`
	WeekStartsOn     models.WeekStart `json:"weekStartsOn"`
}
