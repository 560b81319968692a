package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WeekStart string

const (
	WeekStartsMonday WeekStart = "MON"
	WeekStartsSunday WeekStart = "SUN"
)

func (w WeekStart) Valid() bool {
	return w == WeekStartsMonday || w == WeekStartsSunday
}

type Preferences struct {
	BaseCurrency     string          `json:"baseCurrency"`
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	MonthlyAllowance decimal.Decimal `json:"monthlyAllowance"`
	DefaultAccountID *string         `json:"defaultAccountId"`
	WeekStartsOn     WeekStart       `json:"weekStartsOn"`
	UpdatedAt        time.Time       `json:"updatedAt,omitempty"`
}

// DefaultPreferences is what a user sees before saving anything.
func DefaultPreferences() Preferences {
	return Preferences{
		BaseCurrency:     DefaultCurrency,
		MonthlyIncome:    decimal.Zero,
		MonthlyAllowance: decimal.Zero,
		WeekStartsOn:     WeekStartsMonday,
	}
}
