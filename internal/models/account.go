package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeCash   AccountType = "CASH"
	AccountTypeBank   AccountType = "BANK"
	AccountTypeCard   AccountType = "CARD"
	AccountTypeWallet AccountType = "WALLET"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCard, AccountTypeWallet:
		return true
	}
	return false
}

const DefaultCurrency = "EUR"

// Account is the writable account record. OpeningBalance is fixed once the
// account exists; balance corrections go through adjustment transactions.
type Account struct {
	AccountID      string          `json:"accountId"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Archived       bool            `json:"archived"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AccountBalance is the read-only balance projection of an account.
// CurrentBalance = OpeningBalance + TxSum.
type AccountBalance struct {
	Account
	TxSum          decimal.Decimal `json:"txSum"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

func NewAccountBalance(a Account, txSum decimal.Decimal) AccountBalance {
	return AccountBalance{
		Account:        a,
		TxSum:          txSum,
		CurrentBalance: a.OpeningBalance.Add(txSum),
	}
}

type AccountPatch struct {
	Name     *string
	Type     *AccountType
	Currency *string
}

func (p AccountPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Currency == nil
}
