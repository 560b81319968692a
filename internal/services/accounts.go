package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/querycache"
	"github.com/GregMSThompson/money-tracker/pkg/helpers"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

type accountService struct {
	accounts AccountStore
	txs      TransactionStore
	cache    *querycache.Cache
	clockNow func() time.Time
	newID    func() string
}

func NewAccountService(accounts AccountStore, txs TransactionStore, cache *querycache.Cache) *accountService {
	return &accountService{
		accounts: accounts,
		txs:      txs,
		cache:    cache,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// ListAccounts returns the balance view, newest account first.
func (s *accountService) ListAccounts(ctx context.Context, uid string, includeArchived bool) ([]models.AccountBalance, error) {
	all, err := querycache.Fetch(ctx, s.cache, querycache.AccountsKey(uid),
		func(ctx context.Context) ([]models.AccountBalance, error) {
			return s.accounts.ListBalances(ctx, uid)
		})
	if err != nil {
		return nil, err
	}
	if includeArchived {
		return all, nil
	}
	return ledger.Active(all), nil
}

func (s *accountService) CreateAccount(ctx context.Context, uid string, req dto.CreateAccountRequest) (*models.Account, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("account name is required")
	}
	typ := models.AccountType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	if !typ.Valid() {
		return nil, errs.NewValidationError("account type must be one of CASH, BANK, CARD, WALLET")
	}
	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	a := &models.Account{
		AccountID:      s.newID(),
		Name:           name,
		Type:           typ,
		Currency:       currency,
		OpeningBalance: ledger.RoundMoney(helpers.ValueOr(req.OpeningBalance, decimal.Zero)),
	}
	_, err = querycache.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.accounts.Create(ctx, uid, a)
	}, querycache.AccountsKey(uid))
	if err != nil {
		log.Error("failed to create account", "error", err)
		return nil, err
	}

	log.Info("account created", "account_id", a.AccountID, "type", a.Type)
	return a, nil
}

// UpdateAccount renames, retypes or re-labels the currency of an account.
// The opening balance cannot change.
func (s *accountService) UpdateAccount(ctx context.Context, uid, accountID string, req dto.UpdateAccountRequest) (*models.Account, error) {
	var patch models.AccountPatch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.NewValidationError("account name cannot be blank")
		}
		patch.Name = &name
	}
	if req.Type != nil {
		typ := models.AccountType(strings.ToUpper(strings.TrimSpace(string(*req.Type))))
		if !typ.Valid() {
			return nil, errs.NewValidationError("account type must be one of CASH, BANK, CARD, WALLET")
		}
		patch.Type = &typ
	}
	if req.Currency != nil {
		currency, err := normalizeCurrency(*req.Currency)
		if err != nil {
			return nil, err
		}
		patch.Currency = &currency
	}
	if patch.Empty() {
		return nil, errs.NewValidationError("no fields to update")
	}

	return querycache.Mutate(ctx, s.cache, func(ctx context.Context) (*models.Account, error) {
		return s.accounts.Update(ctx, uid, accountID, patch)
	}, querycache.AccountsKey(uid))
}

// ArchiveAccount soft-deletes an account. Its history stays intact and it no
// longer counts toward net worth.
func (s *accountService) ArchiveAccount(ctx context.Context, uid, accountID string) error {
	_, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.accounts.Archive(ctx, uid, accountID)
	}, querycache.AccountsKey(uid))
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("account archived", "account_id", accountID)
	return nil
}

// SetBalance moves an account to target by writing one adjustment
// transaction dated today. The current balance is read fresh from the store,
// never from cache. No write happens when the account is already there.
func (s *accountService) SetBalance(ctx context.Context, uid, accountID string, req dto.SetBalanceRequest) (*dto.SetBalanceResult, error) {
	log := logger.FromContext(ctx)

	if req.Balance == nil {
		return nil, errs.NewValidationError("balance is required")
	}
	target := ledger.RoundMoney(*req.Balance)

	current, err := s.accounts.GetBalance(ctx, uid, accountID)
	if err != nil {
		return nil, err
	}
	if current.Archived {
		return nil, errs.NewValidationError("cannot adjust an archived account")
	}

	delta, needed := ledger.AdjustmentDelta(current.CurrentBalance, target)
	result := &dto.SetBalanceResult{
		AccountID: accountID,
		Previous:  current.CurrentBalance,
		Target:    target,
		Delta:     delta,
	}
	if !needed {
		log.Debug("balance already at target", "account_id", accountID)
		return result, nil
	}

	tx := &models.Transaction{
		TransactionID: s.newID(),
		AccountID:     accountID,
		Amount:        delta,
		Date:          ledger.Today(s.clockNow()),
		Payee:         helpers.Ptr(ledger.AdjustmentPayee),
		Currency:      helpers.Ptr(current.Currency),
	}
	_, err = querycache.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.txs.Create(ctx, uid, tx)
	}, querycache.TransactionsKey(uid), querycache.AccountsKey(uid))
	if err != nil {
		log.Error("failed to write balance adjustment", "error", err)
		return nil, err
	}

	log.Info("balance adjusted", "account_id", accountID, "delta", delta.StringFixed(2))
	result.Adjustment = tx
	return result, nil
}

// Statement lists an account's transactions with the running balance after
// each one.
func (s *accountService) Statement(ctx context.Context, uid, accountID string) (*dto.AccountStatement, error) {
	accounts, err := s.ListAccounts(ctx, uid, true)
	if err != nil {
		return nil, err
	}
	var account *models.AccountBalance
	for i := range accounts {
		if accounts[i].AccountID == accountID {
			account = &accounts[i]
			break
		}
	}
	if account == nil {
		return nil, errs.NewNotFoundError("account not found")
	}

	txs, err := querycache.Fetch(ctx, s.cache, querycache.TransactionsKey(uid, "account", accountID),
		func(ctx context.Context) ([]models.Transaction, error) {
			return s.txs.ListByAccount(ctx, uid, accountID)
		})
	if err != nil {
		return nil, err
	}

	entries := ledger.RunningBalances(account.OpeningBalance, txs)
	if len(entries) > 0 && !entries[0].Balance.Equal(account.CurrentBalance) {
		logger.FromContext(ctx).Warn("statement balance differs from balance view",
			"account_id", accountID,
			"statement", entries[0].Balance.String(),
			"view", account.CurrentBalance.String())
	}
	return &dto.AccountStatement{Account: *account, Entries: entries}, nil
}
