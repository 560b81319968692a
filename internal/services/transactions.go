package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/querycache"
	"github.com/GregMSThompson/money-tracker/pkg/helpers"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

type transactionService struct {
	txs      TransactionStore
	accounts AccountStore
	prefs    PreferencesStore
	cache    *querycache.Cache
	clockNow func() time.Time
	newID    func() string
}

func NewTransactionService(txs TransactionStore, accounts AccountStore, prefs PreferencesStore, cache *querycache.Cache) *transactionService {
	return &transactionService{
		txs:      txs,
		accounts: accounts,
		prefs:    prefs,
		cache:    cache,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

func (s *transactionService) month(token string) (ledger.Month, error) {
	if strings.TrimSpace(token) == "" {
		return ledger.MonthOf(s.clockNow()), nil
	}
	return ledger.ParseMonth(strings.TrimSpace(token))
}

// ListMonth returns the month's transactions newest first with their income
// and spend totals. An empty token means the current month.
func (s *transactionService) ListMonth(ctx context.Context, uid, month string) (*dto.TransactionList, error) {
	m, err := s.month(month)
	if err != nil {
		return nil, err
	}
	txs, err := querycache.Fetch(ctx, s.cache, querycache.TransactionsKey(uid, m.String()),
		func(ctx context.Context) ([]models.Transaction, error) {
			return s.txs.ListRange(ctx, uid, m.Start(), m.End())
		})
	if err != nil {
		return nil, err
	}
	return &dto.TransactionList{
		Month:        m.String(),
		Transactions: txs,
		Totals:       ledger.MonthTotals(txs),
	}, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	log := logger.FromContext(ctx)

	if req.Amount == nil {
		return nil, errs.NewValidationError("amount is required")
	}
	amount := *req.Amount
	if req.Kind != "" {
		if !req.Kind.Valid() {
			return nil, errs.NewValidationError("kind must be EXPENSE or INCOME")
		}
		amount = ledger.SignedAmount(req.Kind, amount)
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = ledger.Today(s.clockNow())
	} else if !ledger.ValidDate(date) {
		return nil, errs.NewValidationError("date must be YYYY-MM-DD")
	}

	currency, err := optionalCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	accountID, err := s.resolveAccount(ctx, uid, req.AccountID)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		TransactionID: s.newID(),
		AccountID:     accountID,
		Amount:        ledger.RoundMoney(amount),
		Date:          date,
		Payee:         helpers.NilIfBlank(req.Payee),
		CategoryID:    helpers.NilIfBlank(req.CategoryID),
		Note:          helpers.NilIfBlank(req.Note),
		Currency:      currency,
	}
	_, err = querycache.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.txs.Create(ctx, uid, tx)
	}, querycache.TransactionsKey(uid), querycache.AccountsKey(uid))
	if err != nil {
		log.Error("failed to create transaction", "error", err)
		return nil, err
	}

	log.Info("transaction created", "transaction_id", tx.TransactionID, "account_id", accountID)
	return tx, nil
}

// resolveAccount picks the account a new transaction lands on: the explicit
// one, else the preferred default while it is active, else the oldest active
// account.
func (s *transactionService) resolveAccount(ctx context.Context, uid, explicit string) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		if _, err := activeAccount(ctx, s.accounts, uid, id); err != nil {
			return "", err
		}
		return id, nil
	}

	prefs, err := s.prefs.Get(ctx, uid)
	switch {
	case err == nil && prefs.DefaultAccountID != nil:
		a, err := s.accounts.Get(ctx, uid, *prefs.DefaultAccountID)
		if err == nil && !a.Archived {
			return a.AccountID, nil
		}
		if err != nil && !isNotFound(err) {
			return "", err
		}
	case err != nil && !isNotFound(err):
		return "", err
	}

	accounts, err := s.accounts.List(ctx, uid)
	if err != nil {
		return "", err
	}
	for _, a := range accounts {
		if !a.Archived {
			return a.AccountID, nil
		}
	}
	return "", errs.NewNoAccountAvailableError()
}

// UpdateTransaction applies a partial patch. A blank accountId is dropped
// rather than sent, so the stored account reference stays valid.
func (s *transactionService) UpdateTransaction(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	var patch models.TransactionPatch

	if req.AccountID != nil {
		if id := strings.TrimSpace(*req.AccountID); id != "" {
			if _, err := activeAccount(ctx, s.accounts, uid, id); err != nil {
				return nil, err
			}
			patch.AccountID = &id
		}
	}

	if req.Kind != nil && !req.Kind.Valid() {
		return nil, errs.NewValidationError("kind must be EXPENSE or INCOME")
	}
	switch {
	case req.Amount != nil:
		amount := *req.Amount
		if req.Kind != nil {
			amount = ledger.SignedAmount(*req.Kind, amount)
		}
		amount = ledger.RoundMoney(amount)
		patch.Amount = &amount
	case req.Kind != nil:
		// kind alone flips the sign of the stored amount
		current, err := s.txs.Get(ctx, uid, transactionID)
		if err != nil {
			return nil, err
		}
		amount := ledger.SignedAmount(*req.Kind, current.Amount)
		if !amount.Equal(current.Amount) {
			patch.Amount = &amount
		}
	}

	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if !ledger.ValidDate(date) {
			return nil, errs.NewValidationError("date must be YYYY-MM-DD")
		}
		patch.Date = &date
	}
	patch.Payee = trimmed(req.Payee)
	patch.CategoryID = trimmed(req.CategoryID)
	patch.Note = trimmed(req.Note)
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency != "" {
			if _, err := normalizeCurrency(currency); err != nil {
				return nil, err
			}
		}
		patch.Currency = &currency
	}

	if patch.Empty() {
		return nil, errs.NewValidationError("no fields to update")
	}

	invalidates := []querycache.Key{querycache.TransactionsKey(uid)}
	if patch.AffectsBalance() {
		invalidates = append(invalidates, querycache.AccountsKey(uid))
	}
	tx, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (*models.Transaction, error) {
		return s.txs.Update(ctx, uid, transactionID, patch)
	}, invalidates...)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("transaction updated", "transaction_id", transactionID)
	return tx, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, uid, transactionID string) error {
	_, err := querycache.Mutate(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.txs.Delete(ctx, uid, transactionID)
	}, querycache.TransactionsKey(uid), querycache.AccountsKey(uid))
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", transactionID)
	return nil
}

// trimmed keeps nil as "untouched" and turns blank into "" which clears the
// field.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func optionalCurrency(s *string) (*string, error) {
	v := helpers.NilIfBlank(s)
	if v == nil {
		return nil, nil
	}
	code, err := normalizeCurrency(*v)
	if err != nil {
		return nil, err
	}
	return &code, nil
}
