package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/querycache"
)

// memLedger is an in-memory storage gateway shared by the fake stores.
type memLedger struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	txs      map[string]models.Transaction
	prefs    *models.Preferences
	tick     time.Time
}

func newMemLedger() *memLedger {
	return &memLedger{
		accounts: make(map[string]models.Account),
		txs:      make(map[string]models.Transaction),
		tick:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memLedger) now() time.Time {
	m.tick = m.tick.Add(time.Second)
	return m.tick
}

func (m *memLedger) addAccount(id, opening string, archived bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.accounts[id] = models.Account{
		AccountID:      id,
		Name:           "Account " + id,
		Type:           models.AccountTypeBank,
		Currency:       "EUR",
		OpeningBalance: decimal.RequireFromString(opening),
		Archived:       archived,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (m *memLedger) addTx(id, account, amount, date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.txs[id] = models.Transaction{
		TransactionID: id,
		AccountID:     account,
		Amount:        decimal.RequireFromString(amount),
		Date:          date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (m *memLedger) balance(id string) models.AccountBalance {
	sum := decimal.Zero
	for _, t := range m.txs {
		if t.AccountID == id {
			sum = sum.Add(t.Amount)
		}
	}
	return models.NewAccountBalance(m.accounts[id], sum)
}

func (m *memLedger) sortedAccounts(desc bool) []models.Account {
	out := make([]models.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *memLedger) sortedTxs(keep func(models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0)
	for _, t := range m.txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type fakeAccountStore struct {
	db *memLedger

	createCalls       int
	listBalancesCalls int
	getBalanceCalls   int
	err               error
}

func (f *fakeAccountStore) Create(_ context.Context, _ string, a *models.Account) error {
	f.createCalls++
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a.CreatedAt = f.db.now()
	a.UpdatedAt = a.CreatedAt
	f.db.accounts[a.AccountID] = *a
	return nil
}

func (f *fakeAccountStore) Get(_ context.Context, _ string, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.accounts[id]
	if !ok {
		return nil, errs.NewNotFoundError("account not found")
	}
	return &a, nil
}

func (f *fakeAccountStore) List(_ context.Context, _ string) ([]models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.sortedAccounts(false), nil
}

func (f *fakeAccountStore) Update(_ context.Context, _ string, id string, patch models.AccountPatch) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.accounts[id]
	if !ok {
		return nil, errs.NewNotFoundError("account not found")
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.Currency != nil {
		a.Currency = *patch.Currency
	}
	f.db.accounts[id] = a
	return &a, nil
}

func (f *fakeAccountStore) Archive(_ context.Context, _ string, id string) error {
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.accounts[id]
	if !ok {
		return errs.NewNotFoundError("account not found")
	}
	a.Archived = true
	f.db.accounts[id] = a
	return nil
}

func (f *fakeAccountStore) ListBalances(_ context.Context, _ string) ([]models.AccountBalance, error) {
	f.listBalancesCalls++
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]models.AccountBalance, 0, len(f.db.accounts))
	for _, a := range f.db.sortedAccounts(true) {
		out = append(out, f.db.balance(a.AccountID))
	}
	return out, nil
}

func (f *fakeAccountStore) GetBalance(_ context.Context, _ string, id string) (*models.AccountBalance, error) {
	f.getBalanceCalls++
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.accounts[id]; !ok {
		return nil, errs.NewNotFoundError("account not found")
	}
	b := f.db.balance(id)
	return &b, nil
}

type fakeTransactionStore struct {
	db *memLedger

	createCalls    int
	updateCalls    int
	listRangeCalls int
	lastPatch      models.TransactionPatch
	err            error
}

func (f *fakeTransactionStore) Create(_ context.Context, _ string, t *models.Transaction) error {
	f.createCalls++
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t.CreatedAt = f.db.now()
	t.UpdatedAt = t.CreatedAt
	f.db.txs[t.TransactionID] = *t
	return nil
}

func (f *fakeTransactionStore) Get(_ context.Context, _ string, id string) (*models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	return &t, nil
}

func (f *fakeTransactionStore) Update(_ context.Context, _ string, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	f.updateCalls++
	f.lastPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.txs[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	t = patch.Apply(t)
	f.db.txs[id] = t
	return &t, nil
}

func (f *fakeTransactionStore) Delete(_ context.Context, _ string, id string) error {
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.txs[id]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	delete(f.db.txs, id)
	return nil
}

func (f *fakeTransactionStore) ListRange(_ context.Context, _ string, from, to string) ([]models.Transaction, error) {
	f.listRangeCalls++
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.sortedTxs(func(t models.Transaction) bool { return t.Date >= from && t.Date < to }), nil
}

func (f *fakeTransactionStore) ListByAccount(_ context.Context, _ string, accountID string) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.sortedTxs(func(t models.Transaction) bool { return t.AccountID == accountID }), nil
}

type fakePreferencesStore struct {
	db *memLedger

	getCalls  int
	saveCalls int
	err       error
}

func (f *fakePreferencesStore) Get(_ context.Context, _ string) (*models.Preferences, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.prefs == nil {
		return nil, errs.NewNotFoundError("preferences not found")
	}
	p := *f.db.prefs
	return &p, nil
}

func (f *fakePreferencesStore) Save(_ context.Context, _ string, p *models.Preferences) error {
	f.saveCalls++
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	saved := *p
	f.db.prefs = &saved
	return nil
}

type fixture struct {
	db       *memLedger
	accounts *fakeAccountStore
	txs      *fakeTransactionStore
	prefs    *fakePreferencesStore
	cache    *querycache.Cache

	accountSvc     *accountService
	transactionSvc *transactionService
	preferenceSvc  *preferencesService
}

var fixedNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	db := newMemLedger()
	f := &fixture{
		db:       db,
		accounts: &fakeAccountStore{db: db},
		txs:      &fakeTransactionStore{db: db},
		prefs:    &fakePreferencesStore{db: db},
		cache:    querycache.New(),
	}

	ids := 0
	newID := func() string {
		ids++
		return fmt.Sprintf("gen-%d", ids)
	}

	f.accountSvc = NewAccountService(f.accounts, f.txs, f.cache)
	f.accountSvc.clockNow = func() time.Time { return fixedNow }
	f.accountSvc.newID = newID

	f.transactionSvc = NewTransactionService(f.txs, f.accounts, f.prefs, f.cache)
	f.transactionSvc.clockNow = func() time.Time { return fixedNow }
	f.transactionSvc.newID = newID

	f.preferenceSvc = NewPreferencesService(f.prefs, f.accounts, f.cache)
	return f
}
