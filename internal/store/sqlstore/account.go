package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

const accountColumns = `account_id, name, type, currency, opening_balance_minor, archived, created_at, updated_at`

type accountStore struct {
	db *DB
}

func NewAccountStore(db *DB) *accountStore {
	return &accountStore{db: db}
}

func scanAccount(row rowScanner, extra ...any) (models.Account, error) {
	var (
		a                    models.Account
		typ                  string
		openingMinor         int64
		archived             bool
		createdAt, updatedAt string
	)
	dest := append([]any{&a.AccountID, &a.Name, &typ, &a.Currency, &openingMinor, &archived, &createdAt, &updatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return a, err
	}
	a.Type = models.AccountType(typ)
	a.OpeningBalance = ledger.FromMinor(openingMinor)
	a.Archived = archived
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

func (s *accountStore) Create(ctx context.Context, uid string, a *models.Account) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`, user_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AccountID, a.Name, string(a.Type), a.Currency, ledger.ToMinor(a.OpeningBalance), boolInt(a.Archived),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt), uid)
	return mapCreateErr(err, "failed to create account", "account already exists")
}

func (s *accountStore) Get(ctx context.Context, uid, accountID string) (*models.Account, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? AND account_id = ?`, uid, accountID)
	a, err := scanAccount(row)
	if err != nil {
		return nil, mapErr(err, "read", "failed to get account", "account not found")
	}
	return &a, nil
}

// List returns every account, archived included, oldest first.
func (s *accountStore) List(ctx context.Context, uid string) ([]models.Account, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY created_at ASC, account_id ASC`, uid)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list accounts", err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list accounts", err)
	}
	return accounts, nil
}

func (s *accountStore) Update(ctx context.Context, uid, accountID string, patch models.AccountPatch) (*models.Account, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Currency != nil {
		sets = append(sets, "currency = ?")
		args = append(args, *patch.Currency)
	}
	args = append(args, uid, accountID)

	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE user_id = ? AND account_id = ?`, args...)
	if err != nil {
		return nil, errs.NewDatabaseError("update", "failed to update account", err)
	}
	if err := affectedOne(res, "update", "failed to update account", "account not found"); err != nil {
		return nil, err
	}
	return s.Get(ctx, uid, accountID)
}

func (s *accountStore) Archive(ctx context.Context, uid, accountID string) error {
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE accounts SET archived = 1, updated_at = ? WHERE user_id = ? AND account_id = ?`,
		formatTime(time.Now()), uid, accountID)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to archive account", err)
	}
	return affectedOne(res, "update", "failed to archive account", "account not found")
}

func scanBalance(row rowScanner) (models.AccountBalance, error) {
	var sumMinor int64
	a, err := scanAccount(row, &sumMinor)
	if err != nil {
		return models.AccountBalance{}, err
	}
	return models.NewAccountBalance(a, ledger.FromMinor(sumMinor)), nil
}

// ListBalances reads the account_balances view, newest account first.
func (s *accountStore) ListBalances(ctx context.Context, uid string) ([]models.AccountBalance, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+accountColumns+`, tx_sum_minor FROM account_balances
		WHERE user_id = ? ORDER BY created_at DESC, account_id DESC`, uid)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list account balances", err)
	}
	defer rows.Close()

	balances := make([]models.AccountBalance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse account balance", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list account balances", err)
	}
	return balances, nil
}

func (s *accountStore) GetBalance(ctx context.Context, uid, accountID string) (*models.AccountBalance, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+`, tx_sum_minor FROM account_balances WHERE user_id = ? AND account_id = ?`,
		uid, accountID)
	b, err := scanBalance(row)
	if err != nil {
		return nil, mapErr(err, "read", "failed to get account balance", "account not found")
	}
	return &b, nil
}
