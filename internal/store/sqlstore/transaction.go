package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

const transactionColumns = `transaction_id, account_id, amount_minor, date, payee, category_id, note, currency, created_at, updated_at`

type transactionStore struct {
	db *DB
}

func NewTransactionStore(db *DB) *transactionStore {
	return &transactionStore{db: db}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		t                           models.Transaction
		amountMinor                 int64
		payee, category, note, curr sql.NullString
		createdAt, updatedAt        string
	)
	err := row.Scan(&t.TransactionID, &t.AccountID, &amountMinor, &t.Date,
		&payee, &category, &note, &curr, &createdAt, &updatedAt)
	if err != nil {
		return t, err
	}
	t.Amount = ledger.FromMinor(amountMinor)
	t.Payee = stringPtr(payee)
	t.CategoryID = stringPtr(category)
	t.Note = stringPtr(note)
	t.Currency = stringPtr(curr)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func (s *transactionStore) Create(ctx context.Context, uid string, t *models.Transaction) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`, user_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TransactionID, t.AccountID, ledger.ToMinor(t.Amount), t.Date,
		nullString(t.Payee), nullString(t.CategoryID), nullString(t.Note), nullString(t.Currency),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt), uid)
	return mapCreateErr(err, "failed to create transaction", "transaction already exists")
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? AND transaction_id = ?`, uid, transactionID)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, mapErr(err, "read", "failed to get transaction", "transaction not found")
	}
	return &t, nil
}

func (s *transactionStore) Update(ctx context.Context, uid, transactionID string, patch models.TransactionPatch) (*models.Transaction, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}
	set := func(column string, v any) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}
	if patch.AccountID != nil {
		set("account_id", *patch.AccountID)
	}
	if patch.Amount != nil {
		set("amount_minor", ledger.ToMinor(*patch.Amount))
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	for column, v := range map[string]*string{
		"payee":       patch.Payee,
		"category_id": patch.CategoryID,
		"note":        patch.Note,
		"currency":    patch.Currency,
	} {
		if v == nil {
			continue
		}
		if *v == "" {
			set(column, nil)
		} else {
			set(column, *v)
		}
	}
	args = append(args, uid, transactionID)

	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE transactions SET `+strings.Join(sets, ", ")+` WHERE user_id = ? AND transaction_id = ?`, args...)
	if err != nil {
		return nil, errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	if err := affectedOne(res, "update", "failed to update transaction", "transaction not found"); err != nil {
		return nil, err
	}
	return s.Get(ctx, uid, transactionID)
}

func (s *transactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	res, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND transaction_id = ?`, uid, transactionID)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return affectedOne(res, "delete", "failed to delete transaction", "transaction not found")
}

// ListRange returns transactions dated in [from, to), newest first.
func (s *transactionStore) ListRange(ctx context.Context, uid, from, to string) ([]models.Transaction, error) {
	return s.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date DESC, created_at DESC`, uid, from, to)
}

func (s *transactionStore) ListByAccount(ctx context.Context, uid, accountID string) ([]models.Transaction, error) {
	return s.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = ? AND account_id = ?
		ORDER BY date DESC, created_at DESC`, uid, accountID)
}

func (s *transactionStore) query(ctx context.Context, q string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errs.NewDatabaseError("query", "failed to query transactions", err)
	}
	defer rows.Close()

	txs := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, errs.NewDatabaseError("query", "failed to parse transaction data", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("query", "failed to query transactions", err)
	}
	return txs, nil
}
