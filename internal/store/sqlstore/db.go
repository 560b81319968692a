package sqlstore

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/GregMSThompson/money-tracker/internal/errs"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps a SQLite connection holding every user's ledger, keyed by user_id.
type DB struct {
	conn *sql.DB
}

// dsn turns a path into a URI whose pragmas the driver applies to every
// connection it opens, not just the first.
func dsn(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Open opens (or creates) the database at path and migrates it. Use
// ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	// SQLite has one writer; a single connection also keeps :memory: shared.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('CASH', 'BANK', 'CARD', 'WALLET')),
			currency TEXT NOT NULL,
			opening_balance_minor INTEGER NOT NULL DEFAULT 0,
			archived INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			transaction_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			account_id TEXT NOT NULL REFERENCES accounts (account_id),
			amount_minor INTEGER NOT NULL,
			date TEXT NOT NULL,
			payee TEXT,
			category_id TEXT,
			note TEXT,
			currency TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account_id)`,
		`CREATE VIEW IF NOT EXISTS account_balances AS
			SELECT a.account_id, a.user_id, a.name, a.type, a.currency,
				a.opening_balance_minor, a.archived, a.created_at, a.updated_at,
				COALESCE(SUM(t.amount_minor), 0) AS tx_sum_minor
			FROM accounts a
			LEFT JOIN transactions t ON t.account_id = a.account_id AND t.user_id = a.user_id
			GROUP BY a.account_id`,
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT PRIMARY KEY,
			base_currency TEXT NOT NULL,
			monthly_income_minor INTEGER NOT NULL DEFAULT 0,
			monthly_allowance_minor INTEGER NOT NULL DEFAULT 0,
			default_account_id TEXT,
			week_starts_on TEXT NOT NULL CHECK (week_starts_on IN ('MON', 'SUN')),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapErr(err error, op, message, notFound string) error {
	if err == nil {
		return nil
	}
	if notFound != "" && errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError(notFound)
	}
	return errs.NewDatabaseError(op, message, err)
}

// mapCreateErr is mapErr for inserts. A primary or unique key conflict means
// the id is taken; other constraint failures, such as a missing account,
// stay DatabaseErrors.
func mapCreateErr(err error, message, exists string) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return errs.NewAlreadyExistsError(exists)
		}
	}
	return mapErr(err, "create", message, "")
}

// affectedOne reports NotFound when an UPDATE or DELETE matched nothing.
func affectedOne(res sql.Result, op, message, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errs.NewDatabaseError(op, message, err)
	}
	if n == 0 {
		return errs.NewNotFoundError(notFound)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
