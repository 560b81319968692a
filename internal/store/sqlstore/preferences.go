package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

type preferencesStore struct {
	db *DB
}

func NewPreferencesStore(db *DB) *preferencesStore {
	return &preferencesStore{db: db}
}

func (s *preferencesStore) Get(ctx context.Context, uid string) (*models.Preferences, error) {
	var (
		p                           models.Preferences
		incomeMinor, allowanceMinor int64
		defaultAccount              sql.NullString
		weekStart, updatedAt        string
	)
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT base_currency, monthly_income_minor, monthly_allowance_minor, default_account_id, week_starts_on, updated_at
		FROM preferences WHERE user_id = ?`, uid).
		Scan(&p.BaseCurrency, &incomeMinor, &allowanceMinor, &defaultAccount, &weekStart, &updatedAt)
	if err != nil {
		return nil, mapErr(err, "read", "failed to get preferences", "preferences not found")
	}
	p.MonthlyIncome = ledger.FromMinor(incomeMinor)
	p.MonthlyAllowance = ledger.FromMinor(allowanceMinor)
	p.DefaultAccountID = stringPtr(defaultAccount)
	p.WeekStartsOn = models.WeekStart(weekStart)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// Save inserts the row on first use and updates it after.
func (s *preferencesStore) Save(ctx context.Context, uid string, p *models.Preferences) error {
	p.UpdatedAt = time.Now()
	now := formatTime(p.UpdatedAt)
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO preferences (user_id, base_currency, monthly_income_minor, monthly_allowance_minor,
			default_account_id, week_starts_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			base_currency = excluded.base_currency,
			monthly_income_minor = excluded.monthly_income_minor,
			monthly_allowance_minor = excluded.monthly_allowance_minor,
			default_account_id = excluded.default_account_id,
			week_starts_on = excluded.week_starts_on,
			updated_at = excluded.updated_at`,
		uid, p.BaseCurrency, ledger.ToMinor(p.MonthlyIncome), ledger.ToMinor(p.MonthlyAllowance),
		nullString(p.DefaultAccountID), string(p.WeekStartsOn), now, now)
	return mapErr(err, "update", "failed to save preferences", "")
}
