package bootstrap

import (
	"github.com/GregMSThompson/money-tracker/internal/store/sqlstore"
)

func InitSQLite(path string) (*sqlstore.DB, error) {
	return sqlstore.Open(path)
}

func SQLiteStores(db *sqlstore.DB) Stores {
	return Stores{
		Accounts:     sqlstore.NewAccountStore(db),
		Transactions: sqlstore.NewTransactionStore(db),
		Preferences:  sqlstore.NewPreferencesStore(db),
	}
}
