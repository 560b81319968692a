package services

import (
	"context"

	"github.com/GregMSThompson/money-tracker/internal/models"
)

// AccountStore is the storage gateway for accounts and the balance view.
type AccountStore interface {
	Create(ctx context.Context, uid string, a *models.Account) error
	Get(ctx context.Context, uid, accountID string) (*models.Account, error)
	List(ctx context.Context, uid string) ([]models.Account, error)
	Update(ctx context.Context, uid, accountID string, patch models.AccountPatch) (*models.Account, error)
	Archive(ctx context.Context, uid, accountID string) error
	ListBalances(ctx context.Context, uid string) ([]models.AccountBalance, error)
	GetBalance(ctx context.Context, uid, accountID string) (*models.AccountBalance, error)
}

type TransactionStore interface {
	Create(ctx context.Context, uid string, t *models.Transaction) error
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, uid, transactionID string, patch models.TransactionPatch) (*models.Transaction, error)
	Delete(ctx context.Context, uid, transactionID string) error
	ListRange(ctx context.Context, uid, from, to string) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, uid, accountID string) ([]models.Transaction, error)
}

type PreferencesStore interface {
	Get(ctx context.Context, uid string) (*models.Preferences, error)
	Save(ctx context.Context, uid string, p *models.Preferences) error
}
