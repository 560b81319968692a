package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

type preferencesDoc struct {
	BaseCurrency          string    `firestore:"baseCurrency"`
	MonthlyIncomeMinor    int64     `firestore:"monthlyIncomeMinor"`
	MonthlyAllowanceMinor int64     `firestore:"monthlyAllowanceMinor"`
	DefaultAccountID      *string   `firestore:"defaultAccountId"`
	WeekStartsOn          string    `firestore:"weekStartsOn"`
	UpdatedAt             time.Time `firestore:"updatedAt"`
}

type preferencesStore struct {
	client *firestore.Client
}

func NewPreferencesStore(client *firestore.Client) *preferencesStore {
	return &preferencesStore{client: client}
}

func (s *preferencesStore) doc(uid string) *firestore.DocumentRef {
	return userDoc(s.client, uid).Collection("settings").Doc("preferences")
}

// Get returns NotFoundError until the user saves preferences once.
func (s *preferencesStore) Get(ctx context.Context, uid string) (*models.Preferences, error) {
	snap, err := s.doc(uid).Get(ctx)
	if err != nil {
		return nil, mapErr(err, "read", "failed to get preferences", "preferences not found")
	}
	var d preferencesDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse preferences data", err)
	}
	return &models.Preferences{
		BaseCurrency:     d.BaseCurrency,
		MonthlyIncome:    ledger.FromMinor(d.MonthlyIncomeMinor),
		MonthlyAllowance: ledger.FromMinor(d.MonthlyAllowanceMinor),
		DefaultAccountID: d.DefaultAccountID,
		WeekStartsOn:     models.WeekStart(d.WeekStartsOn),
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

// Save creates the preferences document on first use and overwrites it after.
func (s *preferencesStore) Save(ctx context.Context, uid string, p *models.Preferences) error {
	p.UpdatedAt = time.Now()
	_, err := s.doc(uid).Set(ctx, preferencesDoc{
		BaseCurrency:          p.BaseCurrency,
		MonthlyIncomeMinor:    ledger.ToMinor(p.MonthlyIncome),
		MonthlyAllowanceMinor: ledger.ToMinor(p.MonthlyAllowance),
		DefaultAccountID:      p.DefaultAccountID,
		WeekStartsOn:          string(p.WeekStartsOn),
		UpdatedAt:             p.UpdatedAt,
	})
	return mapErr(err, "update", "failed to save preferences", "")
}
