package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

type transactionDoc struct {
	TransactionID string    `firestore:"transactionId"`
	AccountID     string    `firestore:"accountId"`
	AmountMinor   int64     `firestore:"amountMinor"`
	Date          string    `firestore:"date"` // YYYY-MM-DD
	Payee         *string   `firestore:"payee"`
	CategoryID    *string   `firestore:"categoryId"`
	Note          *string   `firestore:"note"`
	Currency      *string   `firestore:"currency"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

func newTransactionDoc(t *models.Transaction) transactionDoc {
	return transactionDoc{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		AmountMinor:   ledger.ToMinor(t.Amount),
		Date:          t.Date,
		Payee:         t.Payee,
		CategoryID:    t.CategoryID,
		Note:          t.Note,
		Currency:      t.Currency,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (d transactionDoc) model() models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Amount:        ledger.FromMinor(d.AmountMinor),
		Date:          d.Date,
		Payee:         d.Payee,
		CategoryID:    d.CategoryID,
		Note:          d.Note,
		Currency:      d.Currency,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) txCollection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("transactions")
}

func (s *transactionStore) Create(ctx context.Context, uid string, t *models.Transaction) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	_, err := s.txCollection(uid).Doc(t.TransactionID).Create(ctx, newTransactionDoc(t))
	return mapCreateErr(err, "failed to create transaction", "transaction already exists")
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	snap, err := s.txCollection(uid).Doc(transactionID).Get(ctx)
	if err != nil {
		return nil, mapErr(err, "read", "failed to get transaction", "transaction not found")
	}
	var d transactionDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	t := d.model()
	return &t, nil
}

func (s *transactionStore) Update(ctx context.Context, uid, transactionID string, patch models.TransactionPatch) (*models.Transaction, error) {
	updates := []firestore.Update{{Path: "updatedAt", Value: time.Now()}}
	if patch.AccountID != nil {
		updates = append(updates, firestore.Update{Path: "accountId", Value: *patch.AccountID})
	}
	if patch.Amount != nil {
		updates = append(updates, firestore.Update{Path: "amountMinor", Value: ledger.ToMinor(*patch.Amount)})
	}
	if patch.Date != nil {
		updates = append(updates, firestore.Update{Path: "date", Value: *patch.Date})
	}
	updates = appendNullable(updates, "payee", patch.Payee)
	updates = appendNullable(updates, "categoryId", patch.CategoryID)
	updates = appendNullable(updates, "note", patch.Note)
	updates = appendNullable(updates, "currency", patch.Currency)

	if _, err := s.txCollection(uid).Doc(transactionID).Update(ctx, updates); err != nil {
		return nil, mapErr(err, "update", "failed to update transaction", "transaction not found")
	}
	return s.Get(ctx, uid, transactionID)
}

// appendNullable writes null for an empty string so the field is cleared.
func appendNullable(updates []firestore.Update, path string, v *string) []firestore.Update {
	if v == nil {
		return updates
	}
	if *v == "" {
		return append(updates, firestore.Update{Path: path, Value: nil})
	}
	return append(updates, firestore.Update{Path: path, Value: *v})
}

func (s *transactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	_, err := s.txCollection(uid).Doc(transactionID).Delete(ctx, firestore.Exists)
	return mapErr(err, "delete", "failed to delete transaction", "transaction not found")
}

// ListRange returns transactions dated in [from, to), newest first.
func (s *transactionStore) ListRange(ctx context.Context, uid, from, to string) ([]models.Transaction, error) {
	q := s.txCollection(uid).
		Where("date", ">=", from).
		Where("date", "<", to).
		OrderBy("date", firestore.Desc).
		OrderBy("createdAt", firestore.Desc)
	return s.collect(ctx, q)
}

// ListByAccount returns every transaction on an account, newest first.
func (s *transactionStore) ListByAccount(ctx context.Context, uid, accountID string) ([]models.Transaction, error) {
	q := s.txCollection(uid).
		Where("accountId", "==", accountID).
		OrderBy("date", firestore.Desc).
		OrderBy("createdAt", firestore.Desc)
	return s.collect(ctx, q)
}

func (s *transactionStore) collect(ctx context.Context, q firestore.Query) ([]models.Transaction, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	txs := []models.Transaction{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("query", "failed to query transactions", err)
		}
		var d transactionDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("query", "failed to parse transaction data", err)
		}
		txs = append(txs, d.model())
	}
	return txs, nil
}
