package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/ledger"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

const balanceFanout = 8

type accountDoc struct {
	AccountID           string    `firestore:"accountId"`
	Name                string    `firestore:"name"`
	Type                string    `firestore:"type"`
	Currency            string    `firestore:"currency"`
	OpeningBalanceMinor int64     `firestore:"openingBalanceMinor"`
	Archived            bool      `firestore:"archived"`
	CreatedAt           time.Time `firestore:"createdAt"`
	UpdatedAt           time.Time `firestore:"updatedAt"`
}

func newAccountDoc(a *models.Account) accountDoc {
	return accountDoc{
		AccountID:           a.AccountID,
		Name:                a.Name,
		Type:                string(a.Type),
		Currency:            a.Currency,
		OpeningBalanceMinor: ledger.ToMinor(a.OpeningBalance),
		Archived:            a.Archived,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func (d accountDoc) model() models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Name:           d.Name,
		Type:           models.AccountType(d.Type),
		Currency:       d.Currency,
		OpeningBalance: ledger.FromMinor(d.OpeningBalanceMinor),
		Archived:       d.Archived,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type accountStore struct {
	client *firestore.Client
}

func NewAccountStore(client *firestore.Client) *accountStore {
	return &accountStore{client: client}
}

func (s *accountStore) collection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("accounts")
}

func (s *accountStore) txCollection(uid string) *firestore.CollectionRef {
	return userDoc(s.client, uid).Collection("transactions")
}

func (s *accountStore) Create(ctx context.Context, uid string, a *models.Account) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	_, err := s.collection(uid).Doc(a.AccountID).Create(ctx, newAccountDoc(a))
	return mapCreateErr(err, "failed to create account", "account already exists")
}

func (s *accountStore) Get(ctx context.Context, uid, accountID string) (*models.Account, error) {
	snap, err := s.collection(uid).Doc(accountID).Get(ctx)
	if err != nil {
		return nil, mapErr(err, "read", "failed to get account", "account not found")
	}
	var d accountDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
	}
	a := d.model()
	return &a, nil
}

// List returns every account, archived included, oldest first.
func (s *accountStore) List(ctx context.Context, uid string) ([]models.Account, error) {
	return s.list(ctx, uid, firestore.Asc)
}

func (s *accountStore) list(ctx context.Context, uid string, dir firestore.Direction) ([]models.Account, error) {
	docs, err := s.collection(uid).OrderBy("createdAt", dir).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list accounts", err)
	}
	accounts := make([]models.Account, 0, len(docs))
	for _, snap := range docs {
		var d accountDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
		}
		accounts = append(accounts, d.model())
	}
	return accounts, nil
}

func (s *accountStore) Update(ctx context.Context, uid, accountID string, patch models.AccountPatch) (*models.Account, error) {
	updates := []firestore.Update{{Path: "updatedAt", Value: time.Now()}}
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Type != nil {
		updates = append(updates, firestore.Update{Path: "type", Value: string(*patch.Type)})
	}
	if patch.Currency != nil {
		updates = append(updates, firestore.Update{Path: "currency", Value: *patch.Currency})
	}
	if _, err := s.collection(uid).Doc(accountID).Update(ctx, updates); err != nil {
		return nil, mapErr(err, "update", "failed to update account", "account not found")
	}
	return s.Get(ctx, uid, accountID)
}

// Archive soft-deletes an account. Its transactions stay in place.
func (s *accountStore) Archive(ctx context.Context, uid, accountID string) error {
	_, err := s.collection(uid).Doc(accountID).Update(ctx, []firestore.Update{
		{Path: "archived", Value: true},
		{Path: "updatedAt", Value: time.Now()},
	})
	return mapErr(err, "update", "failed to archive account", "account not found")
}

// ListBalances is the balance view: every account, newest first, with the
// sum of its transactions computed server side.
func (s *accountStore) ListBalances(ctx context.Context, uid string) ([]models.AccountBalance, error) {
	accounts, err := s.list(ctx, uid, firestore.Desc)
	if err != nil {
		return nil, err
	}

	balances := make([]models.AccountBalance, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceFanout)
	for i, a := range accounts {
		i, a := i, a
		g.Go(func() error {
			sum, err := s.txSum(gctx, uid, a.AccountID)
			if err != nil {
				return err
			}
			balances[i] = models.NewAccountBalance(a, sum)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

func (s *accountStore) GetBalance(ctx context.Context, uid, accountID string) (*models.AccountBalance, error) {
	a, err := s.Get(ctx, uid, accountID)
	if err != nil {
		return nil, err
	}
	sum, err := s.txSum(ctx, uid, accountID)
	if err != nil {
		return nil, err
	}
	b := models.NewAccountBalance(*a, sum)
	return &b, nil
}

func (s *accountStore) txSum(ctx context.Context, uid, accountID string) (decimal.Decimal, error) {
	q := s.txCollection(uid).Where("accountId", "==", accountID)
	res, err := q.NewAggregationQuery().WithSum("amountMinor", "txSum").Get(ctx)
	if err != nil {
		return decimal.Zero, errs.NewDatabaseError("query", "failed to sum account transactions", err)
	}
	minor, err := aggregateInt(res, "txSum")
	if err != nil {
		return decimal.Zero, errs.NewDatabaseError("query", "failed to read transaction sum", err)
	}
	return ledger.FromMinor(minor), nil
}

func aggregateInt(res firestore.AggregationResult, alias string) (int64, error) {
	raw, ok := res[alias]
	if !ok {
		// no matching documents
		return 0, nil
	}
	v, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation value %T", raw)
	}
	switch x := v.GetValueType().(type) {
	case *firestorepb.Value_IntegerValue:
		return x.IntegerValue, nil
	case *firestorepb.Value_DoubleValue:
		return int64(math.Round(x.DoubleValue)), nil
	case *firestorepb.Value_NullValue:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected aggregation value %T", x)
	}
}
