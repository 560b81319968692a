package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/money-tracker/internal/store"
)

func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID)
}

func FirestoreStores(client *firestore.Client) Stores {
	return Stores{
		Accounts:     store.NewAccountStore(client),
		Transactions: store.NewTransactionStore(client),
		Preferences:  store.NewPreferencesStore(client),
	}
}
