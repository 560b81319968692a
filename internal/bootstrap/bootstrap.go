package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/money-tracker/internal/config"
	"github.com/GregMSThompson/money-tracker/internal/querycache"
	"github.com/GregMSThompson/money-tracker/internal/services"
	"github.com/GregMSThompson/money-tracker/internal/session"
	"github.com/GregMSThompson/money-tracker/internal/store/sqlstore"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

type linkSender interface {
	SendSignInLink(ctx context.Context, email, link string) error
}

// Stores are the storage gateways for whichever backend is configured.
type Stores struct {
	Accounts     services.AccountStore
	Transactions services.TransactionStore
	Preferences  services.PreferencesStore
}

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	SQLite    *sqlstore.DB
	Firebase  *auth.Client
	Stores    Stores
	Cache     *querycache.Cache
	Tracker   *session.Tracker
	Mailer    linkSender

	closers []func() error
}

func Run(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	ctx = logger.ToContext(ctx, bs.Log)

	if err = bs.initStores(ctx, cfg); err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(ctx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Mailer, err = InitMailer(ctx, cfg)
	if err != nil {
		return bs, err
	}

	bs.Cache = querycache.New(
		querycache.WithStaleTime(cfg.CacheStaleTime),
		querycache.WithFetchTimeout(cfg.CacheFetchTimeout),
	)
	bs.Tracker = session.NewTracker()
	unsubscribe := PurgeCacheOnSignOut(bs.Tracker, bs.Cache)
	bs.onClose(func() error {
		unsubscribe()
		return nil
	})

	bs.Log.Info("bootstrap complete", "store_backend", cfg.StoreBackend, "smtp", cfg.SMTPEnabled())
	return bs, nil
}

func (bs *Bootstrap) initStores(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := InitSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		bs.SQLite = db
		bs.onClose(db.Close)
		bs.Stores = SQLiteStores(db)
	default:
		client, err := InitFirestore(ctx, cfg.ProjectID)
		if err != nil {
			return err
		}
		bs.Firestore = client
		bs.onClose(client.Close)
		bs.Stores = FirestoreStores(client)
	}
	return nil
}

// PurgeCacheOnSignOut drops a user's cached queries when they sign out. The
// returned function removes the subscription.
func PurgeCacheOnSignOut(tracker *session.Tracker, cache *querycache.Cache) func() {
	return tracker.Subscribe(func(ctx context.Context, e session.Event) {
		if e.Type != session.SignedOut {
			return
		}
		n := cache.Purge(querycache.OwnedBy(e.User.UID))
		logger.FromContext(ctx).Debug("query cache purged on sign-out", "entries", n)
	})
}

func (bs *Bootstrap) onClose(fn func() error) {
	bs.closers = append(bs.closers, fn)
}

// Close releases everything Run opened, newest first.
func (bs *Bootstrap) Close() error {
	var err error
	for i := len(bs.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, bs.closers[i]())
	}
	bs.closers = nil
	return err
}
