package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GregMSThompson/money-tracker/internal/bootstrap"
	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/querycache"
	"github.com/GregMSThompson/money-tracker/internal/services"
	"github.com/GregMSThompson/money-tracker/internal/store/sqlstore"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

type accountService interface {
	ListAccounts(ctx context.Context, uid string, includeArchived bool) ([]models.AccountBalance, error)
	CreateAccount(ctx context.Context, uid string, req dto.CreateAccountRequest) (*models.Account, error)
	ArchiveAccount(ctx context.Context, uid, accountID string) error
	SetBalance(ctx context.Context, uid, accountID string, req dto.SetBalanceRequest) (*dto.SetBalanceResult, error)
}

type transactionService interface {
	ListMonth(ctx context.Context, uid, month string) (*dto.TransactionList, error)
	CreateTransaction(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, uid, transactionID string) error
}

type dashboardService interface {
	Summary(ctx context.Context, uid, month string) (*dto.DashboardSummary, error)
}

// app is the per-invocation wiring: one SQLite file, one user.
type app struct {
	uid          string
	db           *sqlstore.DB
	accounts     accountService
	transactions transactionService
	dashboard    dashboardService
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Manage a local money-tracker ledger",
		Long:          `ledgerctl reads and writes accounts and transactions in a local SQLite ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().String("db", "money-tracker.db", "SQLite database path")
	cmd.PersistentFlags().String("user", "local", "user id the ledger belongs to")
	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = v.BindPFlag("sqlitepath", cmd.PersistentFlags().Lookup("db"))
	_ = v.BindPFlag("ledgeruser", cmd.PersistentFlags().Lookup("user"))
	_ = v.BindPFlag("loglevel", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(accountsCmd(v))
	cmd.AddCommand(transactionsCmd(v))
	cmd.AddCommand(summaryCmd(v))
	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.AutomaticEnv()
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// commandContext carries a stderr logger at the configured level.
func commandContext(ctx context.Context, v *viper.Viper) context.Context {
	log := logger.New(v.GetString("loglevel"), func(level slog.Level) slog.Handler {
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	})
	return logger.ToContext(ctx, log)
}

func openApp(v *viper.Viper) (*app, error) {
	uid := v.GetString("ledgeruser")
	if uid == "" {
		return nil, fmt.Errorf("--user is required")
	}
	db, err := bootstrap.InitSQLite(v.GetString("sqlitepath"))
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	stores := bootstrap.SQLiteStores(db)
	cache := querycache.New()
	accounts := services.NewAccountService(stores.Accounts, stores.Transactions, cache)
	transactions := services.NewTransactionService(stores.Transactions, stores.Accounts, stores.Preferences, cache)
	prefs := services.NewPreferencesService(stores.Preferences, stores.Accounts, cache)

	return &app{
		uid:          uid,
		db:           db,
		accounts:     accounts,
		transactions: transactions,
		dashboard:    services.NewDashboardService(accounts, transactions, prefs),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
