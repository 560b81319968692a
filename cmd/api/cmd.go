package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/money-tracker/internal/bootstrap"
	"github.com/GregMSThompson/money-tracker/internal/config"
	"github.com/GregMSThompson/money-tracker/internal/handlers"
	"github.com/GregMSThompson/money-tracker/internal/middleware"
	"github.com/GregMSThompson/money-tracker/internal/response"
	"github.com/GregMSThompson/money-tracker/internal/router"
	"github.com/GregMSThompson/money-tracker/internal/services"
	"github.com/GregMSThompson/money-tracker/internal/session"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(ctx, cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// gateways
	authGateway := session.NewGateway(bs.Firebase, bs.Mailer, bs.Tracker, cfg.SignInRedirectURL)

	// services
	accserv := services.NewAccountService(bs.Stores.Accounts, bs.Stores.Transactions, bs.Cache)
	txserv := services.NewTransactionService(bs.Stores.Transactions, bs.Stores.Accounts, bs.Stores.Preferences, bs.Cache)
	prefserv := services.NewPreferencesService(bs.Stores.Preferences, bs.Stores.Accounts, bs.Cache)
	dashserv := services.NewDashboardService(accserv, txserv, prefserv)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.AccountSvc = accserv
	deps.TransactionSvc = txserv
	deps.DashboardSvc = dashserv
	deps.PreferencesSvc = prefserv
	deps.AuthSvc = authGateway

	// router
	r := router.NewRouter(deps, middleware.NewMiddleware(authGateway, rh), cfg.RequestTimeout)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		exitOnError("server start failed", err, bs.Log)
	}
}
