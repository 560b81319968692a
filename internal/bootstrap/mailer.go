package bootstrap

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/money-tracker/internal/config"
	"github.com/GregMSThompson/money-tracker/internal/mailer"
	"github.com/GregMSThompson/money-tracker/internal/store"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

// InitMailer returns the SMTP sender when a relay is configured, resolving its
// password from Secret Manager, and the log sender otherwise.
func InitMailer(ctx context.Context, cfg *config.Config) (linkSender, error) {
	if !cfg.SMTPEnabled() {
		logger.FromContext(ctx).Warn("SMTPHOST not set, sign-in links will only be logged")
		return mailer.NewLogSender(), nil
	}

	smtpCfg := mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		From:     cfg.SMTPFrom,
	}
	if cfg.SMTPPasswordSecret != "" {
		password, err := resolveSecret(ctx, cfg.ProjectID, cfg.SMTPPasswordSecret)
		if err != nil {
			return nil, fmt.Errorf("resolve smtp password: %w", err)
		}
		smtpCfg.Password = password
	}
	return mailer.NewSMTPSender(smtpCfg), nil
}

func resolveSecret(ctx context.Context, projectID, secret string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()
	return store.NewSecretStore(client, projectID).Get(ctx, secret)
}
