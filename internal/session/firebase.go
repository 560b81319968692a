package session

import (
	"context"
	"net/mail"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

const serviceName = "firebase-auth"

type authClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	EmailSignInLink(ctx context.Context, email string, settings *auth.ActionCodeSettings) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type linkSender interface {
	SendSignInLink(ctx context.Context, email, link string) error
}

type gateway struct {
	client      authClient
	sender      linkSender
	tracker     *Tracker
	continueURL string
}

// NewGateway wires Firebase Auth to the session tracker. continueURL is where
// sign-in links land when the caller does not name one.
func NewGateway(client authClient, sender linkSender, tracker *Tracker, continueURL string) *gateway {
	return &gateway{client: client, sender: sender, tracker: tracker, continueURL: continueURL}
}

// VerifyToken checks a Firebase ID token and returns the user it belongs to.
func (g *gateway) VerifyToken(ctx context.Context, idToken string) (*models.User, error) {
	token, err := g.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	user := models.User{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		user.Email = email
	}
	g.tracker.Observe(ctx, user)
	return &user, nil
}

func (g *gateway) CurrentUser(ctx context.Context, uid string) (*models.User, error) {
	rec, err := g.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewExternalServiceError(serviceName, "failed to load user", true, err)
	}
	user := &models.User{UID: uid}
	if rec.UserInfo != nil {
		user.Email = rec.Email
	}
	return user, nil
}

// SendSignInLink asks Firebase for a passwordless sign-in link and mails it.
func (g *gateway) SendSignInLink(ctx context.Context, email, redirectURL string) error {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValidationError("a valid email address is required")
	}
	continueURL := redirectURL
	if continueURL == "" {
		continueURL = g.continueURL
	}
	if continueURL == "" {
		return errs.NewValidationError("redirectUrl is required")
	}

	link, err := g.client.EmailSignInLink(ctx, email, &auth.ActionCodeSettings{
		URL:             continueURL,
		HandleCodeInApp: true,
	})
	if err != nil {
		log.Error("failed to generate sign-in link", "error", err)
		return errs.NewExternalServiceError(serviceName, "failed to generate sign-in link", false, err)
	}
	return g.sender.SendSignInLink(ctx, email, link)
}

// SignOut revokes the user's refresh tokens and publishes SignedOut.
func (g *gateway) SignOut(ctx context.Context, user models.User) error {
	if err := g.client.RevokeRefreshTokens(ctx, user.UID); err != nil {
		return errs.NewExternalServiceError(serviceName, "failed to revoke session", true, err)
	}
	g.tracker.SignOut(ctx, user)
	logger.FromContext(ctx).Info("user signed out")
	return nil
}
