package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/response"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

type tokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*models.User, error)
}

type Middleware struct {
	Verifier tokenVerifier
	Response response.ResponseHandler
}

func NewMiddleware(verifier tokenVerifier, rh response.ResponseHandler) *Middleware {
	return &Middleware{Verifier: verifier, Response: rh}
}

// context key
type contextKey string

const (
	UIDKey   contextKey = "uid"
	EmailKey contextKey = "email"
)

// FirebaseAuth rejects requests without a valid bearer ID token and scopes the
// rest of the chain to the verified user.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.Response.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "missing Authorization header")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.Response.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "invalid Authorization header")
			return
		}

		user, err := m.Verifier.VerifyToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			m.Response.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UIDKey, user.UID)
		ctx = context.WithValue(ctx, EmailKey, user.Email)
		_, ctx = logger.With(ctx, "uid", user.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// User rebuilds the signed-in principal from the request context.
func User(ctx context.Context) models.User {
	return models.User{UID: UID(ctx), Email: Email(ctx)}
}
