package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/middleware"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/response"
)

type AuthService interface {
	SendSignInLink(ctx context.Context, email, redirectURL string) error
	CurrentUser(ctx context.Context, uid string) (*models.User, error)
	SignOut(ctx context.Context, user models.User) error
}

type authHandlers struct {
	ResponseHandler response.ResponseHandler
	AuthSvc         AuthService
}

func NewAuthHandlers(deps *Deps) *authHandlers {
	return &authHandlers{
		ResponseHandler: deps.ResponseHandler,
		AuthSvc:         deps.AuthSvc,
	}
}

// AuthRoutes leaves the magic-link request open; the session routes go
// through requireAuth.
func (h *authHandlers) AuthRoutes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/magic-link", h.SendMagicLink)
	r.With(requireAuth).Get("/me", h.Me)
	r.With(requireAuth).Post("/sign-out", h.SignOut)
	return r
}

func (h *authHandlers) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var req dto.MagicLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.AuthSvc.SendSignInLink(r.Context(), req.Email, req.RedirectURL); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, nil)
}

func (h *authHandlers) Me(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	user, err := h.AuthSvc.CurrentUser(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *authHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthSvc.SignOut(r.Context(), middleware.User(r.Context())); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusNoContent, nil)
}
