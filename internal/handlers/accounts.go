package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/middleware"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/internal/response"
)

type AccountService interface {
	ListAccounts(ctx context.Context, uid string, includeArchived bool) ([]models.AccountBalance, error)
	CreateAccount(ctx context.Context, uid string, req dto.CreateAccountRequest) (*models.Account, error)
	UpdateAccount(ctx context.Context, uid, accountID string, req dto.UpdateAccountRequest) (*models.Account, error)
	ArchiveAccount(ctx context.Context, uid, accountID string) error
	SetBalance(ctx context.Context, uid, accountID string, req dto.SetBalanceRequest) (*dto.SetBalanceResult, error)
	Statement(ctx context.Context, uid, accountID string) (*dto.AccountStatement, error)
}

type accountHandlers struct {
	ResponseHandler response.ResponseHandler
	AccountSvc      AccountService
}

func NewAccountHandlers(deps *Deps) *accountHandlers {
	return &accountHandlers{
		ResponseHandler: deps.ResponseHandler,
		AccountSvc:      deps.AccountSvc,
	}
}

func (h *accountHandlers) AccountRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAccounts)
	r.Post("/", h.CreateAccount)
	r.Patch("/{accountId}", h.UpdateAccount)
	r.Delete("/{accountId}", h.ArchiveAccount)
	r.Put("/{accountId}/balance", h.SetBalance)
	r.Get("/{accountId}/statement", h.Statement)
	return r
}

func (h *accountHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	includeArchived := false
	if raw := r.URL.Query().Get("includeArchived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("includeArchived must be true or false"))
			return
		}
		includeArchived = v
	}

	uid := middleware.UID(r.Context())
	accounts, err := h.AccountSvc.ListAccounts(r.Context(), uid, includeArchived)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, accounts)
}

func (h *accountHandlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	account, err := h.AccountSvc.CreateAccount(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, account)
}

func (h *accountHandlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	var req dto.UpdateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	account, err := h.AccountSvc.UpdateAccount(r.Context(), uid, accountID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, account)
}

func (h *accountHandlers) ArchiveAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	uid := middleware.UID(r.Context())
	if err := h.AccountSvc.ArchiveAccount(r.Context(), uid, accountID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusNoContent, nil)
}

func (h *accountHandlers) SetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	var req dto.SetBalanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	result, err := h.AccountSvc.SetBalance(r.Context(), uid, accountID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *accountHandlers) Statement(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	uid := middleware.UID(r.Context())
	statement, err := h.AccountSvc.Statement(r.Context(), uid, accountID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, statement)
}
