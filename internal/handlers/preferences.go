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

type PreferencesService interface {
	GetPreferences(ctx context.Context, uid string) (*models.Preferences, error)
	SavePreferences(ctx context.Context, uid string, req dto.PreferencesRequest) (*models.Preferences, error)
}

type preferencesHandlers struct {
	ResponseHandler response.ResponseHandler
	PreferencesSvc  PreferencesService
}

func NewPreferencesHandlers(deps *Deps) *preferencesHandlers {
	return &preferencesHandlers{
		ResponseHandler: deps.ResponseHandler,
		PreferencesSvc:  deps.PreferencesSvc,
	}
}

func (h *preferencesHandlers) PreferencesRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetPreferences)
	r.Put("/", h.SavePreferences)
	return r
}

func (h *preferencesHandlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	prefs, err := h.PreferencesSvc.GetPreferences(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, prefs)
}

func (h *preferencesHandlers) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var req dto.PreferencesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	prefs, err := h.PreferencesSvc.SavePreferences(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, prefs)
}
