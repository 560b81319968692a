package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	AccountSvc      AccountService
	TransactionSvc  TransactionService
	DashboardSvc    DashboardService
	PreferencesSvc  PreferencesService
	AuthSvc         AuthService
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a request body into v. Malformed or oversized bodies come
// back as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewValidationError("request body is required")
		}
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
