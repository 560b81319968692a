package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/pkg/helpers"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

func newRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
}

func TestHandleErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NewNotFoundError("account not found"), http.StatusNotFound, "not_found"},
		{"already exists", errs.NewAlreadyExistsError("dup"), http.StatusConflict, "already_exists"},
		{"validation", errs.NewValidationError("amount is required"), http.StatusBadRequest, "invalid_input"},
		{"no account", errs.NewNoAccountAvailableError(), http.StatusConflict, "no_account"},
		{"database", errs.NewDatabaseError("read", "failed", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		{"external permanent", errs.NewExternalServiceError("firebase-auth", "failed", false, nil), http.StatusBadGateway, "service_unavailable"},
		{"external transient", errs.NewExternalServiceError("smtp", "failed", true, nil), http.StatusServiceUnavailable, "service_unavailable"},
		{"wrapped validation", fmt.Errorf("create: %w", errs.NewValidationError("bad")), http.StatusBadRequest, "invalid_input"},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError, "internal_error"},
	}

	h := New(logger.New("", logger.NewTestHandler))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleError(rec, newRequest(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestHandleErrorHidesInternalDetail(t *testing.T) {
	h := New(logger.New("", logger.NewTestHandler))
	rec := httptest.NewRecorder()

	h.HandleError(rec, newRequest(), errs.NewDatabaseError("read", "select failed on accounts", errors.New("secret dsn")))

	assert.NotContains(t, rec.Body.String(), "secret dsn")
	assert.NotContains(t, rec.Body.String(), "select failed")
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := New(logger.New("", logger.NewTestHandler))
	rec := httptest.NewRecorder()

	h.WriteSuccess(rec, newRequest(), http.StatusCreated, map[string]string{"id": "acc-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"id":"acc-1"}}`, rec.Body.String())
}

func TestWriteSuccessNoContent(t *testing.T) {
	h := New(logger.New("", logger.NewTestHandler))
	rec := httptest.NewRecorder()

	h.WriteSuccess(rec, newRequest(), http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
