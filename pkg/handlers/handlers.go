// Package handlers holds the response helpers shared by the HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/money"
	"github.com/chris/settlement-console/pkg/settlement"
	"github.com/chris/settlement-console/pkg/storage"
)

// StatusFor maps an error to the HTTP status reported to the console.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, storage.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrTransientConflict):
		return http.StatusServiceUnavailable
	case errors.Is(err, identity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, settlement.ErrInvalidInput),
		errors.Is(err, settlement.ErrDirectionMismatch),
		errors.Is(err, storage.ErrInvalidCursor),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrUnknownCurrency),
		errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError reports err with the status StatusFor picks. Unexpected errors
// are logged and their detail is not leaked to the client.
func WriteError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), msg, "error", err, "path", r.URL.Path)
		http.Error(w, msg, status)
		return
	}
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
