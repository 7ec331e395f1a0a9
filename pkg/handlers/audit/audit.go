package audit

import (
	"fmt"
	"net/http"

	"github.com/chris/settlement-console/pkg/handlers"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/oapi-codegen/runtime"
)

// AuditHandler serves the read side of the audit log.
type AuditHandler struct {
	Store storage.AuditReader
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(store storage.AuditReader) *AuditHandler {
	return &AuditHandler{Store: store}
}

// ListAuditEntries handles GET /audit?target_id=&target_type=&limit=&cursor=.
func (h *AuditHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var targetID string
	if err := runtime.BindQueryParameter("form", true, true, "target_id", query, &targetID); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter target_id: %v", err), http.StatusBadRequest)
		return
	}
	var targetType, cursor *string
	var limit *int32
	for name, dest := range map[string]any{"target_type": &targetType, "cursor": &cursor, "limit": &limit} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			http.Error(w, fmt.Sprintf("Invalid format for parameter %s: %v", name, err), http.StatusBadRequest)
			return
		}
	}

	filter := storage.AuditFilter{TargetID: targetID}
	if targetType != nil {
		filter.TargetType = *targetType
	}
	if cursor != nil {
		filter.Cursor = *cursor
	}
	if limit != nil {
		filter.Limit = *limit
	}

	page, err := h.Store.ListAudit(r.Context(), filter)
	if err != nil {
		handlers.WriteError(w, r, "Failed to retrieve audit entries", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, page)
}
