package requests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chris/settlement-console/pkg/handlers"
	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/settlement"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// NameResolver resolves user display names for listings.
type NameResolver interface {
	ResolveMany(ctx context.Context, userIDs []string) map[string]string
}

// RequestsHandler holds the dependencies for transaction request handlers.
type RequestsHandler struct {
	Ops   settlement.Operations
	Store storage.RequestReader
	Names NameResolver
}

// NewRequestsHandler creates a new RequestsHandler.
func NewRequestsHandler(ops settlement.Operations, store storage.RequestReader, names NameResolver) *RequestsHandler {
	return &RequestsHandler{Ops: ops, Store: store, Names: names}
}

// ActionBody is the optional JSON body of an admin action.
type ActionBody struct {
	Reason string `json:"reason"`
}

// RequestView is a request as rendered to the console.
type RequestView struct {
	models.TransactionRequest
	UserDisplayName string `json:"user_display_name"`
}

// ListResponse is one page of requests.
type ListResponse struct {
	Items      []RequestView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Act returns the handler for POST /{deposits|withdrawals}/{id}/{action}.
func (h *RequestsHandler) Act(direction models.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identity.FromContext(r.Context())
		if !ok {
			handlers.WriteError(w, r, "Missing admin identity", identity.ErrUnauthorized)
			return
		}

		verb, err := settlement.ParseVerb(chi.URLParam(r, "action"))
		if err != nil {
			handlers.WriteError(w, r, "Invalid action", err)
			return
		}

		var body ActionBody
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
				http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
				return
			}
		}

		updated, err := settlement.Dispatch(r.Context(), h.Ops, settlement.ActionCommand{
			RequestID:  chi.URLParam(r, "id"),
			Direction:  direction,
			Verb:       verb,
			ActorID:    actor.ID,
			ActorLabel: actor.Label,
			Reason:     body.Reason,
		})
		if err != nil {
			handlers.WriteError(w, r, fmt.Sprintf("Failed to %s %s", verb, direction), err)
			return
		}

		handlers.WriteJSON(w, http.StatusOK, updated)
	}
}

// ListRequests handles GET /requests?status=&direction=&created_before=&limit=&cursor=.
func (h *RequestsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Optional parameters bind into pointers that stay nil when absent.
	var status, direction, cursor *string
	var limit *int32
	var createdBefore *time.Time
	for name, dest := range map[string]any{
		"status":         &status,
		"direction":      &direction,
		"cursor":         &cursor,
		"limit":          &limit,
		"created_before": &createdBefore,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			http.Error(w, fmt.Sprintf("Invalid format for parameter %s: %v", name, err), http.StatusBadRequest)
			return
		}
	}

	filter := storage.RequestFilter{CreatedBefore: createdBefore}
	if limit != nil {
		if *limit < 0 {
			http.Error(w, "limit must not be negative", http.StatusBadRequest)
			return
		}
		filter.Limit = *limit
	}
	if cursor != nil {
		filter.Cursor = *cursor
	}
	if status != nil {
		st, err := models.ParseRequestStatus(*status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Status = st
	}
	if direction != nil {
		dir, err := models.ParseDirection(*direction)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Direction = dir
	}

	page, err := h.Store.ListRequests(r.Context(), filter)
	if err != nil {
		handlers.WriteError(w, r, "Failed to retrieve requests", err)
		return
	}

	userIDs := make([]string, len(page.Items))
	for i := range page.Items {
		userIDs[i] = page.Items[i].UserID
	}
	names := h.resolve(r.Context(), userIDs)

	resp := ListResponse{Items: make([]RequestView, len(page.Items)), NextCursor: page.NextCursor}
	for i, item := range page.Items {
		resp.Items[i] = RequestView{TransactionRequest: item, UserDisplayName: names[item.UserID]}
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// GetRequestById handles GET /requests/{id}.
func (h *RequestsHandler) GetRequestById(w http.ResponseWriter, r *http.Request) {
	req, err := h.Store.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, r, "Failed to retrieve request", err)
		return
	}
	names := h.resolve(r.Context(), []string{req.UserID})
	handlers.WriteJSON(w, http.StatusOK, RequestView{TransactionRequest: *req, UserDisplayName: names[req.UserID]})
}

func (h *RequestsHandler) resolve(ctx context.Context, userIDs []string) map[string]string {
	if h.Names == nil {
		names := make(map[string]string, len(userIDs))
		for _, id := range userIDs {
			names[id] = id
		}
		return names
	}
	return h.Names.ResolveMany(ctx, userIDs)
}
