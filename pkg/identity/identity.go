// Package identity carries the acting admin through a request and resolves
// user display names for the view layer.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized is returned when no admin identity accompanies an action.
var ErrUnauthorized = errors.New("unauthorized")

// Headers set by the upstream authentication gateway.
const (
	HeaderAdminID    = "X-Admin-Id"
	HeaderAdminLabel = "X-Admin-Label"
)

// Actor is the opaque identity of an authenticated admin.
type Actor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Validate returns ErrUnauthorized for an anonymous actor.
func (a Actor) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrUnauthorized
	}
	return nil
}

type ctxKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor stored in ctx, if any.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

// Middleware reads the admin headers into the request context. Requests
// without an admin id are refused with 401 before reaching a handler.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := Actor{
			ID:    strings.TrimSpace(r.Header.Get(HeaderAdminID)),
			Label: strings.TrimSpace(r.Header.Get(HeaderAdminLabel)),
		}
		if err := a.Validate(); err != nil {
			http.Error(w, "missing admin identity", http.StatusUnauthorized)
			return
		}
		if a.Label == "" {
			a.Label = a.ID
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), a)))
	})
}
