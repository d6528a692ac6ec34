// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"

	"hostelhub/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// AuthKey is the context key for the resolved *auth.Context.
	AuthKey contextKey = "auth"

	// RequestIDKey is the context key for the request ID.
	RequestIDKey contextKey = "request_id"
)

// Guard is the subset of *auth.Gate used by the middleware.
type Guard interface {
	RequireUser(r *http.Request) (*auth.Context, error)
	RequireAdmin(r *http.Request) (*auth.Context, error)
}

// RequireUser answers 401 unless the request carries a valid bearer token.
func RequireUser(g Guard) func(http.Handler) http.Handler {
	return guard(g.RequireUser)
}

// RequireAdmin answers 401 without a valid bearer token and 403 when the
// caller's role is not privileged. The handler never runs in either case.
func RequireAdmin(g Guard) func(http.Handler) http.Handler {
	return guard(g.RequireAdmin)
}

func guard(check func(*http.Request) (*auth.Context, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, err := check(r)
			switch {
			case errors.Is(err, auth.ErrForbidden):
				writeError(w, http.StatusForbidden, "Forbidden: admin access required.")
				return
			case err != nil:
				w.Header().Set("WWW-Authenticate", `Bearer realm="hostelhub"`)
				writeError(w, http.StatusUnauthorized, "Unauthorized: a valid bearer token is required.")
				return
			}

			ctx := context.WithValue(r.Context(), AuthKey, ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthFromCtx extracts the authenticated caller from the request context.
// Returns nil if the request is not authenticated.
func AuthFromCtx(ctx context.Context) *auth.Context {
	ac, _ := ctx.Value(AuthKey).(*auth.Context)
	return ac
}
