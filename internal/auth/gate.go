// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth verifies bearer tokens issued by the external identity
// provider and maps them to local users. The Gate exposes the two guards
// used before any mutation: RequireUser and RequireAdmin.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hostelhub/internal/models"
)

var (
	// ErrUnauthenticated means the request carried no valid credential.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the credential is valid but the role is not
	// privileged.
	ErrForbidden = errors.New("admin access required")
)

// UserResolver maps an identity provider UID to a local user, creating
// the user on first sight.
type UserResolver interface {
	FindOrCreate(ctx context.Context, firebaseUID string, displayName *string) (*models.User, error)
}

// Context is the resolved identity of an authenticated request.
type Context struct {
	FirebaseUID string
	UserID      int64
	Role        models.Role
	DisplayName *string
}

// IsAdmin reports whether the caller holds a privileged role.
func (c *Context) IsAdmin() bool {
	return c != nil && c.Role.IsPrivileged()
}

// Gate authenticates requests.
type Gate struct {
	verifier TokenVerifier
	users    UserResolver
}

// NewGate creates a Gate backed by the given verifier and user resolver.
func NewGate(verifier TokenVerifier, users UserResolver) *Gate {
	return &Gate{verifier: verifier, users: users}
}

// Verify resolves the request's bearer token to a Context. It returns nil
// when the header is missing or malformed, the token fails verification,
// or the user cannot be resolved. It never returns an error; callers that
// need to reject use RequireUser or RequireAdmin.
func (g *Gate) Verify(r *http.Request) *Context {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil
	}
	token, ok := BearerToken(header)
	if !ok {
		slog.Debug("malformed authorization header", "path", r.URL.Path)
		return nil
	}

	ctx := r.Context()
	id, err := g.verifier.Verify(ctx, token)
	if err != nil {
		slog.Debug("token verification failed", "path", r.URL.Path, "error", err)
		return nil
	}

	u, err := g.users.FindOrCreate(ctx, id.UID, id.Name)
	if err != nil {
		slog.Warn("failed to resolve user", "firebase_uid", id.UID, "error", err)
		return nil
	}

	ac := &Context{
		FirebaseUID: id.UID,
		UserID:      u.UID,
		Role:        u.Role(),
		DisplayName: u.DisplayName,
	}
	if ac.DisplayName == nil {
		ac.DisplayName = id.Name
	}
	return ac
}

// RequireUser returns the caller's Context or ErrUnauthenticated.
func (g *Gate) RequireUser(r *http.Request) (*Context, error) {
	ac := g.Verify(r)
	if ac == nil {
		return nil, ErrUnauthenticated
	}
	return ac, nil
}

// RequireAdmin returns the caller's Context if it holds a privileged role.
// It fails with ErrUnauthenticated when there is no valid credential and
// with ErrForbidden when the role is insufficient.
func (g *Gate) RequireAdmin(r *http.Request) (*Context, error) {
	ac, err := g.RequireUser(r)
	if err != nil {
		return nil, err
	}
	if !ac.IsAdmin() {
		slog.Info("admin access denied", "user_id", ac.UserID, "role", string(ac.Role))
		return nil, ErrForbidden
	}
	return ac, nil
}
