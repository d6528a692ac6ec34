// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// HostelHub API. Reads are public; every category mutation sits behind the
// admin guard.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hostelhub/internal/handlers"
	"hostelhub/internal/middleware"
)

// New creates and returns the configured Chi router. limiter may be nil to
// disable rate limiting of admin writes.
func New(gate middleware.Guard, categories *handlers.Categories, health http.HandlerFunc, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(jsonStatus(http.StatusNotFound))
	r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed))

	// Health check, no auth.
	r.Get("/health", health)

	// Any signed-in user may ask who they are.
	for _, path := range []string{"/me", "/api/me"} {
		r.With(middleware.RequireUser(gate)).Get(path, handlers.Me)
	}

	// The browser client calls /api/categories; both paths are served.
	mountCategories := func(r chi.Router) {
		r.Get("/", categories.List)
		r.Get("/{categoryId}", categories.Get)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Use(middleware.RequireAdmin(gate))
			r.Post("/", categories.Create)
			r.Put("/", categories.Update)
			r.Delete("/", categories.Delete)
		})
	}
	r.Route("/categories", mountCategories)
	r.Route("/api/categories", mountCategories)

	return r
}

// jsonStatus answers with a JSON error envelope for the given status.
func jsonStatus(status int) http.HandlerFunc {
	body, _ := json.Marshal(map[string]string{
		"message": http.StatusText(status) + ".",
		"error":   http.StatusText(status),
	})
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}
}
