// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hostelhub/internal/auth"
	"hostelhub/internal/middleware"
	"hostelhub/internal/store"
)

// ValidationError reports a missing or invalid request field. Its message
// is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// invalid returns a *ValidationError with the given message.
func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// errorResponse is the JSON error envelope. Code carries the SQLSTATE of a
// constraint violation so clients never need to match on message text.
type errorResponse struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
	References int    `json:"references,omitempty"` // hostel links blocking a delete
}

// writeJSON writes data as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps err onto an HTTP status and writes the error envelope.
// notFound is the message used for store.ErrNotFound.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, resp := errorFor(r, err, notFound)
	writeJSON(w, status, resp)
}

// errorFor maps err onto an HTTP status and error envelope.
func errorFor(r *http.Request, err error, notFound string) (int, errorResponse) {
	var (
		ve *ValidationError
		ce *store.ConstraintError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorResponse{Message: ve.Message, Error: "validation failed"}

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: notFound, Error: "not found"}

	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Message: "Unauthorized: a valid bearer token is required.", Error: "unauthenticated"}

	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: "Forbidden: admin access required.", Error: "forbidden"}

	case errors.As(err, &ce):
		slog.Warn("constraint violation",
			"request_id", middleware.RequestIDFromCtx(r.Context()),
			"code", ce.Code,
			"constraint", ce.Constraint,
			"table", ce.Table,
			"detail", ce.Detail,
		)
		resp := errorResponse{Code: ce.Code, Error: "unique constraint violation"}
		resp.Message = "The change conflicts with an existing record."
		if ce.IsForeignKey() {
			resp.Message = "This record is still referenced by one or more hostels. Remove those references first or use forceDelete."
			resp.Error = "foreign key constraint violation"
		}
		// Kept at 500 so existing clients treat it as a failed mutation;
		// Code distinguishes it from other failures.
		return http.StatusInternalServerError, resp

	default:
		slog.Error("request failed",
			"request_id", middleware.RequestIDFromCtx(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		return http.StatusInternalServerError, errorResponse{Message: "Internal server error.", Error: "internal error"}
	}
}
