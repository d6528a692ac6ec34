// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"hostelhub/internal/auth"
	"hostelhub/internal/middleware"
	"hostelhub/internal/models"
)

// meResponse describes the authenticated caller.
type meResponse struct {
	UserID      int64       `json:"uid"`
	FirebaseUID string      `json:"firebaseUid"`
	Role        models.Role `json:"role"`
	DisplayName *string     `json:"displayName"`
	IsAdmin     bool        `json:"isAdmin"`
}

// Me returns the caller resolved by the user guard, so clients can decide
// whether to show admin screens.
func Me(w http.ResponseWriter, r *http.Request) {
	ac := middleware.AuthFromCtx(r.Context())
	if ac == nil {
		writeError(w, r, auth.ErrUnauthenticated, "")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		UserID:      ac.UserID,
		FirebaseUID: ac.FirebaseUID,
		Role:        ac.Role,
		DisplayName: ac.DisplayName,
		IsAdmin:     ac.IsAdmin(),
	})
}
