// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole maps a stored role string onto a Role. Comparison is
// case-insensitive and "super_admin" is accepted as an alias of
// RoleSuperAdmin. Anything unrecognised (including "student", the empty
// string and padded values like " admin ") maps to RoleUser.
func ParseRole(s string) Role {
	switch strings.ToLower(s) {
	case "admin":
		return RoleAdmin
	case "superadmin", "super_admin":
		return RoleSuperAdmin
	default:
		return RoleUser
	}
}

// IsPrivileged reports whether the role grants admin-level access.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is the local record of an identity issued by the external
// identity provider. Seeded users may have no FirebaseUID.
type User struct {
	UID         int64     `json:"uid"`
	FirebaseUID *string   `json:"firebase_uid"`
	RawRole     *string   `json:"user_role"` // Free-form; parse with Role()
	DisplayName *string   `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Role returns the user's parsed role.
func (u *User) Role() Role {
	if u.RawRole == nil {
		return RoleUser
	}
	return ParseRole(*u.RawRole)
}

// IsAdmin returns true if the user holds a privileged role.
func (u *User) IsAdmin() bool {
	return u.Role().IsPrivileged()
}
