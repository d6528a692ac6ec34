// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all HostelHub
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"hostelhub/internal/models"
)

// DefaultUserRole is assigned to users provisioned on first sign-in.
const DefaultUserRole = string(models.RoleUser)

const userColumns = `uid, firebase_uid, user_role, display_name, created_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	if err := scanner.Scan(&u.UID, &u.FirebaseUID, &u.RawRole, &u.DisplayName, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByFirebaseUID retrieves a user by their identity provider UID.
// Returns nil if not found.
func (s *UserStore) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`, firebaseUID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by firebase uid: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their local ID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, uid int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindOrCreate returns the user mapped to firebaseUID, creating it with
// DefaultUserRole and the given display name if it does not exist yet.
// Concurrent first sign-ins for the same identity converge on one row:
// the insert is skipped on conflict and the existing row is read back.
func (s *UserStore) FindOrCreate(ctx context.Context, firebaseUID string, displayName *string) (*models.User, error) {
	u, err := s.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil || u != nil {
		return u, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (firebase_uid, user_role, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (firebase_uid) DO NOTHING
		RETURNING `+userColumns,
		firebaseUID, DefaultUserRole, displayName,
	)
	u, err = scanUser(row)
	if err == sql.ErrNoRows {
		// Lost the race to a concurrent insert; read the winner.
		u, err = s.FindByFirebaseUID(ctx, firebaseUID)
		if err == nil && u == nil {
			err = fmt.Errorf("create user: %w", ErrNotFound)
		}
		return u, err
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", translate(err))
	}
	return u, nil
}

// SetRole overwrites the stored role of a user.
func (s *UserStore) SetRole(ctx context.Context, uid int64, role string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET user_role = $1 WHERE uid = $2`, role, uid)
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
