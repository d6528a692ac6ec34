// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when the target row of an update or delete does
// not exist.
var ErrNotFound = errors.New("record not found")

// SQLSTATE codes translated into ConstraintError.
const (
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
)

// ConstraintError reports that PostgreSQL rejected a statement because of a
// foreign key or uniqueness constraint. Callers detect it with errors.As
// rather than by inspecting message text.
type ConstraintError struct {
	Code       string // SQLSTATE
	Constraint string
	Table      string
	Detail     string
	Err        error
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %s violated on %s (%s): %v", e.Constraint, e.Table, e.Code, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsForeignKey reports whether the violation is a foreign key violation.
func (e *ConstraintError) IsForeignKey() bool {
	return e.Code == CodeForeignKeyViolation
}

// translate converts known constraint violations into *ConstraintError.
// Other errors are returned unchanged.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case CodeForeignKeyViolation, CodeUniqueViolation:
		return &ConstraintError{
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Table:      pgErr.TableName,
			Detail:     pgErr.Detail,
			Err:        err,
		}
	}
	return err
}
