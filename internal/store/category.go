// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"hostelhub/internal/models"
)

// CategoryStore manages categories and their option values.
//
// Rows in hostel_options reference both a category and one of its options.
// Whenever options are removed, those cross-references must be removed
// first or PostgreSQL rejects the delete with a foreign key violation.
// Every multi-statement write runs in a single transaction.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories with their options, in insertion order.
// A category without options has an empty, non-nil Options slice.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.category_id, c.category, o.option_id, o.option_name
		FROM categories c
		LEFT JOIN category_option_values o ON o.category_id = c.category_id
		ORDER BY c.category_id, o.option_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		var (
			catID   int64
			catName string
			optID   sql.NullInt64
			optName sql.NullString
		)
		if err := rows.Scan(&catID, &catName, &optID, &optName); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}

		if n := len(items); n == 0 || items[n-1].ID != catID {
			items = append(items, models.Category{ID: catID, Name: catName, Options: []models.Option{}})
		}
		if optID.Valid {
			last := &items[len(items)-1]
			last.Options = append(last.Options, models.Option{ID: optID.Int64, Name: optName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// FindByID retrieves a category with its options. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{Options: []models.Option{}}
	err := s.db.QueryRowContext(ctx,
		`SELECT category_id, category FROM categories WHERE category_id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT option_id, option_name FROM category_option_values
		WHERE category_id = $1 ORDER BY option_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find category options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		c.Options = append(c.Options, o)
	}
	return c, rows.Err()
}

// Create inserts a category and one option row per name, and returns the
// new category ID. Names must already be validated as non-empty.
func (s *CategoryStore) Create(ctx context.Context, name string, options []string) (int64, error) {
	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO categories (category) VALUES ($1) RETURNING category_id`, name,
		).Scan(&id); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return insertOptions(ctx, tx, id, options)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update renames a category and applies the option replacement policy:
//
//   - options not provided: existing options are left untouched.
//   - options provided and empty: cross-references and options are removed.
//   - options provided and non-empty: cross-references and options are
//     removed, then one option is inserted per non-empty name.
//
// Returns ErrNotFound if the category does not exist.
func (s *CategoryStore) Update(ctx context.Context, id int64, name string, opts models.OptionList) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE categories SET category = $1 WHERE category_id = $2`, name, id,
		)
		if err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}

		if !opts.Provided() {
			return nil
		}

		if err := clearOptions(ctx, tx, id); err != nil {
			return err
		}

		var keep []string
		for _, o := range opts.Names() {
			if o != "" {
				keep = append(keep, o)
			}
		}
		return insertOptions(ctx, tx, id, keep)
	})
}

// Delete removes a category and its options. When force is false, options
// still referenced by hostel_options make the delete fail with a
// *ConstraintError and nothing is changed. When force is true those
// cross-references are removed first. Returns ErrNotFound if the category
// does not exist.
func (s *CategoryStore) Delete(ctx context.Context, id int64, force bool) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if force {
			if err := clearOptions(ctx, tx, id); err != nil {
				return err
			}
		} else if _, err := tx.ExecContext(ctx,
			`DELETE FROM category_option_values WHERE category_id = $1`, id,
		); err != nil {
			return fmt.Errorf("delete category options: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE category_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CountReferences returns how many hostel_options rows reference the category.
func (s *CategoryStore) CountReferences(ctx context.Context, id int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM hostel_options WHERE category_id = $1`, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category references: %w", err)
	}
	return n, nil
}

// clearOptions removes a category's cross-references and then its options.
// The order matters: hostel_options rows reference the options.
func clearOptions(ctx context.Context, tx *sql.Tx, categoryID int64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM hostel_options WHERE category_id = $1`, categoryID,
	); err != nil {
		return fmt.Errorf("delete category references: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM category_option_values WHERE category_id = $1`, categoryID,
	); err != nil {
		return fmt.Errorf("delete category options: %w", err)
	}
	return nil
}

// insertOptions inserts one option row per name using a prepared statement.
func insertOptions(ctx context.Context, tx *sql.Tx, categoryID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO category_option_values (option_name, category_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare insert option: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name, categoryID); err != nil {
			return fmt.Errorf("insert option %q: %w", name, err)
		}
	}
	return nil
}
