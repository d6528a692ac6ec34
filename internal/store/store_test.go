// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"hostelhub/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "hostelhub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "hostelhub")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanCategories removes test categories, their options and any
// cross-references to them. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM hostel_options WHERE category_id = $1", id)
		db.Exec("DELETE FROM category_option_values WHERE category_id = $1", id)
		db.Exec("DELETE FROM categories WHERE category_id = $1", id)
	}
}

// cleanUsers removes test users by identity provider UID. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, firebaseUIDs ...string) {
	t.Helper()
	for _, uid := range firebaseUIDs {
		db.Exec("DELETE FROM users WHERE firebase_uid = $1", uid)
	}
}

// linkHostel creates a throwaway hostel referencing the given option and
// returns the hostel ID. The hostel is removed on cleanup, which cascades
// to its hostel_options rows.
func linkHostel(t *testing.T, db *sql.DB, categoryID, optionID int64) int64 {
	t.Helper()

	var hostelID int64
	err := db.QueryRow(
		`INSERT INTO hostels (hostel_name, location) VALUES ($1, $2) RETURNING hostel_id`,
		"Store Test Hostel", "https://maps.example.com/store-test",
	).Scan(&hostelID)
	if err != nil {
		t.Fatalf("insert hostel: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM hostels WHERE hostel_id = $1", hostelID) })

	if _, err := db.Exec(
		`INSERT INTO hostel_options (hostel_id, category_id, option_id) VALUES ($1, $2, $3)`,
		hostelID, categoryID, optionID,
	); err != nil {
		t.Fatalf("insert hostel option: %v", err)
	}
	return hostelID
}
