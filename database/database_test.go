package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := CreateTables(db); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db
}

func TestCreateTablesIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if err := CreateTables(db); err != nil {
		t.Fatalf("second create tables: %v", err)
	}
}

func TestIsDuplicate(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	insert := "INSERT INTO users (id, username, email, password, first_name, last_name, display_name, avatar, bio, created_at, updated_at) VALUES (?, ?, ?, 'x', 'John', 'Doe', 'John Doe', '', '', 0, 0)"

	if _, err := db.Exec(insert, "id-1", "johndoe", "john@example.com"); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	_, err := db.Exec(insert, "id-2", "johndoe", "other@example.com")
	if err == nil {
		t.Fatal("expected unique violation on username")
	}
	if !IsDuplicate(err) {
		t.Fatalf("IsDuplicate(%v) = false, want true", err)
	}

	_, err = db.Exec("INSERT INTO no_such_table (id) VALUES (?)", "x")
	if err == nil {
		t.Fatal("expected error on missing table")
	}
	if IsDuplicate(err) {
		t.Fatalf("IsDuplicate(%v) = true, want false", err)
	}
}

func TestFollowEdgeUniqueness(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	insert := "INSERT INTO follow_edges (id, follower_id, followee_id, created_at) VALUES (?, ?, ?, 0)"
	if _, err := db.Exec(insert, "e-1", "a", "b"); err != nil {
		t.Fatalf("first edge: %v", err)
	}

	// Same ordered pair is rejected, the reverse direction is distinct.
	if _, err := db.Exec(insert, "e-2", "a", "b"); !IsDuplicate(err) {
		t.Fatalf("duplicate edge error = %v, want unique violation", err)
	}
	if _, err := db.Exec(insert, "e-3", "b", "a"); err != nil {
		t.Fatalf("reverse edge: %v", err)
	}
}
