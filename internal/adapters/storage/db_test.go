package storage

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables created by InitDB.
var expectedTables = []string{
	"audit_log",
	"boss",
	"boss_kill",
	"class",
	"loot_drop",
	"loot_item",
	"player",
	"raid",
	"sr_choice",
	"sr_log",
	"week",
}

func TestInitDBCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	got := getTableNames(t, db)
	if len(got) != len(expectedTables) {
		t.Fatalf("expected %d tables, got %d: %v", len(expectedTables), len(got), got)
	}
	for i, name := range expectedTables {
		if got[i] != name {
			t.Errorf("table %d: expected %q, got %q", i, name, got[i])
		}
	}
}

func TestInitDBIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
}

func TestRunInTxCommitsOnNil(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	ctx := context.Background()

	err := RunInTx(ctx, db, func(q Querier) error {
		_, err := q.ExecContext(ctx, "INSERT INTO raid (name) VALUES ('Manaforge Omega')")
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM raid").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 raid, got %d", count)
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	ctx := context.Background()
	boom := errors.New("boom")

	err := RunInTx(ctx, db, func(q Querier) error {
		if _, err := q.ExecContext(ctx, "INSERT INTO raid (name) VALUES ('Manaforge Omega')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM raid").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback, got %d raids", count)
	}
}
