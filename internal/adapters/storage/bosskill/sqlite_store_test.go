package bosskill

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"softres/internal/adapters/storage"
	auditdomain "softres/internal/domain/audit"
)

var fixedNow = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		"INSERT INTO raid (name) VALUES ('Manaforge Omega')",
		"INSERT INTO boss (raid_id, name) VALUES (1, 'Plexus Sentinel'), (1, 'Fractillus')",
		"INSERT INTO week (raid_id, label, start_date) VALUES (1, 'Week of Jun 3, 2025', '2025-06-03T00:00:00-04:00')",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func entryFor(weekID, bossID int64) func(prev *bool, now bool) auditdomain.Entry {
	return func(prev *bool, now bool) auditdomain.Entry {
		e := auditdomain.NewEntry(auditdomain.ActionBossKillToggled, auditdomain.TargetBossKill, auditdomain.WeekBossTarget(weekID, bossID), "officer:Kelthas").
			WithWeek(weekID).
			WithAfter(map[string]bool{"killed": now})
		if prev != nil {
			e = e.WithBefore(map[string]bool{"killed": *prev})
		}
		e.CreatedAt = fixedNow
		return e
	}
}

func TestToggleCreatesRowAsKilled(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	kill, err := store.Toggle(ctx, 1, 1, entryFor(1, 1))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !kill.Killed {
		t.Error("first toggle should mark killed")
	}
	if kill.ID == 0 {
		t.Error("expected a row id")
	}

	ids, err := store.KilledBossIDs(ctx, 1)
	if err != nil {
		t.Fatalf("killed ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("killed ids = %v", ids)
	}
}

func TestToggleFlipsExistingRow(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	if _, err := store.Toggle(ctx, 1, 1, entryFor(1, 1)); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	kill, err := store.Toggle(ctx, 1, 1, entryFor(1, 1))
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if kill.Killed {
		t.Error("second toggle should clear the kill")
	}

	count, err := store.CountKilled(ctx, 1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("killed count = %d, want 0", count)
	}

	// The row survives the flip back.
	kills, err := store.ListByWeek(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(kills) != 1 {
		t.Errorf("rows = %d, want 1", len(kills))
	}
}

func TestToggleAuditsEachFlip(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Toggle(ctx, 1, 2, entryFor(1, 2)); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM audit_log WHERE action = 'BOSS_KILL_TOGGLED'").Scan(&count); err != nil {
		t.Fatalf("count audits: %v", err)
	}
	if count != 3 {
		t.Errorf("audit rows = %d, want 3", count)
	}
}

func TestToggleRollsBackWhenAuditFails(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	_, err := store.Toggle(ctx, 1, 1, func(prev *bool, now bool) auditdomain.Entry {
		return auditdomain.Entry{} // fails validation
	})
	if err == nil {
		t.Fatal("expected error from invalid audit entry")
	}

	kills, err := store.ListByWeek(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(kills) != 0 {
		t.Errorf("rows = %d, want 0 after rollback", len(kills))
	}
}
