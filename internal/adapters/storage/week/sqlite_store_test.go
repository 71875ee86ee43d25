package week

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"softres/internal/adapters/storage"
	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/week"
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

	if _, err := db.Exec("INSERT INTO raid (name) VALUES ('Manaforge Omega')"); err != nil {
		t.Fatalf("seed raid: %v", err)
	}
	return db
}

func resetEntry(weekID int64) func(nextID int64, created bool) auditdomain.Entry {
	return func(nextID int64, created bool) auditdomain.Entry {
		e := auditdomain.NewEntry(auditdomain.ActionWeekReset, auditdomain.TargetWeek, auditdomain.WeekTarget(weekID), "officer:Kelthas").
			WithWeek(weekID).
			WithAfter(map[string]any{"nextWeekId": nextID, "created": created})
		e.CreatedAt = fixedNow
		return e
	}
}

func testWeek(start time.Time) domain.Week {
	return domain.Week{
		RaidID:    1,
		Label:     domain.LabelFor(start),
		StartDate: start,
	}
}

func TestCreateAndGetByLabel(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	start := domain.CurrentStart(fixedNow)
	w := testWeek(start)

	id, err := store.Create(ctx, w)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, found, err := store.GetByLabel(ctx, w.Label)
	if err != nil {
		t.Fatalf("get by label: %v", err)
	}
	if !found {
		t.Fatal("expected to find week")
	}
	if got.ID != id {
		t.Errorf("id = %d, want %d", got.ID, id)
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("start = %v, want %v", got.StartDate, start)
	}

	_, found, err = store.GetByLabel(ctx, "Week of Jan 1, 1999")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if found {
		t.Error("expected no match")
	}
}

func TestEnsureNextCreatesOnce(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	current := domain.CurrentStart(fixedNow)
	currentID, err := store.Create(ctx, testWeek(current))
	if err != nil {
		t.Fatalf("create current: %v", err)
	}

	next := testWeek(domain.NextStart(current))

	id1, created, err := store.EnsureNext(ctx, next, resetEntry(currentID))
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if !created {
		t.Error("first ensure should create")
	}

	id2, created, err := store.EnsureNext(ctx, next, resetEntry(currentID))
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if created {
		t.Error("second ensure should not create")
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	// Both calls audit, regardless of whether a row was created.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM audit_log WHERE action = 'WEEK_RESET'").Scan(&count); err != nil {
		t.Fatalf("count audits: %v", err)
	}
	if count != 2 {
		t.Errorf("audit rows = %d, want 2", count)
	}
}

func TestEnsureNextRollsBackWhenAuditFails(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	next := testWeek(domain.CurrentStart(fixedNow))
	_, _, err := store.EnsureNext(ctx, next, func(nextID int64, created bool) auditdomain.Entry {
		return auditdomain.Entry{} // fails validation
	})
	if err == nil {
		t.Fatal("expected error from invalid audit entry")
	}

	weeks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(weeks) != 0 {
		t.Errorf("weeks = %d, want 0 after rollback", len(weeks))
	}
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	first := domain.CurrentStart(fixedNow)
	second := domain.NextStart(first)
	if _, err := store.Create(ctx, testWeek(first)); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := store.Create(ctx, testWeek(second)); err != nil {
		t.Fatalf("create second: %v", err)
	}

	weeks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("weeks = %d", len(weeks))
	}
	if !weeks[0].StartDate.After(weeks[1].StartDate) {
		t.Error("weeks not newest first")
	}
}
