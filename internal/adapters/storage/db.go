package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the statement-level interface shared by *sql.DB, *sql.Tx and
// *TimedDB. Stores run their queries through it so transactional writes can
// hand a *sql.Tx to the same code paths.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDB is the database interface used by store constructors; it adds
// transaction support on top of Querier.
type SQLDB interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time checks.
var (
	_ SQLDB   = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// RunInTx runs fn inside a transaction, committing on nil and rolling back
// on error. Every multi-statement write (state mutation + its audit row)
// goes through here.
// PRE: db is a valid connection; fn uses only the provided Querier
// POST: All of fn's writes are committed, or none are
func RunInTx(ctx context.Context, db SQLDB, fn func(q Querier) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS raid (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS boss (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raid_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		UNIQUE (raid_id, name),
		FOREIGN KEY (raid_id) REFERENCES raid(id)
	);

	CREATE TABLE IF NOT EXISTS class (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		armor_category TEXT NOT NULL,
		tier_prefix TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS loot_item (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		slot TEXT
	);

	CREATE TABLE IF NOT EXISTS loot_drop (
		boss_id INTEGER NOT NULL,
		loot_item_id INTEGER NOT NULL,
		PRIMARY KEY (boss_id, loot_item_id),
		FOREIGN KEY (boss_id) REFERENCES boss(id),
		FOREIGN KEY (loot_item_id) REFERENCES loot_item(id)
	);

	CREATE TABLE IF NOT EXISTS player (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		class_id INTEGER NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (class_id) REFERENCES class(id)
	);

	CREATE TABLE IF NOT EXISTS week (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raid_id INTEGER NOT NULL,
		label TEXT NOT NULL UNIQUE,
		start_date TEXT NOT NULL,
		FOREIGN KEY (raid_id) REFERENCES raid(id)
	);

	CREATE TABLE IF NOT EXISTS boss_kill (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		week_id INTEGER NOT NULL,
		boss_id INTEGER NOT NULL,
		killed INTEGER NOT NULL DEFAULT 0,
		UNIQUE (week_id, boss_id),
		FOREIGN KEY (week_id) REFERENCES week(id),
		FOREIGN KEY (boss_id) REFERENCES boss(id)
	);

	CREATE TABLE IF NOT EXISTS sr_choice (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		week_id INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		loot_item_id INTEGER,
		boss_id INTEGER,
		is_tier INTEGER NOT NULL DEFAULT 0,
		locked INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		received INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		UNIQUE (week_id, player_id),
		FOREIGN KEY (week_id) REFERENCES week(id),
		FOREIGN KEY (player_id) REFERENCES player(id),
		FOREIGN KEY (loot_item_id) REFERENCES loot_item(id),
		FOREIGN KEY (boss_id) REFERENCES boss(id)
	);

	CREATE TABLE IF NOT EXISTS sr_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		week_id INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		loot_item_id INTEGER NOT NULL,
		boss_id INTEGER,
		is_tier INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		UNIQUE (week_id, player_id),
		FOREIGN KEY (week_id) REFERENCES week(id),
		FOREIGN KEY (player_id) REFERENCES player(id),
		FOREIGN KEY (loot_item_id) REFERENCES loot_item(id)
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		target_type TEXT NOT NULL,
		target_id TEXT NOT NULL,
		week_id INTEGER,
		before_json TEXT,
		after_json TEXT,
		actor_display TEXT NOT NULL,
		meta_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log (created_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_sr_choice_week ON sr_choice (week_id);
	CREATE INDEX IF NOT EXISTS idx_boss_kill_week ON boss_kill (week_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
