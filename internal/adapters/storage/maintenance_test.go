package storage

import (
	"context"
	"database/sql"
	"testing"
)

func countRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestPurgePlayerData(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	seed := []string{
		`INSERT INTO raid (id, name) VALUES (1, 'Manaforge Omega')`,
		`INSERT INTO boss (id, raid_id, name) VALUES (1, 1, 'Plexus Sentinel')`,
		`INSERT INTO class (id, name, armor_category, tier_prefix) VALUES (1, 'Mage', 'CLOTH', 'Mystic')`,
		`INSERT INTO loot_item (id, name, category, slot) VALUES (1, 'Logic Gate: Omega', 'TRINKET', 'TRINKET')`,
		`INSERT INTO loot_drop (boss_id, loot_item_id) VALUES (1, 1)`,
		`INSERT INTO week (id, raid_id, label, start_date) VALUES (1, 1, 'Week of Jun 3, 2025', '2025-06-03T04:00:00Z')`,
		`INSERT INTO player (id, name, role, class_id, active) VALUES (1, 'Kaelys', 'RDPS', 1, 1)`,
		`INSERT INTO player (id, name, role, class_id, active) VALUES (2, 'Branna', 'TANK', 1, 1)`,
		`INSERT INTO sr_choice (week_id, player_id, loot_item_id, boss_id, updated_at) VALUES (1, 1, 1, 1, '2025-06-04T12:00:00Z')`,
		`INSERT INTO sr_log (week_id, player_id, loot_item_id, boss_id, updated_at) VALUES (1, 1, 1, 1, '2025-06-04T12:00:00Z')`,
		`INSERT INTO audit_log (action, target_type, target_id, actor_display, created_at)
		 VALUES ('SR_CHOICE_SET', 'SR_CHOICE', '1', 'player:Kaelys', '2025-06-04T12:00:00Z')`,
	}
	for _, stmt := range seed {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := PurgePlayerData(context.Background(), db)
	if err != nil {
		t.Fatalf("PurgePlayerData failed: %v", err)
	}
	if result.Players != 2 || result.Choices != 1 || result.Logs != 1 {
		t.Errorf("result = %+v, want 2 players, 1 choice, 1 log", result)
	}

	for _, table := range []string{"player", "sr_choice", "sr_log"} {
		if n := countRows(t, db, table); n != 0 {
			t.Errorf("%s has %d rows after purge, want 0", table, n)
		}
	}
	// Reference data and the audit trail survive.
	for _, table := range []string{"raid", "boss", "class", "loot_item", "loot_drop", "week", "audit_log"} {
		if n := countRows(t, db, table); n != 1 {
			t.Errorf("%s has %d rows after purge, want 1", table, n)
		}
	}
}

func TestPurgePlayerDataOnEmptyDB(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	result, err := PurgePlayerData(context.Background(), db)
	if err != nil {
		t.Fatalf("PurgePlayerData failed: %v", err)
	}
	if result.Players != 0 || result.Choices != 0 || result.Logs != 0 {
		t.Errorf("result = %+v, want all zero", result)
	}
}
