package loot

import (
	"context"
	"database/sql"
	"fmt"

	"softres/internal/adapters/storage"
	domain "softres/internal/domain/loot"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new loot Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetItemByID retrieves a loot Item by its ID.
// PRE: id > 0
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetItemByID(ctx context.Context, id int64) (domain.Item, error) {
	query := "SELECT id, name, category, slot FROM loot_item WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	entity, err := scanItem(row)
	if err == sql.ErrNoRows {
		return domain.Item{}, fmt.Errorf("loot item not found: %w", err)
	}
	return entity, err
}

// GetItemByName retrieves a loot Item by name.
// PRE: name is non-empty
// POST: Returns the entity and true, or false when no such item exists
func (s *SQLiteStore) GetItemByName(ctx context.Context, name string) (domain.Item, bool, error) {
	query := "SELECT id, name, category, slot FROM loot_item WHERE name = ?"

	row := s.db.QueryRowContext(ctx, query, name)
	entity, err := scanItem(row)
	if err == sql.ErrNoRows {
		return domain.Item{}, false, nil
	}
	if err != nil {
		return domain.Item{}, false, err
	}
	return entity, true, nil
}

// ListItems retrieves the full catalog sorted by name.
// POST: Returns the items, possibly empty
func (s *SQLiteStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	query := "SELECT id, name, category, slot FROM loot_item ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list loot items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		entity, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	return items, rows.Err()
}

// UpsertItem inserts or updates a loot Item keyed by name.
// PRE: value has been validated
// POST: Returns the row id of the item with that name
func (s *SQLiteStore) UpsertItem(ctx context.Context, value domain.Item) (int64, error) {
	query := `INSERT INTO loot_item (name, category, slot) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			slot = excluded.slot`

	if _, err := s.db.ExecContext(ctx, query, value.Name, string(value.Category), nullString(value.Slot)); err != nil {
		return 0, fmt.Errorf("upsert loot item: %w", err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM loot_item WHERE name = ?", value.Name).Scan(&id)
	return id, err
}

// SaveDrop records that a boss drops an item. Idempotent.
// PRE: both referenced rows exist
// POST: The pair is persisted exactly once
func (s *SQLiteStore) SaveDrop(ctx context.Context, value domain.Drop) error {
	query := `INSERT INTO loot_drop (boss_id, loot_item_id) VALUES (?, ?)
		ON CONFLICT(boss_id, loot_item_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, value.BossID, value.LootItemID); err != nil {
		return fmt.Errorf("save loot drop: %w", err)
	}
	return nil
}

// DropExists reports whether a boss drops an item.
// PRE: bossID > 0, lootItemID > 0
// POST: Returns true iff the pair is in the drop table
func (s *SQLiteStore) DropExists(ctx context.Context, bossID, lootItemID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM loot_drop WHERE boss_id = ? AND loot_item_id = ?"

	var count int
	err := s.db.QueryRowContext(ctx, query, bossID, lootItemID).Scan(&count)
	return count > 0, err
}

// ListDropsForBoss retrieves the items a boss drops, sorted by name.
// PRE: bossID > 0
// POST: Returns the items, possibly empty
func (s *SQLiteStore) ListDropsForBoss(ctx context.Context, bossID int64) ([]domain.Item, error) {
	query := `SELECT li.id, li.name, li.category, li.slot
		FROM loot_item li
		JOIN loot_drop ld ON ld.loot_item_id = li.id
		WHERE ld.boss_id = ?
		ORDER BY li.name`

	rows, err := s.db.QueryContext(ctx, query, bossID)
	if err != nil {
		return nil, fmt.Errorf("list drops for boss: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		entity, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	return items, rows.Err()
}

// ListBossIDsForItem retrieves the ids of bosses that drop an item.
// PRE: lootItemID > 0
// POST: Returns the boss ids, possibly empty
func (s *SQLiteStore) ListBossIDsForItem(ctx context.Context, lootItemID int64) ([]int64, error) {
	query := "SELECT boss_id FROM loot_drop WHERE loot_item_id = ? ORDER BY boss_id"

	rows, err := s.db.QueryContext(ctx, query, lootItemID)
	if err != nil {
		return nil, fmt.Errorf("list bosses for item: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.Item, error) {
	var entity domain.Item
	var category string
	var slot sql.NullString
	err := row.Scan(&entity.ID, &entity.Name, &category, &slot)
	if err != nil {
		return domain.Item{}, err
	}
	entity.Category = domain.Category(category)
	if slot.Valid {
		entity.Slot = slot.String
	}
	return entity, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
