package raid

import (
	"context"
	"database/sql"
	"fmt"

	"softres/internal/adapters/storage"
	domain "softres/internal/domain/raid"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new raid Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetRaidByID retrieves a Raid by its ID.
// PRE: id > 0
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetRaidByID(ctx context.Context, id int64) (domain.Raid, error) {
	query := "SELECT id, name FROM raid WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)

	var entity domain.Raid
	err := row.Scan(&entity.ID, &entity.Name)
	if err == sql.ErrNoRows {
		return domain.Raid{}, fmt.Errorf("raid not found: %w", err)
	}
	return entity, err
}

// GetRaidByName retrieves a Raid by name. The bool reports existence so
// callers can seed idempotently.
// PRE: name is non-empty
// POST: Returns the entity and true, or false when no such raid exists
func (s *SQLiteStore) GetRaidByName(ctx context.Context, name string) (domain.Raid, bool, error) {
	query := "SELECT id, name FROM raid WHERE name = ?"

	row := s.db.QueryRowContext(ctx, query, name)

	var entity domain.Raid
	err := row.Scan(&entity.ID, &entity.Name)
	if err == sql.ErrNoRows {
		return domain.Raid{}, false, nil
	}
	if err != nil {
		return domain.Raid{}, false, err
	}
	return entity, true, nil
}

// ListRaids retrieves all raids in id order.
func (s *SQLiteStore) ListRaids(ctx context.Context) ([]domain.Raid, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM raid ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list raids: %w", err)
	}
	defer rows.Close()

	var raids []domain.Raid
	for rows.Next() {
		var entity domain.Raid
		if err := rows.Scan(&entity.ID, &entity.Name); err != nil {
			return nil, err
		}
		raids = append(raids, entity)
	}
	return raids, rows.Err()
}

// UpsertRaid inserts or updates a Raid keyed by name.
// PRE: value has been validated
// POST: Returns the row id of the raid with that name
func (s *SQLiteStore) UpsertRaid(ctx context.Context, value domain.Raid) (int64, error) {
	query := `INSERT INTO raid (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name`

	if _, err := s.db.ExecContext(ctx, query, value.Name); err != nil {
		return 0, fmt.Errorf("upsert raid: %w", err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM raid WHERE name = ?", value.Name).Scan(&id)
	return id, err
}

// GetBossByID retrieves a Boss by its ID.
// PRE: id > 0
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetBossByID(ctx context.Context, id int64) (domain.Boss, error) {
	query := "SELECT id, raid_id, name FROM boss WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)

	var entity domain.Boss
	err := row.Scan(&entity.ID, &entity.RaidID, &entity.Name)
	if err == sql.ErrNoRows {
		return domain.Boss{}, fmt.Errorf("boss not found: %w", err)
	}
	return entity, err
}

// GetBossByName retrieves a Boss by name within a raid.
// PRE: raidID > 0, name is non-empty
// POST: Returns the entity and true, or false when no such boss exists
func (s *SQLiteStore) GetBossByName(ctx context.Context, raidID int64, name string) (domain.Boss, bool, error) {
	query := "SELECT id, raid_id, name FROM boss WHERE raid_id = ? AND name = ?"

	row := s.db.QueryRowContext(ctx, query, raidID, name)

	var entity domain.Boss
	err := row.Scan(&entity.ID, &entity.RaidID, &entity.Name)
	if err == sql.ErrNoRows {
		return domain.Boss{}, false, nil
	}
	if err != nil {
		return domain.Boss{}, false, err
	}
	return entity, true, nil
}

// ListBossesByRaid retrieves all bosses of a raid in id order, which is the
// encounter order they were seeded in.
// PRE: raidID > 0
// POST: Returns the bosses, possibly empty
func (s *SQLiteStore) ListBossesByRaid(ctx context.Context, raidID int64) ([]domain.Boss, error) {
	query := "SELECT id, raid_id, name FROM boss WHERE raid_id = ? ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, raidID)
	if err != nil {
		return nil, fmt.Errorf("list bosses: %w", err)
	}
	defer rows.Close()

	var bosses []domain.Boss
	for rows.Next() {
		var entity domain.Boss
		if err := rows.Scan(&entity.ID, &entity.RaidID, &entity.Name); err != nil {
			return nil, err
		}
		bosses = append(bosses, entity)
	}
	return bosses, rows.Err()
}

// UpsertBoss inserts or updates a Boss keyed by (raid, name).
// PRE: value has been validated
// POST: Returns the row id of the boss with that name in that raid
func (s *SQLiteStore) UpsertBoss(ctx context.Context, value domain.Boss) (int64, error) {
	query := `INSERT INTO boss (raid_id, name) VALUES (?, ?)
		ON CONFLICT(raid_id, name) DO UPDATE SET name = excluded.name`

	if _, err := s.db.ExecContext(ctx, query, value.RaidID, value.Name); err != nil {
		return 0, fmt.Errorf("upsert boss: %w", err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM boss WHERE raid_id = ? AND name = ?", value.RaidID, value.Name).Scan(&id)
	return id, err
}
