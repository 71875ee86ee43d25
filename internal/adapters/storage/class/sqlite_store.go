package class

import (
	"context"
	"database/sql"
	"fmt"

	"softres/internal/adapters/storage"
	domain "softres/internal/domain/class"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new class Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Class by its ID.
// PRE: id > 0
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Class, error) {
	query := "SELECT id, name, armor_category, tier_prefix FROM class WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)

	var entity domain.Class
	var armorCategory string
	err := row.Scan(&entity.ID, &entity.Name, &armorCategory, &entity.TierPrefix)
	if err == sql.ErrNoRows {
		return domain.Class{}, fmt.Errorf("class not found: %w", err)
	}
	entity.ArmorCategory = domain.ArmorCategory(armorCategory)
	return entity, err
}

// GetByName retrieves a Class by name.
// PRE: name is non-empty
// POST: Returns the entity and true, or false when no such class exists
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Class, bool, error) {
	query := "SELECT id, name, armor_category, tier_prefix FROM class WHERE name = ?"

	row := s.db.QueryRowContext(ctx, query, name)

	var entity domain.Class
	var armorCategory string
	err := row.Scan(&entity.ID, &entity.Name, &armorCategory, &entity.TierPrefix)
	if err == sql.ErrNoRows {
		return domain.Class{}, false, nil
	}
	if err != nil {
		return domain.Class{}, false, err
	}
	entity.ArmorCategory = domain.ArmorCategory(armorCategory)
	return entity, true, nil
}

// List retrieves all classes sorted by name.
// POST: Returns the classes, possibly empty
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Class, error) {
	query := "SELECT id, name, armor_category, tier_prefix FROM class ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []domain.Class
	for rows.Next() {
		var entity domain.Class
		var armorCategory string
		if err := rows.Scan(&entity.ID, &entity.Name, &armorCategory, &entity.TierPrefix); err != nil {
			return nil, err
		}
		entity.ArmorCategory = domain.ArmorCategory(armorCategory)
		classes = append(classes, entity)
	}
	return classes, rows.Err()
}

// Upsert inserts or updates a Class keyed by name.
// PRE: value has been validated
// POST: Returns the row id of the class with that name
func (s *SQLiteStore) Upsert(ctx context.Context, value domain.Class) (int64, error) {
	query := `INSERT INTO class (name, armor_category, tier_prefix) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			armor_category = excluded.armor_category,
			tier_prefix = excluded.tier_prefix`

	if _, err := s.db.ExecContext(ctx, query, value.Name, string(value.ArmorCategory), value.TierPrefix); err != nil {
		return 0, fmt.Errorf("upsert class: %w", err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM class WHERE name = ?", value.Name).Scan(&id)
	return id, err
}
