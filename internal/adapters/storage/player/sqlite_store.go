package player

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"softres/internal/adapters/storage"
	auditstore "softres/internal/adapters/storage/audit"
	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/player"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new player Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Player by its ID.
// PRE: id > 0
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Player, error) {
	query := "SELECT id, name, role, class_id, active FROM player WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	entity, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return domain.Player{}, fmt.Errorf("player not found: %w", err)
	}
	return entity, err
}

// GetByName retrieves a Player by name, case-insensitively. Backs the
// uniqueness check of the claim flow.
// PRE: name is non-empty
// POST: Returns the entity and true, or false when no such player exists
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Player, bool, error) {
	query := "SELECT id, name, role, class_id, active FROM player WHERE name = ? COLLATE NOCASE"

	row := s.db.QueryRowContext(ctx, query, name)
	entity, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return domain.Player{}, false, nil
	}
	if err != nil {
		return domain.Player{}, false, err
	}
	return entity, true, nil
}

// List retrieves players matching the filter, sorted by name.
// POST: Returns the players, possibly empty
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Player, error) {
	var conditions []string
	var args []any

	if filter.Query != "" {
		conditions = append(conditions, "name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Role != nil {
		conditions = append(conditions, "role = ?")
		args = append(args, string(*filter.Role))
	}
	if filter.ClassID != nil {
		conditions = append(conditions, "class_id = ?")
		args = append(args, *filter.ClassID)
	}
	if filter.Active != nil {
		conditions = append(conditions, "active = ?")
		args = append(args, boolToInt(*filter.Active))
	}

	query := "SELECT id, name, role, class_id, active FROM player"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		entity, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, entity)
	}
	return players, rows.Err()
}

// Create inserts a Player and appends the audit entry built by entryFor,
// which receives the generated id, in one transaction.
// PRE: value has been validated; the name is not yet taken
// POST: Returns the new player id; the audit row is committed with it
func (s *SQLiteStore) Create(ctx context.Context, value domain.Player, entryFor func(id int64) auditdomain.Entry) (int64, error) {
	var id int64

	err := storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		result, err := q.ExecContext(ctx,
			"INSERT INTO player (name, role, class_id, active) VALUES (?, ?, ?, ?)",
			value.Name, string(value.Role), value.ClassID, boolToInt(value.Active),
		)
		if err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}

		_, err = auditstore.Insert(ctx, q, entryFor(id))
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SetActive flips a player's active flag and appends the audit entry in one
// transaction. The flag is a soft delete: history is never removed.
// PRE: id > 0; entry has been built for the transition
// POST: The flag and the audit row are committed together
func (s *SQLiteStore) SetActive(ctx context.Context, id int64, active bool, entry auditdomain.Entry) error {
	return storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		result, err := q.ExecContext(ctx, "UPDATE player SET active = ? WHERE id = ?", boolToInt(active), id)
		if err != nil {
			return fmt.Errorf("update player active: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("player not found: %d", id)
		}

		_, err = auditstore.Insert(ctx, q, entry)
		return err
	})
}

// SetActiveAll flips the active flag on a batch of players and appends one
// audit entry per player, all in one transaction. Callers pass only ids
// whose state actually changes; the batch fails as a whole if any id is
// gone by commit time.
// PRE: len(ids) == len(entries); entries[i] describes ids[i]
// POST: Every flag and every audit row committed together, or none
func (s *SQLiteStore) SetActiveAll(ctx context.Context, ids []int64, active bool, entries []auditdomain.Entry) error {
	if len(ids) != len(entries) {
		return fmt.Errorf("bulk toggle: %d ids but %d entries", len(ids), len(entries))
	}
	return storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		for i, id := range ids {
			result, err := q.ExecContext(ctx, "UPDATE player SET active = ? WHERE id = ?", boolToInt(active), id)
			if err != nil {
				return fmt.Errorf("update player active: %w", err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("player not found: %d", id)
			}
			if _, err := auditstore.Insert(ctx, q, entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateProfile changes a player's role and class and appends the audit
// entry in one transaction. Name and active flag are out of scope: names
// are fixed at claim time, activity goes through SetActive.
// PRE: role and classID have been validated; entry carries the transition
// POST: The profile and the audit row are committed together
func (s *SQLiteStore) UpdateProfile(ctx context.Context, id int64, role domain.Role, classID int64, entry auditdomain.Entry) error {
	return storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		result, err := q.ExecContext(ctx, "UPDATE player SET role = ?, class_id = ? WHERE id = ?", string(role), classID, id)
		if err != nil {
			return fmt.Errorf("update player profile: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("player not found: %d", id)
		}

		_, err = auditstore.Insert(ctx, q, entry)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var entity domain.Player
	var role string
	var active int
	err := row.Scan(&entity.ID, &entity.Name, &role, &entity.ClassID, &active)
	if err != nil {
		return domain.Player{}, err
	}
	entity.Role = domain.Role(role)
	entity.Active = active != 0
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
