package bosskill

import (
	"context"
	"database/sql"
	"fmt"

	"softres/internal/adapters/storage"
	auditstore "softres/internal/adapters/storage/audit"
	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/raid"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new boss-kill Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListByWeek retrieves the kill rows of a week. A boss without a row has
// never been toggled and counts as not killed.
// PRE: weekID > 0
// POST: Returns the rows, possibly empty
func (s *SQLiteStore) ListByWeek(ctx context.Context, weekID int64) ([]domain.Kill, error) {
	query := "SELECT id, week_id, boss_id, killed FROM boss_kill WHERE week_id = ? ORDER BY boss_id"

	rows, err := s.db.QueryContext(ctx, query, weekID)
	if err != nil {
		return nil, fmt.Errorf("list boss kills: %w", err)
	}
	defer rows.Close()

	var kills []domain.Kill
	for rows.Next() {
		entity, err := scanKill(rows)
		if err != nil {
			return nil, err
		}
		kills = append(kills, entity)
	}
	return kills, rows.Err()
}

// KilledBossIDs retrieves the ids of bosses marked killed this week.
// PRE: weekID > 0
// POST: Returns the boss ids, possibly empty
func (s *SQLiteStore) KilledBossIDs(ctx context.Context, weekID int64) ([]int64, error) {
	query := "SELECT boss_id FROM boss_kill WHERE week_id = ? AND killed = 1 ORDER BY boss_id"

	rows, err := s.db.QueryContext(ctx, query, weekID)
	if err != nil {
		return nil, fmt.Errorf("list killed bosses: %w", err)
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

// CountKilled counts the bosses marked killed this week.
// PRE: weekID > 0
func (s *SQLiteStore) CountKilled(ctx context.Context, weekID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM boss_kill WHERE week_id = ? AND killed = 1", weekID).Scan(&count)
	return count, err
}

// Toggle flips a boss's kill state for a week, creating the row on first
// toggle, and appends the audit entry built by entryFor in one transaction.
// entryFor receives the previous state (nil when no row existed) and the
// new state.
// PRE: weekID > 0, bossID > 0; entryFor returns a valid entry
// POST: Returns the kill row after the flip
func (s *SQLiteStore) Toggle(ctx context.Context, weekID, bossID int64, entryFor func(prev *bool, now bool) auditdomain.Entry) (domain.Kill, error) {
	var kill domain.Kill

	err := storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		row := q.QueryRowContext(ctx, "SELECT id, killed FROM boss_kill WHERE week_id = ? AND boss_id = ?", weekID, bossID)

		var id int64
		var killedInt int
		var prev *bool
		now := true

		err := row.Scan(&id, &killedInt)
		switch {
		case err == sql.ErrNoRows:
			result, err := q.ExecContext(ctx,
				"INSERT INTO boss_kill (week_id, boss_id, killed) VALUES (?, ?, 1)",
				weekID, bossID,
			)
			if err != nil {
				return fmt.Errorf("insert boss kill: %w", err)
			}
			if id, err = result.LastInsertId(); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			was := killedInt != 0
			prev = &was
			now = !was
			if _, err := q.ExecContext(ctx, "UPDATE boss_kill SET killed = ? WHERE id = ?", boolToInt(now), id); err != nil {
				return fmt.Errorf("update boss kill: %w", err)
			}
		}

		kill = domain.Kill{ID: id, WeekID: weekID, BossID: bossID, Killed: now}

		_, err = auditstore.Insert(ctx, q, entryFor(prev, now))
		return err
	})
	if err != nil {
		return domain.Kill{}, err
	}
	return kill, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKill(row rowScanner) (domain.Kill, error) {
	var entity domain.Kill
	var killed int
	err := row.Scan(&entity.ID, &entity.WeekID, &entity.BossID, &killed)
	if err != nil {
		return domain.Kill{}, err
	}
	entity.Killed = killed != 0
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
