package srchoice

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"softres/internal/adapters/storage"
	auditstore "softres/internal/adapters/storage/audit"
	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/srchoice"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new soft-reserve choice Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByWeekPlayer retrieves the choice one player holds for one week.
// PRE: weekID > 0, playerID > 0
// POST: Returns the choice and true, or false when the player has no row
func (s *SQLiteStore) GetByWeekPlayer(ctx context.Context, weekID, playerID int64) (domain.Choice, bool, error) {
	query := selectChoice + " WHERE week_id = ? AND player_id = ?"

	row := s.db.QueryRowContext(ctx, query, weekID, playerID)
	entity, err := scanChoice(row)
	if err == sql.ErrNoRows {
		return domain.Choice{}, false, nil
	}
	if err != nil {
		return domain.Choice{}, false, err
	}
	return entity, true, nil
}

// ListByWeek retrieves every choice of a week in player order.
// PRE: weekID > 0
// POST: Returns the choices, possibly empty
func (s *SQLiteStore) ListByWeek(ctx context.Context, weekID int64) ([]domain.Choice, error) {
	query := selectChoice + " WHERE week_id = ? ORDER BY player_id"

	rows, err := s.db.QueryContext(ctx, query, weekID)
	if err != nil {
		return nil, fmt.Errorf("list choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.Choice
	for rows.Next() {
		entity, err := scanChoice(rows)
		if err != nil {
			return nil, err
		}
		choices = append(choices, entity)
	}
	return choices, rows.Err()
}

// CountByWeek counts the choice rows of a week.
// PRE: weekID > 0
func (s *SQLiteStore) CountByWeek(ctx context.Context, weekID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sr_choice WHERE week_id = ?", weekID).Scan(&count)
	return count, err
}

// ApplyChoice upserts a player's choice for a week, maintains the history
// mirror and appends the audit entry, all in one transaction. A cleared
// choice deletes the mirror row; a reserving choice upserts it.
// PRE: value has been validated and passed the eligibility rules
// POST: Returns the stored choice including its row id
func (s *SQLiteStore) ApplyChoice(ctx context.Context, value domain.Choice, entry auditdomain.Entry) (domain.Choice, error) {
	err := storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		query := `INSERT INTO sr_choice (week_id, player_id, loot_item_id, boss_id, is_tier, locked, notes, received, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(week_id, player_id) DO UPDATE SET
				loot_item_id = excluded.loot_item_id,
				boss_id = excluded.boss_id,
				is_tier = excluded.is_tier,
				notes = excluded.notes,
				received = excluded.received,
				updated_at = excluded.updated_at`

		_, err := q.ExecContext(ctx, query,
			value.WeekID,
			value.PlayerID,
			value.LootItemID,
			value.BossID,
			boolToInt(value.IsTier),
			boolToInt(value.Locked),
			value.Notes,
			boolToInt(value.Received),
			value.UpdatedAt.UTC().Format(dateLayout),
		)
		if err != nil {
			return fmt.Errorf("upsert choice: %w", err)
		}

		if mirror, ok := domain.MirrorOf(value); ok {
			logQuery := `INSERT INTO sr_log (week_id, player_id, loot_item_id, boss_id, is_tier, notes, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(week_id, player_id) DO UPDATE SET
					loot_item_id = excluded.loot_item_id,
					boss_id = excluded.boss_id,
					is_tier = excluded.is_tier,
					notes = excluded.notes,
					updated_at = excluded.updated_at`

			_, err = q.ExecContext(ctx, logQuery,
				mirror.WeekID,
				mirror.PlayerID,
				mirror.LootItemID,
				mirror.BossID,
				boolToInt(mirror.IsTier),
				mirror.Notes,
				mirror.UpdatedAt.UTC().Format(dateLayout),
			)
			if err != nil {
				return fmt.Errorf("upsert choice mirror: %w", err)
			}
		} else {
			if _, err = q.ExecContext(ctx, "DELETE FROM sr_log WHERE week_id = ? AND player_id = ?", value.WeekID, value.PlayerID); err != nil {
				return fmt.Errorf("delete choice mirror: %w", err)
			}
		}

		_, err = auditstore.Insert(ctx, q, entry)
		return err
	})
	if err != nil {
		return domain.Choice{}, err
	}

	stored, _, err := s.GetByWeekPlayer(ctx, value.WeekID, value.PlayerID)
	return stored, err
}

// SetReceived flips the received flag on a player's week row and appends the
// audit entry in one transaction. When the player has no row yet a bare one
// is created carrying only the flag: officers can mark off-list handouts.
// The mirror is untouched: received is a distribution fact, not part of the
// reservation.
// PRE: weekID > 0, playerID > 0
// POST: Returns the stored choice
func (s *SQLiteStore) SetReceived(ctx context.Context, weekID, playerID int64, received bool, updatedAt time.Time, entry auditdomain.Entry) (domain.Choice, error) {
	err := storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		query := `INSERT INTO sr_choice (week_id, player_id, loot_item_id, boss_id, is_tier, locked, notes, received, updated_at)
			VALUES (?, ?, NULL, NULL, 0, 0, '', ?, ?)
			ON CONFLICT(week_id, player_id) DO UPDATE SET
				received = excluded.received,
				updated_at = excluded.updated_at`

		_, err := q.ExecContext(ctx, query, weekID, playerID, boolToInt(received), updatedAt.UTC().Format(dateLayout))
		if err != nil {
			return fmt.Errorf("upsert choice received: %w", err)
		}

		_, err = auditstore.Insert(ctx, q, entry)
		return err
	})
	if err != nil {
		return domain.Choice{}, err
	}

	stored, _, err := s.GetByWeekPlayer(ctx, weekID, playerID)
	return stored, err
}

// SetLockAll sets the locked flag on every choice of a week and appends the
// audit entry built by entryFor, which receives the number of rows touched.
// Rows already in the target state are still counted as locked scope, so
// the operation is idempotent in effect and in audit.
// PRE: weekID > 0; entryFor returns a valid entry
// POST: Returns the number of choice rows in the week
func (s *SQLiteStore) SetLockAll(ctx context.Context, weekID int64, lock bool, entryFor func(affected int64) auditdomain.Entry) (int64, error) {
	var affected int64

	err := storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		result, err := q.ExecContext(ctx, "UPDATE sr_choice SET locked = ? WHERE week_id = ?", boolToInt(lock), weekID)
		if err != nil {
			return fmt.Errorf("update choice locks: %w", err)
		}
		if affected, err = result.RowsAffected(); err != nil {
			return err
		}

		_, err = auditstore.Insert(ctx, q, entryFor(affected))
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// UnlockExceptKilled unlocks every choice of a week except those reserving
// an item from a boss already killed this week. Choices with no boss noted
// are unlocked. The audit entry receives the number of rows unlocked.
// PRE: weekID > 0; killedBossIDs lists this week's killed bosses
// POST: Returns the number of choice rows unlocked
func (s *SQLiteStore) UnlockExceptKilled(ctx context.Context, weekID int64, killedBossIDs []int64, entryFor func(unlocked int64) auditdomain.Entry) (int64, error) {
	var unlocked int64

	err := storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		query := "UPDATE sr_choice SET locked = 0 WHERE week_id = ?"
		args := []any{weekID}

		if len(killedBossIDs) > 0 {
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(killedBossIDs)), ", ")
			query += " AND (boss_id IS NULL OR boss_id NOT IN (" + placeholders + "))"
			for _, id := range killedBossIDs {
				args = append(args, id)
			}
		}

		result, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("unlock choices: %w", err)
		}
		if unlocked, err = result.RowsAffected(); err != nil {
			return err
		}

		_, err = auditstore.Insert(ctx, q, entryFor(unlocked))
		return err
	})
	if err != nil {
		return 0, err
	}
	return unlocked, nil
}

const selectChoice = "SELECT id, week_id, player_id, loot_item_id, boss_id, is_tier, locked, notes, received, updated_at FROM sr_choice"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChoice(row rowScanner) (domain.Choice, error) {
	var entity domain.Choice
	var lootItemID, bossID sql.NullInt64
	var isTier, locked, received int
	var updatedAt string

	err := row.Scan(
		&entity.ID,
		&entity.WeekID,
		&entity.PlayerID,
		&lootItemID,
		&bossID,
		&isTier,
		&locked,
		&entity.Notes,
		&received,
		&updatedAt,
	)
	if err != nil {
		return domain.Choice{}, err
	}

	if lootItemID.Valid {
		entity.LootItemID = &lootItemID.Int64
	}
	if bossID.Valid {
		entity.BossID = &bossID.Int64
	}
	entity.IsTier = isTier != 0
	entity.Locked = locked != 0
	entity.Received = received != 0
	entity.UpdatedAt, err = time.Parse(dateLayout, updatedAt)
	if err != nil {
		return domain.Choice{}, fmt.Errorf("parse choice updated_at: %w", err)
	}
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
