package week

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"softres/internal/adapters/storage"
	auditstore "softres/internal/adapters/storage/audit"
	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/week"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new week Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Week by its ID.
// PRE: id > 0
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Week, error) {
	query := "SELECT id, raid_id, label, start_date FROM week WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	entity, err := scanWeek(row)
	if err == sql.ErrNoRows {
		return domain.Week{}, fmt.Errorf("week not found: %w", err)
	}
	return entity, err
}

// GetByLabel retrieves a Week by its label. The label, not a stored flag,
// identifies the current week, so this is the hot lookup.
// PRE: label is non-empty
// POST: Returns the entity and true, or false when no such week exists
func (s *SQLiteStore) GetByLabel(ctx context.Context, label string) (domain.Week, bool, error) {
	query := "SELECT id, raid_id, label, start_date FROM week WHERE label = ?"

	row := s.db.QueryRowContext(ctx, query, label)
	entity, err := scanWeek(row)
	if err == sql.ErrNoRows {
		return domain.Week{}, false, nil
	}
	if err != nil {
		return domain.Week{}, false, err
	}
	return entity, true, nil
}

// List retrieves all weeks, newest first.
// POST: Returns the weeks, possibly empty
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Week, error) {
	query := "SELECT id, raid_id, label, start_date FROM week ORDER BY start_date DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	defer rows.Close()

	var weeks []domain.Week
	for rows.Next() {
		entity, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, entity)
	}
	return weeks, rows.Err()
}

// Create inserts a Week without auditing. Used by seeding, where the week
// materializes as reference data rather than as a rollover action.
// PRE: value has been validated; the label is not yet taken
// POST: Returns the new week id
func (s *SQLiteStore) Create(ctx context.Context, value domain.Week) (int64, error) {
	query := "INSERT INTO week (raid_id, label, start_date) VALUES (?, ?, ?)"

	result, err := s.db.ExecContext(ctx, query,
		value.RaidID,
		value.Label,
		value.StartDate.Format(dateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("create week: %w", err)
	}
	return result.LastInsertId()
}

// EnsureNext inserts the given week if its label does not exist yet, then
// appends the audit entry built by entryFor. Insert and audit row share one
// transaction; a rollover retried after the week already exists still
// audits, with created=false.
// PRE: next has been validated; entryFor returns a valid entry
// POST: Returns the week id for next.Label and whether this call created it
func (s *SQLiteStore) EnsureNext(ctx context.Context, next domain.Week, entryFor func(nextID int64, created bool) auditdomain.Entry) (int64, bool, error) {
	var id int64
	var created bool

	err := storage.RunInTx(ctx, s.db, func(q storage.Querier) error {
		row := q.QueryRowContext(ctx, "SELECT id FROM week WHERE label = ?", next.Label)
		err := row.Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			result, err := q.ExecContext(ctx,
				"INSERT INTO week (raid_id, label, start_date) VALUES (?, ?, ?)",
				next.RaidID, next.Label, next.StartDate.Format(dateLayout),
			)
			if err != nil {
				return fmt.Errorf("insert next week: %w", err)
			}
			if id, err = result.LastInsertId(); err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		}

		_, err = auditstore.Insert(ctx, q, entryFor(id, created))
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return id, created, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeek(row rowScanner) (domain.Week, error) {
	var entity domain.Week
	var startDate string
	err := row.Scan(&entity.ID, &entity.RaidID, &entity.Label, &startDate)
	if err != nil {
		return domain.Week{}, err
	}
	entity.StartDate, err = time.Parse(dateLayout, startDate)
	if err != nil {
		return domain.Week{}, fmt.Errorf("parse week start_date: %w", err)
	}
	return entity, nil
}
