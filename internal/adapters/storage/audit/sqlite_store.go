package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"softres/internal/adapters/storage"
	domain "softres/internal/domain/audit"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// Limit bounds for the trail listing. Requests outside the range are
// clamped, never rejected.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Insert appends one audit entry using the given Querier, which may be a
// *sql.Tx. Every mutating store calls this inside its own transaction so
// the state change and its audit row commit or roll back together.
// PRE: q is a live connection or open transaction; e.CreatedAt is set
// POST: Returns the new entry id, or an error that must abort the tx
func Insert(ctx context.Context, q storage.Querier, e domain.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("invalid audit entry: %w", err)
	}

	query := `INSERT INTO audit_log (action, target_type, target_id, week_id, before_json, after_json, actor_display, meta_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := q.ExecContext(ctx, query,
		string(e.Action),
		string(e.TargetType),
		e.TargetID,
		e.WeekID,
		nullJSON(e.Before),
		nullJSON(e.After),
		e.ActorDisplay,
		nullJSON(e.Meta),
		e.CreatedAt.UTC().Format(dateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert audit entry: %w", err)
	}
	return result.LastInsertId()
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a single audit entry.
// PRE: id > 0
// POST: Returns the entry or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Entry, error) {
	query := "SELECT id, action, target_type, target_id, week_id, before_json, after_json, actor_display, meta_json, created_at FROM audit_log WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("audit entry not found: %w", err)
	}
	return entry, err
}

// List returns a page of the trail, newest first. cursor is the id of the
// last entry of the previous page (0 for the first page); the returned
// nextCursor is 0 when no further page exists.
// PRE: filter fields, when set, are valid values
// POST: Returns at most limit entries ordered by (created_at DESC, id DESC)
func (s *SQLiteStore) List(ctx context.Context, filter Filter, cursor int64, limit int) ([]domain.Entry, int64, error) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var conditions []string
	var args []any

	if filter.Action != nil {
		conditions = append(conditions, "action = ?")
		args = append(args, string(*filter.Action))
	}
	if filter.TargetType != nil {
		conditions = append(conditions, "target_type = ?")
		args = append(args, string(*filter.TargetType))
	}
	if filter.WeekID != nil {
		conditions = append(conditions, "week_id = ?")
		args = append(args, *filter.WeekID)
	}
	if filter.ActorContains != nil && *filter.ActorContains != "" {
		conditions = append(conditions, "actor_display LIKE ?")
		args = append(args, "%"+*filter.ActorContains+"%")
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.From.UTC().Format(dateLayout))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.To.UTC().Format(dateLayout))
	}
	if cursor > 0 {
		conditions = append(conditions, "id < ?")
		args = append(args, cursor)
	}

	query := "SELECT id, action, target_type, target_id, week_id, before_json, after_json, actor_display, meta_json, created_at FROM audit_log"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	// Fetch one extra row to decide whether another page exists.
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var nextCursor int64
	if len(entries) > limit {
		entries = entries[:limit]
		nextCursor = entries[len(entries)-1].ID
	}
	return entries, nextCursor, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var entry domain.Entry
	var action, targetType, createdAt string
	var weekID sql.NullInt64
	var before, after, meta sql.NullString

	err := row.Scan(
		&entry.ID,
		&action,
		&targetType,
		&entry.TargetID,
		&weekID,
		&before,
		&after,
		&entry.ActorDisplay,
		&meta,
		&createdAt,
	)
	if err != nil {
		return domain.Entry{}, err
	}

	entry.Action = domain.Action(action)
	entry.TargetType = domain.TargetType(targetType)
	if weekID.Valid {
		entry.WeekID = &weekID.Int64
	}
	if before.Valid {
		entry.Before = []byte(before.String)
	}
	if after.Valid {
		entry.After = []byte(after.String)
	}
	if meta.Valid {
		entry.Meta = []byte(meta.String)
	}
	entry.CreatedAt, err = time.Parse(dateLayout, createdAt)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("parse audit created_at: %w", err)
	}
	return entry, nil
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
