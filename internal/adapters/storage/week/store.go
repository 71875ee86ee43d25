package week

import (
	"context"

	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/week"
)

// Store persists Week state. EnsureNext is the only audited write: it runs
// the insert and the WEEK_RESET audit row in one transaction.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Week, error)
	GetByLabel(ctx context.Context, label string) (domain.Week, bool, error)
	List(ctx context.Context) ([]domain.Week, error)
	Create(ctx context.Context, value domain.Week) (int64, error)
	EnsureNext(ctx context.Context, next domain.Week, entryFor func(nextID int64, created bool) auditdomain.Entry) (int64, bool, error)
}
