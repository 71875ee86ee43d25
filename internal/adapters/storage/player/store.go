package player

import (
	"context"

	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/player"
)

// Store persists Player state. Every mutating method is an audited write:
// the row change and its audit entry (or entries) share one transaction.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Player, error)
	GetByName(ctx context.Context, name string) (domain.Player, bool, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Player, error)
	Create(ctx context.Context, value domain.Player, entryFor func(id int64) auditdomain.Entry) (int64, error)
	SetActive(ctx context.Context, id int64, active bool, entry auditdomain.Entry) error
	SetActiveAll(ctx context.Context, ids []int64, active bool, entries []auditdomain.Entry) error
	UpdateProfile(ctx context.Context, id int64, role domain.Role, classID int64, entry auditdomain.Entry) error
}

// ListFilter carries filtering parameters for List operations. Nil or
// zero-valued fields match everything.
type ListFilter struct {
	Query   string
	Role    *domain.Role
	ClassID *int64
	Active  *bool
}
