package audit

import (
	"context"
	"time"

	domain "softres/internal/domain/audit"
)

// Store reads the append-only audit trail. Writes go through the
// package-level Insert function so they can run inside the same
// transaction as the state change they record.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Entry, error)
	List(ctx context.Context, filter Filter, cursor int64, limit int) ([]domain.Entry, int64, error)
}

// Filter carries filtering parameters for List operations. Nil fields
// match everything.
type Filter struct {
	Action        *domain.Action
	TargetType    *domain.TargetType
	WeekID        *int64
	ActorContains *string
	From          *time.Time
	To            *time.Time
}
