package srchoice

import (
	"context"
	"time"

	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/srchoice"
)

// Store persists soft-reserve choices and their per-week history mirror.
// Every mutating method commits its audit entry in the same transaction as
// the state change.
type Store interface {
	GetByWeekPlayer(ctx context.Context, weekID, playerID int64) (domain.Choice, bool, error)
	ListByWeek(ctx context.Context, weekID int64) ([]domain.Choice, error)
	CountByWeek(ctx context.Context, weekID int64) (int64, error)
	ApplyChoice(ctx context.Context, value domain.Choice, entry auditdomain.Entry) (domain.Choice, error)
	SetReceived(ctx context.Context, weekID, playerID int64, received bool, updatedAt time.Time, entry auditdomain.Entry) (domain.Choice, error)
	SetLockAll(ctx context.Context, weekID int64, lock bool, entryFor func(affected int64) auditdomain.Entry) (int64, error)
	UnlockExceptKilled(ctx context.Context, weekID int64, killedBossIDs []int64, entryFor func(unlocked int64) auditdomain.Entry) (int64, error)
}
