package bosskill

import (
	"context"

	auditdomain "softres/internal/domain/audit"
	domain "softres/internal/domain/raid"
)

// Store persists per-week boss kill state. Toggle commits its audit entry
// in the same transaction as the flip.
type Store interface {
	ListByWeek(ctx context.Context, weekID int64) ([]domain.Kill, error)
	KilledBossIDs(ctx context.Context, weekID int64) ([]int64, error)
	CountKilled(ctx context.Context, weekID int64) (int64, error)
	Toggle(ctx context.Context, weekID, bossID int64, entryFor func(prev *bool, now bool) auditdomain.Entry) (domain.Kill, error)
}
