package raid

import (
	"context"

	domain "softres/internal/domain/raid"
)

// Store persists Raid and Boss reference data.
type Store interface {
	GetRaidByID(ctx context.Context, id int64) (domain.Raid, error)
	GetRaidByName(ctx context.Context, name string) (domain.Raid, bool, error)
	ListRaids(ctx context.Context) ([]domain.Raid, error)
	UpsertRaid(ctx context.Context, value domain.Raid) (int64, error)
	GetBossByID(ctx context.Context, id int64) (domain.Boss, error)
	GetBossByName(ctx context.Context, raidID int64, name string) (domain.Boss, bool, error)
	ListBossesByRaid(ctx context.Context, raidID int64) ([]domain.Boss, error)
	UpsertBoss(ctx context.Context, value domain.Boss) (int64, error)
}
