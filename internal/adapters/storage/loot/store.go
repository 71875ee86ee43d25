package loot

import (
	"context"

	domain "softres/internal/domain/loot"
)

// Store persists the loot catalog and the boss drop table.
type Store interface {
	GetItemByID(ctx context.Context, id int64) (domain.Item, error)
	GetItemByName(ctx context.Context, name string) (domain.Item, bool, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	UpsertItem(ctx context.Context, value domain.Item) (int64, error)
	SaveDrop(ctx context.Context, value domain.Drop) error
	DropExists(ctx context.Context, bossID, lootItemID int64) (bool, error)
	ListDropsForBoss(ctx context.Context, bossID int64) ([]domain.Item, error)
	ListBossIDsForItem(ctx context.Context, lootItemID int64) ([]int64, error)
}
