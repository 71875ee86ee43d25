package projections

import (
	"context"

	"softres/internal/domain/apperr"
	"softres/internal/domain/class"
	"softres/internal/domain/loot"
	"softres/internal/domain/raid"
)

// ReferenceClassStore defines the class lookups for reference reads.
type ReferenceClassStore interface {
	GetByID(ctx context.Context, id int64) (class.Class, error)
	List(ctx context.Context) ([]class.Class, error)
}

// ReferenceRaidStore defines the raid and boss lookups for reference reads.
type ReferenceRaidStore interface {
	ListRaids(ctx context.Context) ([]raid.Raid, error)
	GetBossByID(ctx context.Context, id int64) (raid.Boss, error)
	ListBossesByRaid(ctx context.Context, raidID int64) ([]raid.Boss, error)
}

// ReferenceLootStore defines the loot catalog lookups for reference reads.
type ReferenceLootStore interface {
	GetItemByID(ctx context.Context, id int64) (loot.Item, error)
	ListItems(ctx context.Context) ([]loot.Item, error)
	ListDropsForBoss(ctx context.Context, bossID int64) ([]loot.Item, error)
	ListBossIDsForItem(ctx context.Context, lootItemID int64) ([]int64, error)
}

// ClassRow is one playable class with its eligibility attributes.
type ClassRow struct {
	ClassID    int64  `json:"classId"`
	Name       string `json:"name"`
	ArmorType  string `json:"armorType"`
	TierPrefix string `json:"tierPrefix,omitempty"`
}

// BossRow is one boss in encounter order.
type BossRow struct {
	BossID int64  `json:"bossId"`
	RaidID int64  `json:"raidId"`
	Name   string `json:"name"`
}

// LootRow is one loot catalog entry.
type LootRow struct {
	LootItemID int64  `json:"lootItemId"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Slot       string `json:"slot,omitempty"`
}

// QueryListClasses returns the playable classes, sorted by name.
func QueryListClasses(ctx context.Context, store ReferenceClassStore) ([]ClassRow, error) {
	classes, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]ClassRow, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, ClassRow{
			ClassID:    c.ID,
			Name:       c.Name,
			ArmorType:  string(c.ArmorCategory),
			TierPrefix: c.TierPrefix,
		})
	}
	return rows, nil
}

// QueryListBosses returns all bosses of a raid in encounter order. A zero
// raidID selects the first raid on record.
func QueryListBosses(ctx context.Context, raidID int64, raids ReferenceRaidStore) ([]BossRow, error) {
	if raidID == 0 {
		all, err := raids.ListRaids(ctx)
		if err != nil {
			return nil, err
		}
		if len(all) == 0 {
			return []BossRow{}, nil
		}
		raidID = all[0].ID
	}

	bosses, err := raids.ListBossesByRaid(ctx, raidID)
	if err != nil {
		return nil, err
	}
	rows := make([]BossRow, 0, len(bosses))
	for _, b := range bosses {
		rows = append(rows, BossRow{BossID: b.ID, RaidID: b.RaidID, Name: b.Name})
	}
	return rows, nil
}

// GetLootInput carries the optional class filter for the loot catalog read.
type GetLootInput struct {
	ClassID *int64
}

// GetLootDeps holds dependencies for the loot catalog projection.
type GetLootDeps struct {
	LootStore  ReferenceLootStore
	ClassStore ReferenceClassStore
}

// QueryListLoot returns the loot catalog. When a class filter is present,
// only items that class may reserve are returned.
// POST: Rows sorted by name when filtered
func QueryListLoot(ctx context.Context, input GetLootInput, deps GetLootDeps) ([]LootRow, error) {
	items, err := deps.LootStore.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	if input.ClassID != nil {
		cls, err := deps.ClassStore.GetByID(ctx, *input.ClassID)
		if err != nil {
			return nil, apperr.New(apperr.KindBadRequest, "unknown class")
		}
		items = loot.FilterForClass(cls, items)
	}

	rows := make([]LootRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, LootRow{
			LootItemID: it.ID,
			Name:       it.Name,
			Category:   string(it.Category),
			Slot:       it.Slot,
		})
	}
	return rows, nil
}

// QueryLootForBoss returns the drop table of one boss.
func QueryLootForBoss(ctx context.Context, bossID int64, raids ReferenceRaidStore, lootStore ReferenceLootStore) ([]LootRow, error) {
	if _, err := raids.GetBossByID(ctx, bossID); err != nil {
		return nil, apperr.New(apperr.KindInvalidBoss, "unknown boss")
	}
	items, err := lootStore.ListDropsForBoss(ctx, bossID)
	if err != nil {
		return nil, err
	}
	rows := make([]LootRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, LootRow{
			LootItemID: it.ID,
			Name:       it.Name,
			Category:   string(it.Category),
			Slot:       it.Slot,
		})
	}
	return rows, nil
}

// QueryLootLabels resolves loot item ids to display names for the audit
// trail and board UIs. Unknown ids are dropped, not fatal: the trail may
// reference items removed from the catalog.
// POST: Returns a non-nil map keyed by item id
func QueryLootLabels(ctx context.Context, ids []int64, lootStore ReferenceLootStore) (map[int64]string, error) {
	labels := make(map[int64]string, len(ids))
	for _, id := range ids {
		item, err := lootStore.GetItemByID(ctx, id)
		if err != nil {
			continue
		}
		labels[item.ID] = item.Name
	}
	return labels, nil
}

// QueryBossesForItem returns the bosses that can drop an item, in
// encounter order.
func QueryBossesForItem(ctx context.Context, lootItemID int64, lootStore ReferenceLootStore, raids ReferenceRaidStore) ([]BossRow, error) {
	if _, err := lootStore.GetItemByID(ctx, lootItemID); err != nil {
		return nil, apperr.New(apperr.KindInvalidItem, "unknown loot item")
	}
	bossIDs, err := lootStore.ListBossIDsForItem(ctx, lootItemID)
	if err != nil {
		return nil, err
	}
	rows := make([]BossRow, 0, len(bossIDs))
	for _, id := range bossIDs {
		b, err := raids.GetBossByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rows = append(rows, BossRow{BossID: b.ID, RaidID: b.RaidID, Name: b.Name})
	}
	return rows, nil
}
