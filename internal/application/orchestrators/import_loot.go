package orchestrators

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strings"

	"softres/internal/domain/apperr"
	lootdomain "softres/internal/domain/loot"
	raiddomain "softres/internal/domain/raid"
)

// RaidStoreForImport resolves bosses named in the import file.
type RaidStoreForImport interface {
	ListRaids(ctx context.Context) ([]raiddomain.Raid, error)
	GetBossByName(ctx context.Context, raidID int64, name string) (raiddomain.Boss, bool, error)
}

// LootStoreForImport defines the catalog persistence needed by the import.
type LootStoreForImport interface {
	GetItemByName(ctx context.Context, name string) (lootdomain.Item, bool, error)
	UpsertItem(ctx context.Context, value lootdomain.Item) (int64, error)
	DropExists(ctx context.Context, bossID, lootItemID int64) (bool, error)
	SaveDrop(ctx context.Context, value lootdomain.Drop) error
}

// ImportLootInput carries the parsed CSV reader and import options.
// PRE: Reader is a valid CSV stream with a header row.
// POST: Returns aggregate counts and per-row errors; writes are skipped when DryRun=true.
// INVARIANT: Existing items are never deleted; duplicate drop pairs are skipped, not doubled.
type ImportLootInput struct {
	Reader io.Reader
	DryRun bool
}

// ImportLootResult holds aggregate counts and per-row errors from an import run.
type ImportLootResult struct {
	Total   int
	Created int
	Linked  int
	Skipped int
	Errors  []ImportLootRowError
	DryRun  bool
}

// ImportLootRowError describes a validation or processing error for a single CSV row.
type ImportLootRowError struct {
	Row     int
	Message string
}

// ImportLootDeps holds external dependencies for the import orchestrator.
type ImportLootDeps struct {
	RaidStore RaidStoreForImport
	LootStore LootStoreForImport
}

// ExecuteImportLoot parses a CSV of boss,item,category,slot rows and fills the
// loot catalog and drop table. Item names dedup against the existing catalog,
// categories are case-normalized, and a (boss, item) pair already present in
// the drop table is counted as skipped.
// PRE: the raid roster is seeded; Input.Reader has BOSS, ITEM, CATEGORY, SLOT columns.
// POST: catalog rows upserted and drops linked; counts and per-row errors returned.
func ExecuteImportLoot(ctx context.Context, input ImportLootInput, deps ImportLootDeps) (ImportLootResult, error) {
	raids, err := deps.RaidStore.ListRaids(ctx)
	if err != nil {
		return ImportLootResult{}, err
	}
	if len(raids) == 0 {
		return ImportLootResult{}, apperr.New(apperr.KindBadRequest, "no raid seeded; run seed first")
	}
	raidID := raids[0].ID

	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return ImportLootResult{}, apperr.New(apperr.KindBadRequest, "csv is empty or unreadable")
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"BOSS", "ITEM", "CATEGORY", "SLOT"} {
		if _, ok := colIdx[col]; !ok {
			return ImportLootResult{}, apperr.New(apperr.KindBadRequest, "csv missing required column: "+col)
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := ImportLootResult{DryRun: input.DryRun}
	rowNum := 1

	for {
		row, err := cr.Read()
		if err != nil {
			break
		}
		rowNum++
		result.Total++

		bossName := getCol(row, "BOSS")
		itemName := getCol(row, "ITEM")

		if bossName == "" || itemName == "" {
			result.Errors = append(result.Errors, ImportLootRowError{Row: rowNum, Message: "boss and item are required"})
			result.Skipped++
			continue
		}

		category, err := lootdomain.ParseCategory(getCol(row, "CATEGORY"))
		if err != nil {
			result.Errors = append(result.Errors, ImportLootRowError{Row: rowNum, Message: err.Error()})
			result.Skipped++
			continue
		}

		boss, found, err := deps.RaidStore.GetBossByName(ctx, raidID, bossName)
		if err != nil {
			return result, err
		}
		if !found {
			result.Errors = append(result.Errors, ImportLootRowError{Row: rowNum, Message: "unknown boss: " + bossName})
			result.Skipped++
			continue
		}

		item, found, err := deps.LootStore.GetItemByName(ctx, itemName)
		if err != nil {
			return result, err
		}
		itemID := item.ID
		if !found {
			result.Created++
			if input.DryRun {
				// New item: the drop pair cannot exist yet either.
				result.Linked++
				continue
			}
			itemID, err = deps.LootStore.UpsertItem(ctx, lootdomain.Item{
				Name:     itemName,
				Category: category,
				Slot:     strings.ToUpper(getCol(row, "SLOT")),
			})
			if err != nil {
				return result, err
			}
		}

		exists, err := deps.LootStore.DropExists(ctx, boss.ID, itemID)
		if err != nil {
			return result, err
		}
		if exists {
			result.Skipped++
			continue
		}
		result.Linked++
		if input.DryRun {
			continue
		}
		if err := deps.LootStore.SaveDrop(ctx, lootdomain.Drop{BossID: boss.ID, LootItemID: itemID}); err != nil {
			return result, err
		}
	}

	slog.Info("sr_event",
		"event", "loot_imported",
		"total", result.Total,
		"created", result.Created,
		"linked", result.Linked,
		"skipped", result.Skipped,
		"dry_run", result.DryRun,
	)
	return result, nil
}
