package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"softres/internal/domain/class"
	"softres/internal/domain/raid"
	"softres/internal/domain/week"
)

// RaidStoreForSeed defines the raid persistence needed by seeding.
type RaidStoreForSeed interface {
	UpsertRaid(ctx context.Context, value raid.Raid) (int64, error)
	UpsertBoss(ctx context.Context, value raid.Boss) (int64, error)
}

// ClassStoreForSeed defines the class persistence needed by seeding.
type ClassStoreForSeed interface {
	Upsert(ctx context.Context, value class.Class) (int64, error)
}

// WeekStoreForSeed defines the week persistence needed by seeding.
type WeekStoreForSeed interface {
	GetByLabel(ctx context.Context, label string) (week.Week, bool, error)
	Create(ctx context.Context, value week.Week) (int64, error)
}

// SeedDeps holds dependencies for ExecuteSeedReference.
type SeedDeps struct {
	RaidStore  RaidStoreForSeed
	ClassStore ClassStoreForSeed
	WeekStore  WeekStoreForSeed
	Now        func() time.Time
}

// SeedResult reports what seeding touched.
type SeedResult struct {
	RaidID      int64
	Bosses      int
	Classes     int
	WeekLabel   string
	WeekCreated bool
}

// seedRaidName is the raid tier the tracker runs against.
const seedRaidName = "Manaforge Omega"

// seedBosses is the encounter roster, in kill order.
var seedBosses = []string{
	"Plexus Sentinel",
	"Loom'ithar",
	"Soulbinder Naazindhri",
	"Forgeweaver Araz",
	"The Soul Hunters",
	"Fractillus",
	"Nexus-King Salhadaar",
	"Dimensius the All-Devouring",
}

// seedClasses is the playable class roster with armor weights and the
// name prefix marking each class's tier pieces.
var seedClasses = []class.Class{
	{Name: "Mage", ArmorCategory: class.ArmorCloth, TierPrefix: "Mystic"},
	{Name: "Priest", ArmorCategory: class.ArmorCloth, TierPrefix: "Venerated"},
	{Name: "Warlock", ArmorCategory: class.ArmorCloth, TierPrefix: "Dreadful"},
	{Name: "Druid", ArmorCategory: class.ArmorLeather, TierPrefix: "Mystic"},
	{Name: "Demon Hunter", ArmorCategory: class.ArmorLeather, TierPrefix: "Dreadful"},
	{Name: "Monk", ArmorCategory: class.ArmorLeather, TierPrefix: "Zenith"},
	{Name: "Rogue", ArmorCategory: class.ArmorLeather, TierPrefix: "Zenith"},
	{Name: "Hunter", ArmorCategory: class.ArmorMail, TierPrefix: "Mystic"},
	{Name: "Evoker", ArmorCategory: class.ArmorMail, TierPrefix: "Zenith"},
	{Name: "Shaman", ArmorCategory: class.ArmorMail, TierPrefix: "Venerated"},
	{Name: "Death Knight", ArmorCategory: class.ArmorPlate, TierPrefix: "Dreadful"},
	{Name: "Paladin", ArmorCategory: class.ArmorPlate, TierPrefix: "Venerated"},
	{Name: "Warrior", ArmorCategory: class.ArmorPlate, TierPrefix: "Zenith"},
}

// ExecuteSeedReference installs the static reference data: the raid, its
// boss roster, the class table and the current week. Idempotent; safe to
// run on every startup.
// POST: All reference rows exist; the current week has a row
func ExecuteSeedReference(ctx context.Context, deps SeedDeps) (SeedResult, error) {
	raidID, err := deps.RaidStore.UpsertRaid(ctx, raid.Raid{Name: seedRaidName})
	if err != nil {
		return SeedResult{}, err
	}

	for _, name := range seedBosses {
		if _, err := deps.RaidStore.UpsertBoss(ctx, raid.Boss{RaidID: raidID, Name: name}); err != nil {
			return SeedResult{}, err
		}
	}

	for _, c := range seedClasses {
		if _, err := deps.ClassStore.Upsert(ctx, c); err != nil {
			return SeedResult{}, err
		}
	}

	now := deps.Now()
	start := week.CurrentStart(now)
	label := week.LabelFor(start)

	var created bool
	if _, found, err := deps.WeekStore.GetByLabel(ctx, label); err != nil {
		return SeedResult{}, err
	} else if !found {
		if _, err := deps.WeekStore.Create(ctx, week.Week{RaidID: raidID, Label: label, StartDate: start}); err != nil {
			return SeedResult{}, err
		}
		created = true
	}

	result := SeedResult{
		RaidID:      raidID,
		Bosses:      len(seedBosses),
		Classes:     len(seedClasses),
		WeekLabel:   label,
		WeekCreated: created,
	}

	slog.Info("sr_event",
		"event", "reference_seeded",
		"raid_id", raidID,
		"bosses", result.Bosses,
		"classes", result.Classes,
		"week_label", label,
		"week_created", created,
	)
	return result, nil
}
