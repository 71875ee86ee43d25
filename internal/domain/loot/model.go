package loot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"softres/internal/domain/class"
)

// Category is the closed set of loot item categories. The first four mirror
// the armor weights; the rest are cross-class or tier-set gear.
type Category string

const (
	CategoryCloth     Category = "CLOTH"
	CategoryLeather   Category = "LEATHER"
	CategoryMail      Category = "MAIL"
	CategoryPlate     Category = "PLATE"
	CategoryAccessory Category = "ACCESSORY"
	CategoryTrinket   Category = "TRINKET"
	CategoryWeapon    Category = "WEAPON"
	CategoryTierSet   Category = "TIER_SET"
)

var categories = map[Category]bool{
	CategoryCloth:     true,
	CategoryLeather:   true,
	CategoryMail:      true,
	CategoryPlate:     true,
	CategoryAccessory: true,
	CategoryTrinket:   true,
	CategoryWeapon:    true,
	CategoryTierSet:   true,
}

// Items in the universal set are a legal reservation target for every class.
var universal = map[Category]bool{
	CategoryAccessory: true,
	CategoryTrinket:   true,
	CategoryWeapon:    true,
}

// ParseCategory validates a raw category string at the boundary.
// Matching is case-insensitive; the canonical upper-case form is returned.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if categories[c] {
		return c, nil
	}
	return "", fmt.Errorf("unknown loot category %q", s)
}

// Item is one entry of the loot catalog. Maintained by the import tooling.
type Item struct {
	ID       int64
	Name     string
	Category Category
	Slot     string
}

// Validate checks if the Item has valid data.
// PRE: Item struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (it *Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return errors.New("loot item name cannot be empty")
	}
	if !categories[it.Category] {
		return fmt.Errorf("unknown loot category %q", it.Category)
	}
	return nil
}

// Drop records that a boss can drop an item. Unique per pair.
type Drop struct {
	BossID     int64
	LootItemID int64
}

// AllowedForClass decides whether an item is a legal reservation target for
// a class, and whether it counts as tier gear:
//
//  1. universal categories (accessory/trinket/weapon) are always allowed;
//  2. the item's category matching the class's armor weight allows it;
//  3. tier-set items — explicit TIER_SET category or a name carrying the
//     class's tier prefix — are allowed and flagged as tier.
//
// isTier is evaluated independently of allowed; isTier implies allowed.
// All string comparisons are case-insensitive. Pure function, no side
// effects.
func AllowedForClass(cls class.Class, it Item) (allowed, isTier bool) {
	if universal[it.Category] {
		allowed = true
	}
	if string(it.Category) == string(cls.ArmorCategory) {
		allowed = true
	}
	isTier = it.Category == CategoryTierSet || hasTierPrefix(cls, it)
	if isTier {
		allowed = true
	}
	return allowed, isTier
}

func hasTierPrefix(cls class.Class, it Item) bool {
	prefix := strings.TrimSpace(cls.TierPrefix)
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(it.Name), strings.ToLower(prefix))
}

// FilterForClass returns the items a class may reserve, sorted by name.
// Used to build per-class pick lists.
func FilterForClass(cls class.Class, items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if allowed, _ := AllowedForClass(cls, it); allowed {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
