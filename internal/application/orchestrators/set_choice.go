package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"softres/internal/domain/apperr"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/class"
	"softres/internal/domain/identity"
	"softres/internal/domain/loot"
	"softres/internal/domain/player"
	"softres/internal/domain/raid"
	"softres/internal/domain/srchoice"
)

// PlayerStoreForChoice defines the player lookup needed by the choice engine.
type PlayerStoreForChoice interface {
	GetByID(ctx context.Context, id int64) (player.Player, error)
}

// ClassStoreForChoice defines the class lookup needed by the choice engine.
type ClassStoreForChoice interface {
	GetByID(ctx context.Context, id int64) (class.Class, error)
}

// LootStoreForChoice defines the catalog lookups needed by the choice engine.
type LootStoreForChoice interface {
	GetItemByID(ctx context.Context, id int64) (loot.Item, error)
	DropExists(ctx context.Context, bossID, lootItemID int64) (bool, error)
}

// BossStoreForChoice defines the boss lookup needed by the choice engine.
type BossStoreForChoice interface {
	GetBossByID(ctx context.Context, id int64) (raid.Boss, error)
}

// ChoiceStore defines the choice persistence needed by the choice engine.
type ChoiceStore interface {
	GetByWeekPlayer(ctx context.Context, weekID, playerID int64) (srchoice.Choice, bool, error)
	ApplyChoice(ctx context.Context, value srchoice.Choice, entry auditdomain.Entry) (srchoice.Choice, error)
	SetReceived(ctx context.Context, weekID, playerID int64, received bool, updatedAt time.Time, entry auditdomain.Entry) (srchoice.Choice, error)
}

// SetChoiceInput carries input for the choice engine. A nil LootItemID
// clears the reservation.
type SetChoiceInput struct {
	Actor      identity.Identity
	PlayerID   int64
	LootItemID *int64
	BossID     *int64
	Notes      string
}

// SetChoiceDeps holds dependencies for ExecuteSetChoice.
type SetChoiceDeps struct {
	WeekStore   WeekResolver
	PlayerStore PlayerStoreForChoice
	ClassStore  ClassStoreForChoice
	LootStore   LootStoreForChoice
	BossStore   BossStoreForChoice
	ChoiceStore ChoiceStore
	Now         func() time.Time
}

// ExecuteSetChoice sets, changes or clears a player's soft reserve for the
// current week. Players may act on their own row; officers on anyone's.
// Every validation runs before the write transaction opens; a locked row is
// rejected without touching storage or the audit trail.
// PRE: input.Actor was built by the identity middleware
// POST: Choice, mirror and audit row committed atomically, or nothing
func ExecuteSetChoice(ctx context.Context, input SetChoiceInput, deps SetChoiceDeps) (srchoice.Choice, error) {
	if input.PlayerID <= 0 {
		return srchoice.Choice{}, apperr.New(apperr.KindBadRequest, "player id is required")
	}
	if !input.Actor.IsOfficer() {
		if input.Actor.Kind != identity.KindPlayer || input.Actor.PlayerID != input.PlayerID {
			return srchoice.Choice{}, apperr.New(apperr.KindOfficerOnly, "players may only set their own reserve")
		}
	}

	now := deps.Now()
	w, err := resolveCurrentWeek(ctx, deps.WeekStore, now)
	if err != nil {
		return srchoice.Choice{}, err
	}

	p, err := deps.PlayerStore.GetByID(ctx, input.PlayerID)
	if err != nil {
		return srchoice.Choice{}, apperr.New(apperr.KindInvalidPlayer, "unknown player")
	}
	if !p.Active {
		return srchoice.Choice{}, apperr.New(apperr.KindInvalidPlayer, "player is inactive")
	}

	existing, hasExisting, err := deps.ChoiceStore.GetByWeekPlayer(ctx, w.ID, p.ID)
	if err != nil {
		return srchoice.Choice{}, err
	}
	if hasExisting && existing.Locked {
		return srchoice.Choice{}, apperr.New(apperr.KindLocked, "reserve is locked for this week")
	}

	next := srchoice.Choice{
		WeekID:    w.ID,
		PlayerID:  p.ID,
		Notes:     strings.TrimSpace(input.Notes),
		UpdatedAt: now,
	}
	if hasExisting {
		next.Received = existing.Received
	}

	var itemName, bossName string
	if input.LootItemID != nil {
		item, err := deps.LootStore.GetItemByID(ctx, *input.LootItemID)
		if err != nil {
			return srchoice.Choice{}, apperr.New(apperr.KindInvalidItem, "unknown loot item")
		}

		cls, err := deps.ClassStore.GetByID(ctx, p.ClassID)
		if err != nil {
			return srchoice.Choice{}, err
		}
		allowed, isTier := loot.AllowedForClass(cls, item)
		if !allowed {
			return srchoice.Choice{}, apperr.New(apperr.KindItemNotUsable, fmt.Sprintf("%s cannot use %s", cls.Name, item.Name))
		}

		next.LootItemID = &item.ID
		next.IsTier = isTier
		itemName = item.Name

		if input.BossID != nil {
			boss, err := deps.BossStore.GetBossByID(ctx, *input.BossID)
			if err != nil {
				return srchoice.Choice{}, apperr.New(apperr.KindInvalidBoss, "unknown boss")
			}
			if boss.RaidID != w.RaidID {
				return srchoice.Choice{}, apperr.New(apperr.KindInvalidBoss, "boss is not part of this raid")
			}
			drops, err := deps.LootStore.DropExists(ctx, boss.ID, item.ID)
			if err != nil {
				return srchoice.Choice{}, err
			}
			if !drops {
				return srchoice.Choice{}, apperr.New(apperr.KindBossDoesNotDrop, fmt.Sprintf("%s does not drop %s", boss.Name, item.Name))
			}
			next.BossID = &boss.ID
			bossName = boss.Name
		}
	}

	if err := next.Validate(); err != nil {
		return srchoice.Choice{}, apperr.New(apperr.KindBadRequest, err.Error())
	}

	entry := auditdomain.NewEntry(auditdomain.ActionSRChoiceSet, auditdomain.TargetSRChoice, auditdomain.WeekPlayerTarget(w.ID, p.ID), input.Actor.Display()).
		WithWeek(w.ID).
		WithAfter(choiceSnapshot(next)).
		WithMeta(map[string]string{"display": choiceDisplay(p.Name, itemName, bossName, next)})
	if hasExisting {
		entry = entry.WithBefore(choiceSnapshot(existing))
	}
	entry.CreatedAt = now

	stored, err := deps.ChoiceStore.ApplyChoice(ctx, next, entry)
	if err != nil {
		return srchoice.Choice{}, err
	}

	slog.Info("sr_event",
		"event", "choice_set",
		"week_id", w.ID,
		"player_id", p.ID,
		"cleared", stored.IsClear(),
		"is_tier", stored.IsTier,
		"actor", input.Actor.Display(),
	)
	return stored, nil
}

// SetReceivedInput carries input for the received toggle.
type SetReceivedInput struct {
	Actor    identity.Identity
	PlayerID int64
	Received bool
}

// SetReceivedDeps holds dependencies for ExecuteSetReceived.
type SetReceivedDeps struct {
	WeekStore   WeekResolver
	PlayerStore PlayerStoreForChoice
	ChoiceStore ChoiceStore
	Now         func() time.Time
}

// ExecuteSetReceived marks a player's current reserve as handed out (or
// not). Officer-only; the reservation itself is untouched. A player without
// a reserve this week gets a bare row holding only the flag, so off-list
// handouts still show up on the sheet.
// PRE: input.Actor was built by the identity middleware
// POST: received flag and audit row committed atomically
func ExecuteSetReceived(ctx context.Context, input SetReceivedInput, deps SetReceivedDeps) (srchoice.Choice, error) {
	if !input.Actor.IsOfficer() {
		return srchoice.Choice{}, apperr.New(apperr.KindOfficerOnly, "only officers may mark items received")
	}
	if input.PlayerID <= 0 {
		return srchoice.Choice{}, apperr.New(apperr.KindBadRequest, "player id is required")
	}

	now := deps.Now()
	w, err := resolveCurrentWeek(ctx, deps.WeekStore, now)
	if err != nil {
		return srchoice.Choice{}, err
	}

	p, err := deps.PlayerStore.GetByID(ctx, input.PlayerID)
	if err != nil {
		return srchoice.Choice{}, apperr.New(apperr.KindInvalidPlayer, "unknown player")
	}

	existing, found, err := deps.ChoiceStore.GetByWeekPlayer(ctx, w.ID, p.ID)
	if err != nil {
		return srchoice.Choice{}, err
	}

	next := existing
	if !found {
		next = srchoice.Choice{WeekID: w.ID, PlayerID: p.ID}
	}
	next.Received = input.Received

	entry := auditdomain.NewEntry(auditdomain.ActionSRReceivedToggled, auditdomain.TargetSRChoice, auditdomain.WeekPlayerTarget(w.ID, p.ID), input.Actor.Display()).
		WithWeek(w.ID).
		WithAfter(choiceSnapshot(next)).
		WithMeta(map[string]string{"display": fmt.Sprintf("SR: %s • received: %t", p.Name, input.Received)})
	if found {
		entry = entry.WithBefore(choiceSnapshot(existing))
	}
	entry.CreatedAt = now

	updated, err := deps.ChoiceStore.SetReceived(ctx, w.ID, p.ID, input.Received, now, entry)
	if err != nil {
		return srchoice.Choice{}, err
	}

	slog.Info("sr_event",
		"event", "received_toggled",
		"week_id", w.ID,
		"player_id", p.ID,
		"received", input.Received,
		"actor", input.Actor.Display(),
	)
	return updated, nil
}

// choiceSnapshot builds the audit snapshot for a choice row. Key names are
// part of the audit trail's contract with its consumers.
func choiceSnapshot(c srchoice.Choice) map[string]any {
	return map[string]any{
		"lootItemId": c.LootItemID,
		"bossId":     c.BossID,
		"notes":      c.Notes,
		"isTier":     c.IsTier,
		"received":   c.Received,
	}
}

// choiceDisplay builds the human-readable one-liner shown in the trail UI.
func choiceDisplay(playerName, itemName, bossName string, c srchoice.Choice) string {
	if c.IsClear() {
		return fmt.Sprintf("SR: %s cleared", playerName)
	}
	parts := []string{fmt.Sprintf("SR: %s", playerName), "Item: " + itemName}
	if bossName != "" {
		parts = append(parts, "Boss: "+bossName)
	}
	if c.IsTier {
		parts = append(parts, "Tier")
	}
	if c.Notes != "" {
		parts = append(parts, "Notes: "+c.Notes)
	}
	return strings.Join(parts, " • ")
}
