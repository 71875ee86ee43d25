package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"softres/internal/domain/apperr"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/identity"
	"softres/internal/domain/raid"
)

// BossStoreForKill defines the boss lookup needed by the kill toggle.
type BossStoreForKill interface {
	GetBossByID(ctx context.Context, id int64) (raid.Boss, error)
}

// KillStore defines the kill persistence needed by the kill toggle.
type KillStore interface {
	Toggle(ctx context.Context, weekID, bossID int64, entryFor func(prev *bool, now bool) auditdomain.Entry) (raid.Kill, error)
}

// ToggleKillInput carries input for the kill toggle.
type ToggleKillInput struct {
	Actor  identity.Identity
	BossID int64
}

// ToggleKillDeps holds dependencies for ExecuteToggleKill.
type ToggleKillDeps struct {
	WeekStore WeekResolver
	BossStore BossStoreForKill
	KillStore KillStore
	Now       func() time.Time
}

// ExecuteToggleKill flips a boss's kill state for the current week.
// Officer-only. The first toggle for a (week, boss) pair creates the row as
// killed; every later toggle flips it.
// PRE: input.Actor was built by the identity middleware
// POST: Kill row and audit entry committed atomically
func ExecuteToggleKill(ctx context.Context, input ToggleKillInput, deps ToggleKillDeps) (raid.Kill, error) {
	if !input.Actor.IsOfficer() {
		return raid.Kill{}, apperr.New(apperr.KindOfficerOnly, "only officers may toggle kills")
	}
	if input.BossID <= 0 {
		return raid.Kill{}, apperr.New(apperr.KindBadRequest, "boss id is required")
	}

	now := deps.Now()
	w, err := resolveCurrentWeek(ctx, deps.WeekStore, now)
	if err != nil {
		return raid.Kill{}, err
	}

	boss, err := deps.BossStore.GetBossByID(ctx, input.BossID)
	if err != nil {
		return raid.Kill{}, apperr.New(apperr.KindInvalidBoss, "unknown boss")
	}
	if boss.RaidID != w.RaidID {
		return raid.Kill{}, apperr.New(apperr.KindInvalidBoss, "boss is not part of this raid")
	}

	kill, err := deps.KillStore.Toggle(ctx, w.ID, boss.ID, func(prev *bool, killed bool) auditdomain.Entry {
		entry := auditdomain.NewEntry(auditdomain.ActionBossKillToggled, auditdomain.TargetBossKill, auditdomain.WeekBossTarget(w.ID, boss.ID), input.Actor.Display()).
			WithWeek(w.ID).
			WithAfter(map[string]bool{"killed": killed}).
			WithMeta(map[string]string{"display": fmt.Sprintf("Kill: %s • killed: %t", boss.Name, killed)})
		if prev != nil {
			entry = entry.WithBefore(map[string]bool{"killed": *prev})
		}
		entry.CreatedAt = now
		return entry
	})
	if err != nil {
		return raid.Kill{}, err
	}

	slog.Info("sr_event",
		"event", "kill_toggled",
		"week_id", w.ID,
		"boss_id", boss.ID,
		"killed", kill.Killed,
		"actor", input.Actor.Display(),
	)
	return kill, nil
}
