package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"softres/internal/domain/apperr"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/identity"
)

// LockStore defines the bulk lock operations on a week's choices.
type LockStore interface {
	SetLockAll(ctx context.Context, weekID int64, lock bool, entryFor func(affected int64) auditdomain.Entry) (int64, error)
	UnlockExceptKilled(ctx context.Context, weekID int64, killedBossIDs []int64, entryFor func(unlocked int64) auditdomain.Entry) (int64, error)
}

// KillStoreForLocks defines the killed-boss lookup for selective unlock.
type KillStoreForLocks interface {
	KilledBossIDs(ctx context.Context, weekID int64) ([]int64, error)
}

// SetLockAllInput carries input for the bulk lock orchestrator.
type SetLockAllInput struct {
	Actor identity.Identity
	Lock  bool
}

// SetLockAllDeps holds dependencies for ExecuteSetLockAll.
type SetLockAllDeps struct {
	WeekStore WeekResolver
	LockStore LockStore
	Now       func() time.Time
}

// ExecuteSetLockAll locks or unlocks every choice of the current week.
// Officer-only. A week with no choices yet is not an error; the audit entry
// records affected: 0.
// PRE: input.Actor was built by the identity middleware
// POST: Lock flags and audit entry committed atomically
func ExecuteSetLockAll(ctx context.Context, input SetLockAllInput, deps SetLockAllDeps) (int64, error) {
	if !input.Actor.IsOfficer() {
		return 0, apperr.New(apperr.KindOfficerOnly, "only officers may lock reserves")
	}

	now := deps.Now()
	w, err := resolveCurrentWeek(ctx, deps.WeekStore, now)
	if err != nil {
		return 0, err
	}

	action := auditdomain.ActionSRLocked
	if !input.Lock {
		action = auditdomain.ActionSRUnlocked
	}

	affected, err := deps.LockStore.SetLockAll(ctx, w.ID, input.Lock, func(affected int64) auditdomain.Entry {
		entry := auditdomain.NewEntry(action, auditdomain.TargetWeek, auditdomain.WeekTarget(w.ID), input.Actor.Display()).
			WithWeek(w.ID).
			WithMeta(map[string]int64{"affected": affected})
		entry.CreatedAt = now
		return entry
	})
	if err != nil {
		return 0, err
	}

	slog.Info("sr_event",
		"event", "lock_all_set",
		"week_id", w.ID,
		"lock", input.Lock,
		"affected", affected,
		"actor", input.Actor.Display(),
	)
	return affected, nil
}

// UnlockExceptKilledInput carries input for the selective unlock.
type UnlockExceptKilledInput struct {
	Actor identity.Identity
}

// UnlockExceptKilledDeps holds dependencies for ExecuteUnlockExceptKilled.
type UnlockExceptKilledDeps struct {
	WeekStore WeekResolver
	LockStore LockStore
	KillStore KillStoreForLocks
	Now       func() time.Time
}

// ExecuteUnlockExceptKilled unlocks every choice of the current week except
// those pinned to a boss already killed this week. Choices with no boss
// noted are unlocked. Officer-only.
// PRE: input.Actor was built by the identity middleware
// POST: Lock flags and audit entry committed atomically
func ExecuteUnlockExceptKilled(ctx context.Context, input UnlockExceptKilledInput, deps UnlockExceptKilledDeps) (int64, error) {
	if !input.Actor.IsOfficer() {
		return 0, apperr.New(apperr.KindOfficerOnly, "only officers may unlock reserves")
	}

	now := deps.Now()
	w, err := resolveCurrentWeek(ctx, deps.WeekStore, now)
	if err != nil {
		return 0, err
	}

	killed, err := deps.KillStore.KilledBossIDs(ctx, w.ID)
	if err != nil {
		return 0, err
	}

	unlocked, err := deps.LockStore.UnlockExceptKilled(ctx, w.ID, killed, func(unlocked int64) auditdomain.Entry {
		entry := auditdomain.NewEntry(auditdomain.ActionSRUnlockedExceptKilled, auditdomain.TargetWeek, auditdomain.WeekTarget(w.ID), input.Actor.Display()).
			WithWeek(w.ID).
			WithMeta(map[string]any{"unlocked": unlocked, "killedBossIds": killed})
		entry.CreatedAt = now
		return entry
	})
	if err != nil {
		return 0, err
	}

	slog.Info("sr_event",
		"event", "unlock_except_killed",
		"week_id", w.ID,
		"unlocked", unlocked,
		"killed_bosses", len(killed),
		"actor", input.Actor.Display(),
	)
	return unlocked, nil
}
