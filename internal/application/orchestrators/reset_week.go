package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"softres/internal/domain/apperr"
	auditdomain "softres/internal/domain/audit"
	"softres/internal/domain/identity"
	"softres/internal/domain/week"
)

// WeekStoreForReset defines the week persistence needed by the rollover.
type WeekStoreForReset interface {
	GetByLabel(ctx context.Context, label string) (week.Week, bool, error)
	EnsureNext(ctx context.Context, next week.Week, entryFor func(nextID int64, created bool) auditdomain.Entry) (int64, bool, error)
}

// ChoiceCounter counts a week's choice rows for the rollover snapshot.
type ChoiceCounter interface {
	CountByWeek(ctx context.Context, weekID int64) (int64, error)
}

// KillCounter counts a week's killed bosses for the rollover snapshot.
type KillCounter interface {
	CountKilled(ctx context.Context, weekID int64) (int64, error)
}

// ResetWeekInput carries input for the rollover orchestrator.
type ResetWeekInput struct {
	Actor identity.Identity
}

// ResetWeekDeps holds dependencies for ExecuteResetWeek. Digest may be nil
// when no sender is configured.
type ResetWeekDeps struct {
	WeekStore   WeekStoreForReset
	ChoiceStore ChoiceCounter
	KillStore   KillCounter
	Digest      DigestSender
	Now         func() time.Time
}

// ResetWeekResult reports what the rollover did.
type ResetWeekResult struct {
	CurrentWeekID int64
	CurrentLabel  string
	NextWeekID    int64
	NextLabel     string
	Created       bool
	ClosedChoices int64
	ClosedKills   int64
}

// ExecuteResetWeek opens the next weekly cycle. Officer-only. The current
// week must exist: a store that was never seeded, or one whose rollovers
// were skipped past the current label, gets current_week_missing rather
// than a silently fabricated week. The next start is derived from the
// current week's stored start, never from the wall clock, so a rollover
// triggered late still lands on the right Tuesday. Nothing is deleted;
// running it twice is safe and both runs are audited, the second with
// created: false.
// PRE: input.Actor was built by the identity middleware
// POST: Next week exists; one WEEK_RESET audit entry appended
func ExecuteResetWeek(ctx context.Context, input ResetWeekInput, deps ResetWeekDeps) (ResetWeekResult, error) {
	if !input.Actor.IsOfficer() {
		return ResetWeekResult{}, apperr.New(apperr.KindOfficerOnly, "only officers may reset the week")
	}

	now := deps.Now()
	current, err := resolveCurrentWeek(ctx, deps.WeekStore, now)
	if err != nil {
		return ResetWeekResult{}, err
	}

	choices, err := deps.ChoiceStore.CountByWeek(ctx, current.ID)
	if err != nil {
		return ResetWeekResult{}, err
	}
	kills, err := deps.KillStore.CountKilled(ctx, current.ID)
	if err != nil {
		return ResetWeekResult{}, err
	}

	nextStart := week.NextStart(current.StartDate)
	next := week.Week{
		RaidID:    current.RaidID,
		Label:     week.LabelFor(nextStart),
		StartDate: nextStart,
	}

	nextID, created, err := deps.WeekStore.EnsureNext(ctx, next, func(nextID int64, created bool) auditdomain.Entry {
		entry := auditdomain.NewEntry(auditdomain.ActionWeekReset, auditdomain.TargetWeek, auditdomain.WeekTarget(current.ID), input.Actor.Display()).
			WithWeek(current.ID).
			WithBefore(map[string]any{"label": current.Label, "choicesCount": choices, "killsTrueCount": kills}).
			WithAfter(map[string]any{"nextWeekId": nextID, "nextLabel": next.Label, "created": created})
		entry.CreatedAt = now
		return entry
	})
	if err != nil {
		return ResetWeekResult{}, err
	}

	result := ResetWeekResult{
		CurrentWeekID: current.ID,
		CurrentLabel:  current.Label,
		NextWeekID:    nextID,
		NextLabel:     next.Label,
		Created:       created,
		ClosedChoices: choices,
		ClosedKills:   kills,
	}

	slog.Info("sr_event",
		"event", "week_reset",
		"current_week_id", current.ID,
		"next_week_id", nextID,
		"created", created,
		"closed_choices", choices,
		"closed_kills", kills,
		"actor", input.Actor.Display(),
	)

	// The digest is best effort: a mail failure never fails the rollover.
	if deps.Digest != nil {
		digest := WeekDigest{
			CurrentLabel:  result.CurrentLabel,
			NextLabel:     result.NextLabel,
			ClosedChoices: choices,
			ClosedKills:   kills,
			Created:       created,
		}
		if err := sendWeekDigest(ctx, deps.Digest, digest); err != nil {
			slog.Error("sr_event", "event", "digest_send_failed", "error", err)
		}
	}

	return result, nil
}
